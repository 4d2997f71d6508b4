package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/scoutlab/scout/internal/scanner"
	"github.com/scoutlab/scout/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ScanStream runs a scan per websocket connection and streams per-ticker
// progress, finishing with the full result.
type ScanStream struct {
	scans  *scanner.Service
	logger *logger.Logger
}

// NewScanStream creates the websocket scan endpoint.
func NewScanStream(scans *scanner.Service, log *logger.Logger) *ScanStream {
	return &ScanStream{scans: scans, logger: log.WithField("module", "api")}
}

// streamMessage is the wire envelope for scan stream frames.
type streamMessage struct {
	Type     string                 `json:"type"` // "progress" or "result"
	Progress *scanner.ProgressEvent `json:"progress,omitempty"`
	Result   *scanner.ScanResult    `json:"result,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Handle upgrades the connection, runs one scan and streams its progress.
// GET /ws/scan
func (s *ScanStream) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Progress events arrive from the scan's collector goroutine; the final
	// result is written after Run returns, so writes never interleave.
	result, err := s.scans.Run(r.Context(), func(ev scanner.ProgressEvent) {
		if writeErr := conn.WriteJSON(streamMessage{Type: "progress", Progress: &ev}); writeErr != nil {
			s.logger.WithError(writeErr).Debug("Websocket progress write failed")
		}
	})
	if err != nil {
		_ = conn.WriteJSON(streamMessage{Type: "result", Error: "scan failed"})
		return
	}

	if err := conn.WriteJSON(streamMessage{Type: "result", Result: result}); err != nil {
		s.logger.WithError(err).Debug("Websocket result write failed")
	}
}
