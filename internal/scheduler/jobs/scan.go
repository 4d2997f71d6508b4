// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/scoutlab/scout/internal/scanner"
	"github.com/scoutlab/scout/pkg/logger"
)

// ScanJob runs the universe scan on a schedule and keeps the cached result
// fresh for the read endpoints.
type ScanJob struct {
	scans    *scanner.Service
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a scheduled scan job.
func NewScanJob(scans *scanner.Service, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		scans:    scans,
		schedule: schedule,
		logger:   log.WithField("job", "scan"),
	}
}

func (j *ScanJob) Name() string     { return "scan" }
func (j *ScanJob) Schedule() string { return j.schedule }

func (j *ScanJob) Run(ctx context.Context) error {
	result, err := j.scans.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("scheduled scan failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"found":    result.Stats.OpportunitiesFound,
		"filtered": result.Stats.FilteredCount,
		"errors":   result.Stats.ErrorCount,
	}).Info("Scheduled scan complete")

	return nil
}
