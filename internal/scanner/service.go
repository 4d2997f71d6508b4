package scanner

import (
	"context"

	"github.com/scoutlab/scout/pkg/config"
	"github.com/scoutlab/scout/pkg/logger"
	"github.com/scoutlab/scout/pkg/redis"
)

const latestScanKey = "latest_scan"

// Service runs scans with the configured universe and keeps the latest
// result in cache for the read endpoints. Shared by the API, the websocket
// stream and the scheduled monitor job.
type Service struct {
	scanner *Scanner
	cache   *redis.Cache
	config  *config.Config
	logger  *logger.Logger
}

// NewService creates a scan service. Cache may be backed by a disabled
// Redis client; Latest then simply reports no cached scan.
func NewService(scanner *Scanner, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		scanner: scanner,
		cache:   cache,
		config:  cfg,
		logger:  log.WithField("module", "scanner"),
	}
}

// Run scans the configured universe and caches the result. onProgress may
// be nil.
func (s *Service) Run(ctx context.Context, onProgress func(ProgressEvent)) (*ScanResult, error) {
	result, err := s.scanner.Scan(ctx, ScanConfig{
		Universe:   s.config.Scan.Universe,
		MaxResults: s.config.Scan.MaxResults,
		Workers:    s.config.Scan.Workers,
		OnProgress: onProgress,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, latestScanKey, result, s.config.Scan.CacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache scan result")
	}

	return result, nil
}

// Latest returns the cached scan result, if any.
func (s *Service) Latest(ctx context.Context) (*ScanResult, bool, error) {
	var result ScanResult
	found, err := s.cache.Get(ctx, latestScanKey, &result)
	if err != nil || !found {
		return nil, false, err
	}
	return &result, true, nil
}
