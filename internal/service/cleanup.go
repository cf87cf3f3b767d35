package service

import (
	"context"
	"time"
)

// RunSessionCleanup periodically purges sessions idle longer than the
// configured retention window. Intended to run in its own goroutine; it
// returns when ctx is cancelled.
func (s *Service) RunSessionCleanup(ctx context.Context) {
	interval := s.config.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("session cleanup started", "interval", interval, "retention_days", s.config.CleanupDays)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session cleanup stopped")
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			s.memory.CleanupOldSessions(sweepCtx, s.config.CleanupDays)
			cancel()
		}
	}
}
