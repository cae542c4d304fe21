package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
)

// HousekeepingService periodically cleans up database records that no
// longer serve a purpose: expired registry tokens and, when a retention is
// configured, revoked sessions older than it.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// SessionRetention is how long revoked sessions are kept. Zero keeps
	// them forever.
	SessionRetention time.Duration

	Now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// HousekeepingReport counts what one cleanup pass removed.
type HousekeepingReport struct {
	TokensDeleted  int64
	SessionsPurged int64
	FailedCleanups int
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Store:            store,
		Logger:           logger,
		Interval:         interval,
		SessionRetention: retention,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "session_retention", s.SessionRetention)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one cleanup pass. Each deletion is independent, a
// failure in one does not stop the others.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var report HousekeepingReport

	n, err := s.Store.Tokens().DeleteExpiredTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired tokens", "error", err)
		report.FailedCleanups++
	} else {
		report.TokensDeleted = n
	}

	if s.SessionRetention > 0 {
		n, err := s.Store.Sessions().DeleteRevokedSessionsBefore(ctx, now.Add(-s.SessionRetention))
		if err != nil {
			s.Logger.Error("failed to purge revoked sessions", "error", err)
			report.FailedCleanups++
		} else {
			report.SessionsPurged = n
		}
	}

	s.Logger.Info("housekeeping cleanup completed",
		"tokens_deleted", report.TokensDeleted,
		"sessions_purged", report.SessionsPurged,
		"failed_cleanups", report.FailedCleanups,
	)
	return report
}
