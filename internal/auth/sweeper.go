package auth

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StartSessionSweeper schedules SweepExpired on the given cron spec. Callers
// stop the returned scheduler on shutdown.
func StartSessionSweeper(schedule string, sessions *SessionManager, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if n := sessions.SweepExpired(); n > 0 {
			logger.Debug("session sweep finished", "expired", n)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	logger.Info("session sweeper started", "schedule", schedule)
	return c, nil
}
