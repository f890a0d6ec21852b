package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rescueops/foodledger/internal/ledger"
)

// Start runs the supervisor expiry sweep on the given cron spec. The first
// sweep is the caller's responsibility; this only schedules the recurring ones.
// Stop the returned cron to shut the schedule down.
func Start(spec string, svc *ledger.Service, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		created, err := svc.RunExpiryCheck(context.Background(), time.Now().UTC())
		if err != nil {
			logger.Error("scheduled expiry check failed", "error", err)
			return
		}
		logger.Info("scheduled expiry check done", "new_alerts", len(created))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	c.Start()
	logger.Info("expiry check scheduled", "cron", spec)
	return c, nil
}
