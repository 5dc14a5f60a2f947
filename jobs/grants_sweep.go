package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/observability"
)

// GrantSweeper removes expired permission grants from storage.
type GrantSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// NewGrantSweepTask constructs the cron task. Expired grants never apply
// at evaluation time, so the sweep is purely storage hygiene.
func NewGrantSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeGrantSweep, nil)
}

// NewGrantSweepHandler builds the handler for TaskTypeGrantSweep.
func NewGrantSweepHandler(sweeper GrantSweeper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		n, err := sweeper.DeleteExpired(ctx)
		if err != nil {
			observability.RecordJobRun(TaskTypeGrantSweep, "error")
			return err
		}
		if n > 0 {
			logger.Info("expired grants removed", slog.Int64("count", n))
		}
		observability.RecordJobRun(TaskTypeGrantSweep, "ok")
		return nil
	}
}
