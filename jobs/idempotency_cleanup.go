package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/observability"
)

// IdempotencyRetention is how long processed idempotency keys are kept so
// late client retries still hit the duplicate check.
const IdempotencyRetention = 48 * time.Hour

// IdempotencyCleaner prunes processed idempotency keys from storage.
type IdempotencyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// NewIdempotencyCleanupTask constructs the cron task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeIdempotencyCleanup, nil)
}

// NewIdempotencyCleanupHandler builds the handler for TaskTypeIdempotencyCleanup.
func NewIdempotencyCleanupHandler(cleaner IdempotencyCleaner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := cleaner.Cleanup(ctx, IdempotencyRetention); err != nil {
			observability.RecordJobRun(TaskTypeIdempotencyCleanup, "error")
			return err
		}
		logger.Info("idempotency keys pruned", slog.Duration("retention", IdempotencyRetention))
		observability.RecordJobRun(TaskTypeIdempotencyCleanup, "ok")
		return nil
	}
}
