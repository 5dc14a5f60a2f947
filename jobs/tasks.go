package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/observability"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeAnnouncementFanOut delivers an announcement to every active
	// user's inbox.
	TaskTypeAnnouncementFanOut = "notifications:announce"
	// TaskTypeGrantSweep purges expired permission grants.
	TaskTypeGrantSweep = "authz:grant_sweep"
	// TaskTypeIdempotencyCleanup prunes processed idempotency keys.
	TaskTypeIdempotencyCleanup = "shared:idempotency_cleanup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSendEmailHandler builds the handler for TaskTypeSendEmail.
func NewSendEmailHandler(mailer Mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := mailer.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
			observability.RecordJobRun(TaskTypeSendEmail, "error")
			return err
		}
		logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
		observability.RecordJobRun(TaskTypeSendEmail, "ok")
		return nil
	}
}

// AnnouncementPayload carries the announcement content for fan-out.
type AnnouncementPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewAnnouncementTask constructs an Asynq task.
func NewAnnouncementTask(payload AnnouncementPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAnnouncementFanOut, data), nil
}

// AnnouncementFanOut writes an announcement into user inboxes.
type AnnouncementFanOut interface {
	FanOut(ctx context.Context, title, body string) (int64, error)
}

// NewAnnouncementHandler builds the handler for TaskTypeAnnouncementFanOut.
func NewAnnouncementHandler(svc AnnouncementFanOut, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AnnouncementPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		n, err := svc.FanOut(ctx, payload.Title, payload.Body)
		if err != nil {
			observability.RecordJobRun(TaskTypeAnnouncementFanOut, "error")
			return err
		}
		logger.Info("announcement delivered", slog.String("title", payload.Title), slog.Int64("recipients", n))
		observability.RecordJobRun(TaskTypeAnnouncementFanOut, "ok")
		return nil
	}
}
