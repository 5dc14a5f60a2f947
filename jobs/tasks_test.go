package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	_ "github.com/HappyHackingSpace/CommunityHub-sub001/internal/testing/guard"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fanOutRecorder struct {
	titles []string
	err    error
}

func (f *fanOutRecorder) FanOut(ctx context.Context, title, body string) (int64, error) {
	f.titles = append(f.titles, title)
	return 5, f.err
}

func TestAnnouncementHandlerRoundTrip(t *testing.T) {
	rec := &fanOutRecorder{}
	handler := NewAnnouncementHandler(rec, testLogger())

	task, err := NewAnnouncementTask(AnnouncementPayload{Title: "Open day", Body: "All welcome"})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, []string{"Open day"}, rec.titles)
}

func TestAnnouncementHandlerSkipsBadPayload(t *testing.T) {
	rec := &fanOutRecorder{}
	handler := NewAnnouncementHandler(rec, testLogger())

	err := handler(context.Background(), asynq.NewTask(TaskTypeAnnouncementFanOut, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, rec.titles)
}

type sweepRecorder struct {
	calls int
	err   error
}

func (s *sweepRecorder) DeleteExpired(ctx context.Context) (int64, error) {
	s.calls++
	return 2, s.err
}

func TestGrantSweepHandler(t *testing.T) {
	rec := &sweepRecorder{}
	handler := NewGrantSweepHandler(rec, testLogger())

	require.NoError(t, handler(context.Background(), NewGrantSweepTask()))
	require.Equal(t, 1, rec.calls)

	rec.err = errors.New("db gone")
	require.Error(t, handler(context.Background(), NewGrantSweepTask()))
}
