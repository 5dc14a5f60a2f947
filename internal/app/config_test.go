package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigCronDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("CSRF_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "0 3 * * *", cfg.GrantSweepCron)
	require.Equal(t, "30 3 * * *", cfg.IdempotencyCleanupCron)
}

func TestLoadConfigIdempotencyCronOverride(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("CSRF_SECRET", "test-secret")
	t.Setenv("IDEMPOTENCY_CLEANUP_CRON", "15 4 * * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "15 4 * * *", cfg.IdempotencyCleanupCron)
	require.Equal(t, "0 3 * * *", cfg.GrantSweepCron)
}
