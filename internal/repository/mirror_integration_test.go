//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
)

func TestPostgresMirrorRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	pg, err := persistence.OpenPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	require.NoError(t, pg.Migrate(ctx, zap.NewNop()))

	applied, err := persistence.RunMigrations(ctx, pg.Pool(), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, applied, "second run applies nothing")

	exerciseMirror(t, NewPostgresMirrorRepository(pg.Pool()))

	activity := NewPostgresActivityRepository(pg.Pool())
	entry := domain.ActivityEntry{
		ID:        "it-" + time.Now().Format("150405.000000"),
		Action:    domain.ActionColumnEdit,
		Target:    "qa_review",
		Actor:     "system",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, activity.Append(ctx, entry))
	entries, err := activity.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestRedisMirrorRepository(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := persistence.OpenRedis(context.Background(), config.RedisConfig{Addr: addr}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(rdb.Close)

	exerciseMirror(t, NewRedisMirrorRepository(rdb.Client))
}
