package workbook

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/universe/internal/app/migrations"
	"github.com/yigit/universe/internal/pkg/logger"
)

// TestPostgresWorkbook runs against a scratch database named by UNIVERSE_TEST_DATABASE_URL.
func TestPostgresWorkbook(t *testing.T) {
	dsn := os.Getenv("UNIVERSE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("UNIVERSE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, migrations.NewMigrator(pool, logger.Nop()).MigrateUp(ctx))
	_, err = pool.Exec(ctx, `DELETE FROM worksheets WHERE name = 'People'`)
	require.NoError(t, err)

	p := NewPostgres(pool)
	exerciseWorkbook(t, p)

	ok, err := p.HasSheet(ctx, "People")
	require.NoError(t, err)
	assert.True(t, ok)
}
