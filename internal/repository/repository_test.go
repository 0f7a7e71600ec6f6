package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres returns a pool on a throwaway database with every migration
// applied. The container and pool are released when t finishes.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := t.Context()

	migrations, err := filepath.Glob(filepath.Join("..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("cart"),
		postgres.WithInitScripts(migrations...),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))

	return pool
}
