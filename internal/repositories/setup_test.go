package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDb(t *testing.T) *DbContext {
	t.Helper()

	dbCtx, err := NewDbContext(DriverSqlite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

func newSeededDb(t *testing.T) *DbContext {
	t.Helper()

	dbCtx := newTestDb(t)
	require.NoError(t, dbCtx.SeedIfEmpty())
	return dbCtx
}
