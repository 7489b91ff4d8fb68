package sqlite_test

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/platform/sqlite"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/phrazzld/scry-vocab/internal/store/storetest"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "vocab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, slog.Default()))
	return db
}

func TestUserStore(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.UserStore {
		return sqlite.NewUserStore(openMigrated(t), nil)
	})
}

func TestMigrateIsRepeatable(t *testing.T) {
	t.Parallel()

	db := openMigrated(t)
	require.NoError(t, sqlite.Migrate(context.Background(), db, slog.Default()))

	provider, err := sqlite.NewProvider(db)
	require.NoError(t, err)
	version, err := provider.GetDBVersion(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}

func TestMapErrorDuplicate(t *testing.T) {
	t.Parallel()

	db := openMigrated(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `INSERT INTO users (id) VALUES ('dup')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (id) VALUES ('dup')`)
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrDuplicate)

	assert.NoError(t, sqlite.MapError(nil))
	assert.ErrorIs(t, sqlite.MapError(sql.ErrNoRows), store.ErrNotFound)
}
