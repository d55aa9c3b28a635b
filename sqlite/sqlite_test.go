package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/domcrawl/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		// Verify tables exist by querying them
		ctx := context.Background()

		// Check runs table exists
		var runCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&runCount)
		require.NoError(t, err)

		// Check run_domains table exists
		var domainCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_domains").Scan(&domainCount)
		require.NoError(t, err)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("reopening keeps existing data", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		ctx := context.Background()

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, `INSERT INTO runs (id, start_url, created_at) VALUES ('r1', 'https://a.test/', '2026-01-01T00:00:00Z')`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		var count int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}
