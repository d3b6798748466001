package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{Path: database.MemoryPath}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *database.DB) int {
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM items"))
	return n
}

func TestWithTransaction_Commit(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db.DB, zap.NewNop())

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, err := Executor(ctx, db.DB).ExecContext(ctx, "INSERT INTO items (id) VALUES ('a')")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db.DB, zap.NewNop())
	boom := errors.New("boom")

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		if _, err := Executor(ctx, db.DB).ExecContext(ctx, "INSERT INTO items (id) VALUES ('a')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count(t, db))
}

func TestWithTransaction_NestedJoinsOuter(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db.DB, zap.NewNop())

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		outer := extractTx(ctx)
		require.NotNil(t, outer)
		return tm.WithTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, extractTx(inner))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestWithTransaction_PanicRollsBack(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db.DB, zap.NewNop())

	assert.Panics(t, func() {
		_ = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			_, _ = Executor(ctx, db.DB).ExecContext(ctx, "INSERT INTO items (id) VALUES ('a')")
			panic("boom")
		})
	})
	assert.Equal(t, 0, count(t, db))
}

func TestTranslateError(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec("INSERT INTO items (id) VALUES ('a')")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO items (id) VALUES ('a')")
	require.Error(t, err)
	assert.ErrorIs(t, TranslateError(err), port.ErrDuplicate)

	plain := errors.New("other")
	assert.Equal(t, plain, TranslateError(plain))
}
