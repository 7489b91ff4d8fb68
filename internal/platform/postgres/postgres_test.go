package postgres_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/phrazzld/scry-vocab/internal/store/storetest"
	"github.com/phrazzld/scry-vocab/internal/testdb"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, store.ErrDuplicate},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "users_card_set_capacity"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "progress"}, store.ErrInvalidEntity},
		{"serialization", &pgconn.PgError{Code: "40001"}, store.ErrTransactionFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tc.err)
			assert.ErrorIs(t, got, tc.want)
			assert.ErrorIs(t, got, tc.err, "the driver error stays in the chain")
		})
	}

	other := errors.New("connection reset")
	assert.Same(t, other, postgres.MapError(other))
	assert.NoError(t, postgres.MapError(nil))
	assert.True(t, postgres.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
}

// TestUserStore runs against a real database when one is configured.
// Each subtest truncates the users table, so the suite runs serially.
func TestUserStore(t *testing.T) {
	db := testdb.Open(t)

	storetest.Run(t, func(t *testing.T) store.UserStore {
		testdb.Reset(t, db)
		return postgres.NewUserStore(db, nil)
	})
}
