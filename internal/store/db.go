package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the query methods shared by *sql.DB and *sql.Tx, so SQL
// helpers can run either standalone or inside RunInTransaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CheckRowsAffected returns notFound when an update or delete matched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
