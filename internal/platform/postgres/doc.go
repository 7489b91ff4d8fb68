// Package postgres provides the PostgreSQL backend for store.UserStore: the
// pgx driver connection, embedded goose migrations, and translation of
// PostgreSQL error codes into store errors.
package postgres
