// Package sqlite provides the embedded SQLite backend for store.UserStore,
// built on the pure Go modernc.org/sqlite driver so the binary stays cgo free.
package sqlite
