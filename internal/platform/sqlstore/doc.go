// Package sqlstore implements store.UserStore over database/sql. A user is a
// single row holding preferences, progress and the card set as JSON
// documents; every read-modify-write runs in one transaction so a rating's
// card update and counter increments commit together.
//
// The postgres and sqlite packages supply the driver, migrations and a
// Dialect.
package sqlstore
