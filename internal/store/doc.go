// Package store defines the persistence boundary of the application: the
// UserStore interface every backend implements, the errors they return, and
// helpers shared by the SQL backends.
package store
