// Package service contains the application use cases: card set management,
// user preferences and statistics, and progress bookkeeping. Services receive
// the store, the shared per-user lock and the clock by constructor injection
// and never depend on a concrete store implementation.
//
// Every read-modify-write of a user's card set holds that user's lock from
// platform/lock, the same instance the review path and the sweep use.
package service
