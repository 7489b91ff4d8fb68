// Package domain contains the core vocabulary entities: cards and their
// spaced-repetition state, the bounded per-user card set with its filter and
// sampling queries, position-list parsing for label and delete commands, and
// user progress with badge evaluation.
//
// Nothing in this package performs I/O. Time and randomness are passed in by
// the caller so every operation is deterministic under test.
package domain
