package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every missing-record error. Backends return
	// one of the wrapped variants below.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound means no user row exists for the id.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrCardNotFound means the card id is not in the user's set, usually
	// because it was deleted while a quiz still held it.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidEntity wraps a record the backend refused to store, either
	// rejected by a check constraint or by validation before the write.
	ErrInvalidEntity = errors.New("invalid record")

	// ErrTransactionFailed wraps begin, commit and serialization failures.
	// Callers may retry the whole operation.
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsNotFoundError reports whether err is any kind of not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
