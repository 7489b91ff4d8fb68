// Package api exposes the vocabulary commands over HTTP: card management,
// quiz sessions and user stats. Handlers resolve the caller from the
// context set by the auth middleware and never format internal errors into
// responses.
package api
