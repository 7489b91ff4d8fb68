// Package logger configures the process-wide slog JSON logger and carries
// request and quiz scoped loggers through context.Context.
package logger
