// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog and zap.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "entry created", "id", id, "order", order)
type Logger interface {
	// Debug logs verbose diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Nop discards everything. Handy as a default in tests.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }

type fieldsKey struct{}

// WithFields returns a context carrying args as key–value pairs. Loggers
// append them to every entry logged with that context.
func WithFields(ctx context.Context, args ...any) context.Context {
	prev := Fields(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// Fields returns the pairs stored by WithFields, or nil.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	return f
}

func withContext(ctx context.Context, args []any) []any {
	f := Fields(ctx)
	if len(f) == 0 {
		return args
	}
	out := make([]any, 0, len(f)+len(args))
	return append(append(out, f...), args...)
}
