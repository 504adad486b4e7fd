// Package middleware carries matched configuration through request
// contexts and shapes issues for HTTP responses, for services that accept
// configuration documents over the wire.
package middleware

import (
	"context"

	"github.com/gvx/kyss"
)

// ctxKeyMatched is a typed context key for storing a matched T.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyMatched[T any] struct{}

// ContextWithMatched attaches a matched configuration value to the context.
func ContextWithMatched[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyMatched[T]{}, v)
}

// MatchedFromContext retrieves a matched configuration value from context.
func MatchedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyMatched[T]{}).(T)
	return v, ok
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues kyss.Issues) map[string]any {
	return map[string]any{"issues": issues}
}
