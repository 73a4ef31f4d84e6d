package api

import (
	"context"
	"net/http"
)

// contextKey is parameterized so each stored type gets its own key and
// collisions between packages are impossible.
type contextKey[T any] struct{}

// SetValue returns a request whose context carries val, keyed by its
// type. Middleware calls this before handing off to the next handler.
func SetValue[T any](r *http.Request, val T) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKey[T]{}, val))
}

// GetValue reads the value SetValue stored for type T, reporting
// whether one was present.
func GetValue[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}
