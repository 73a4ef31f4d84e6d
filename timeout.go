package api

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns middleware that puts a deadline on the request
// context. Handlers and downstream calls that honor ctx.Done() stop at
// the deadline; the middleware itself does not write a response.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
