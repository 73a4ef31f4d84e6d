package api

import "net/http"

// BodyLimit returns middleware that caps request bodies at maxBytes.
// Reads past the cap fail and the decoder turns that into a 413. The
// per-route WithBodyLimit option covers single endpoints; this covers
// everything behind it.
func BodyLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
