package api

import (
	"net/http"

	"github.com/google/uuid"
)

// requestID travels in the request context via SetValue.
type requestID string

// RequestIDConfig overrides the header name or the id source.
type RequestIDConfig struct {
	Header    string        // default "X-Request-ID"
	Generator func() string // default random UUID
}

// withDefaults fills unset fields with the conventional header name
// and a random UUID source.
func (c RequestIDConfig) withDefaults() RequestIDConfig {
	if c.Header == "" {
		c.Header = "X-Request-ID"
	}
	if c.Generator == nil {
		c.Generator = uuid.NewString
	}
	return c
}

// RequestID returns middleware that tags every request with an id,
// honoring one the client already sent. The id rides the request
// context for handlers and the Logger middleware, and echoes back on
// the response header.
func RequestID(cfg ...RequestIDConfig) Middleware {
	var c RequestIDConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}
	c = c.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(c.Header)
			if id == "" {
				id = c.Generator()
			}
			w.Header().Set(c.Header, id)
			next.ServeHTTP(w, SetValue(r, requestID(id)))
		})
	}
}

// GetRequestID reads the id assigned by the RequestID middleware, or
// "" when none is set.
func GetRequestID(r *http.Request) string {
	id, _ := GetValue[requestID](r.Context())
	return string(id)
}
