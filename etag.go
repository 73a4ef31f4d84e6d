package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// ETagConfig selects strong or weak validators.
type ETagConfig struct {
	Weak bool
}

// bufferedResponse holds the handler's output so a validator can be
// computed over the complete body before anything reaches the client.
type bufferedResponse struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (b *bufferedResponse) WriteHeader(code int) { b.status = code }

func (b *bufferedResponse) Write(p []byte) (int, error) { return b.body.Write(p) }

// flush replays the buffered status and body to the real writer.
func (b *bufferedResponse) flush() {
	b.ResponseWriter.WriteHeader(b.status)
	//nolint:errcheck,gosec // best-effort write
	b.ResponseWriter.Write(b.body.Bytes())
}

// computeETag hashes the body into a quoted validator, prefixed W/ for
// weak comparisons.
func computeETag(body []byte, weak bool) string {
	sum := sha256.Sum256(body)
	tag := `"` + hex.EncodeToString(sum[:8]) + `"`
	if weak {
		return "W/" + tag
	}
	return tag
}

// ETag returns middleware that answers conditional GET and HEAD
// requests. Successful responses are buffered, hashed, and tagged;
// If-None-Match hits shortcut to 304 and failed If-Match preconditions
// to 412. Other methods and non-2xx responses pass through untagged.
func ETag(cfg ...ETagConfig) Middleware {
	var c ETagConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			rec := &bufferedResponse{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				rec.flush()
				return
			}

			etag := computeETag(rec.body.Bytes(), c.Weak)
			w.Header().Set("ETag", etag)

			if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			if match := r.Header.Get("If-Match"); match != "" && match != "*" && !strings.Contains(match, etag) {
				w.WriteHeader(http.StatusPreconditionFailed)
				return
			}

			rec.flush()
		})
	}
}
