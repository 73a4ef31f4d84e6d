package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressConfig tunes response compression. Zero fields keep their
// defaults.
type CompressConfig struct {
	Level   int      // gzip level, default 5
	MinSize int      // smallest first write worth compressing, default 1024
	Types   []string // content-type substrings to compress, default json and text/
}

// withDefaults fills unset fields in and clamps the gzip level to the
// valid range.
func (c CompressConfig) withDefaults() CompressConfig {
	if c.Level <= 0 || c.Level > gzip.BestCompression {
		c.Level = 5
	}
	if c.MinSize <= 0 {
		c.MinSize = 1024
	}
	if len(c.Types) == 0 {
		c.Types = []string{"application/json", "text/"}
	}
	return c
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// Compress returns middleware that gzips responses for clients that
// accept it. Compression turns on at the first write, and only when the
// content type matches and the chunk clears the size floor, so small
// bodies and event streams go out untouched.
func Compress(cfg ...CompressConfig) Middleware {
	var c CompressConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}
	c = c.withDefaults()

	pool := &sync.Pool{
		New: func() any {
			gz, _ := gzip.NewWriterLevel(io.Discard, c.Level) //nolint:errcheck // level is pre-validated
			return gz
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			gz := pool.Get().(*gzip.Writer) //nolint:errcheck,forcetypeassert // pool.New always returns *gzip.Writer
			gz.Reset(w)

			gw := &gzipWriter{
				ResponseWriter: w,
				gz:             gz,
				minSize:        c.MinSize,
				types:          c.Types,
			}

			w.Header().Set("Vary", "Accept-Encoding")
			next.ServeHTTP(gw, r)

			// Closing an unused writer would emit an empty gzip frame
			// onto the wire, so only close when compression ran.
			if gw.active {
				//nolint:errcheck,gosec // best-effort flush
				gz.Close()
			}
			pool.Put(gz)
		})
	}
}

// gzipWriter defers the compress-or-not decision to the first write,
// when the content type and body size are finally known.
type gzipWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	minSize int
	types   []string
	active  bool
	decided bool
}

func (g *gzipWriter) Write(b []byte) (int, error) {
	if !g.decided {
		g.decided = true
		if g.eligible() && len(b) >= g.minSize {
			g.active = true
			g.Header().Set("Content-Encoding", "gzip")
			g.Header().Del("Content-Length")
		}
	}
	if g.active {
		return g.gz.Write(b)
	}
	return g.ResponseWriter.Write(b)
}

// eligible checks the response headers against the configured types,
// refusing event streams and anything already encoded.
func (g *gzipWriter) eligible() bool {
	ct := g.Header().Get("Content-Type")
	if strings.Contains(ct, "event-stream") {
		return false
	}
	if g.Header().Get("Content-Encoding") != "" {
		return false
	}
	for _, t := range g.types {
		if strings.Contains(ct, t) {
			return true
		}
	}
	return false
}

func (g *gzipWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}
