package api

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls the cross-origin headers. Zero values fall back
// to permissive defaults inside CORS.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int // seconds
}

// withDefaults fills unset list fields with the permissive defaults.
func (c CORSConfig) withDefaults() CORSConfig {
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"*"}
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = []string{"Content-Type", "Authorization"}
	}
	return c
}

// CORS returns middleware that answers cross-origin requests. Preflight
// OPTIONS requests are terminated with 204; everything else passes
// through with the negotiated headers attached.
func CORS(cfg ...CORSConfig) Middleware {
	var c CORSConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}
	c = c.withDefaults()

	// All header values are fixed per configuration.
	headers := map[string]string{
		"Access-Control-Allow-Origin":  strings.Join(c.AllowOrigins, ", "),
		"Access-Control-Allow-Methods": strings.Join(c.AllowMethods, ", "),
		"Access-Control-Allow-Headers": strings.Join(c.AllowHeaders, ", "),
		"Vary":                         "Origin",
	}
	if len(c.ExposeHeaders) > 0 {
		headers["Access-Control-Expose-Headers"] = strings.Join(c.ExposeHeaders, ", ")
	}
	if c.AllowCredentials {
		headers["Access-Control-Allow-Credentials"] = "true"
	}
	if c.MaxAge > 0 {
		headers["Access-Control-Max-Age"] = strconv.Itoa(c.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				h.Set(name, value)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
