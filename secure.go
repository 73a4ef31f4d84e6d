package api

import (
	"net/http"
	"strconv"
)

// SecureConfig selects which protective response headers to send.
type SecureConfig struct {
	ContentTypeNosniff bool   // X-Content-Type-Options: nosniff
	FrameDeny          bool   // X-Frame-Options: DENY
	HSTSMaxAge         int    // Strict-Transport-Security max-age; 0 disables
	XSSProtection      string // X-XSS-Protection value
	ReferrerPolicy     string // Referrer-Policy value
}

// defaultSecureConfig is the header set used when Secure is called
// bare. A caller-supplied config replaces it wholesale, since false
// and empty here are deliberate opt-outs.
func defaultSecureConfig() SecureConfig {
	return SecureConfig{
		ContentTypeNosniff: true,
		FrameDeny:          true,
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
}

// Secure returns middleware that stamps security headers on every
// response. Called without a config it enables nosniff, frame denial,
// legacy XSS protection, and a strict-origin referrer policy; HSTS
// stays off until a max age is set.
func Secure(cfg ...SecureConfig) Middleware {
	c := defaultSecureConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}

	// The header set never changes after construction, so build it once.
	headers := make(map[string]string, 5)
	if c.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if c.FrameDeny {
		headers["X-Frame-Options"] = "DENY"
	}
	if c.HSTSMaxAge > 0 {
		headers["Strict-Transport-Security"] = "max-age=" + strconv.Itoa(c.HSTSMaxAge)
	}
	if c.XSSProtection != "" {
		headers["X-XSS-Protection"] = c.XSSProtection
	}
	if c.ReferrerPolicy != "" {
		headers["Referrer-Policy"] = c.ReferrerPolicy
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
