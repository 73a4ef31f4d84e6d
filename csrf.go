package api

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

// CSRFConfig adjusts the double-submit cookie protection. Zero fields
// keep their defaults.
type CSRFConfig struct {
	TokenLength int    // random bytes per token, default 32
	CookieName  string // default "_csrf"
	HeaderName  string // default "X-CSRF-Token"
	Secure      bool
	SameSite    http.SameSite // default Lax
}

// csrfToken is the context payload type; stored via SetValue so the
// key cannot collide with anything else.
type csrfToken string

// withDefaults fills unset fields in. Secure stays as given; a false
// zero value is a meaningful choice.
func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.TokenLength <= 0 {
		c.TokenLength = 32
	}
	if c.CookieName == "" {
		c.CookieName = "_csrf"
	}
	if c.HeaderName == "" {
		c.HeaderName = "X-CSRF-Token"
	}
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

// CSRF returns middleware implementing double-submit cookie checks.
// Every response carries the token cookie; mutating methods must echo
// it back in the configured header or they are rejected with 403.
// GET, HEAD, and OPTIONS pass through unchecked.
func CSRF(cfg ...CSRFConfig) Middleware {
	var c CSRFConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}
	c = c.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(c.CookieName); err == nil {
				token = cookie.Value
			}

			// First visit: mint a token and hand it to the client.
			if token == "" {
				token = newCSRFToken(c.TokenLength)
				http.SetCookie(w, &http.Cookie{
					Name:     c.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   c.Secure,
					SameSite: c.SameSite,
				})
			}

			r = SetValue(r, csrfToken(token))

			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			echoed := r.Header.Get(c.HeaderName)
			if echoed == "" || subtle.ConstantTimeCompare([]byte(echoed), []byte(token)) != 1 {
				writeErrorResponse(w, Error(http.StatusForbidden, "CSRF token mismatch"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken reads the token the CSRF middleware stored for this
// request, or "" when the middleware is not installed.
func GetCSRFToken(r *http.Request) string {
	v, _ := GetValue[csrfToken](r.Context())
	return string(v)
}

func newCSRFToken(length int) string {
	b := make([]byte, length)
	//nolint:errcheck,gosec // crypto/rand.Read always returns nil error
	rand.Read(b)
	return hex.EncodeToString(b)
}
