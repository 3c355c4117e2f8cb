// Package session holds the credential provider the booking flow depends
// on. The browser keeps the token; each request carries it as a bearer
// header, and the flow never reads it from ambient state.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider supplies the bearer credential for upstream calls.
type TokenProvider interface {
	Token() string
}

// StaticToken is a TokenProvider over a fixed string. Empty means no
// credential is present.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// FromRequest extracts the bearer token from an incoming request, or an
// empty token when the Authorization header is absent or malformed.
func FromRequest(r *http.Request) StaticToken {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return StaticToken(strings.TrimSpace(parts[1]))
}

// Expired reports whether tok carries an exp claim in the past. The claim
// is read without signature verification: this service holds no signing
// key, and the upstream re-validates every token anyway. Tokens that do
// not parse as JWTs are left for the upstream to judge.
func Expired(tok string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
