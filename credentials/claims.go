package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shoenig/go-conceal"
)

// Claims are the few registered claims worth knowing about a JWT-shaped
// access credential on the client side.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the claims carried an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect decodes the registered claims of a JWT-shaped token without
// verifying its signature. Opaque tokens (or absent ones) return false.
//
// Only the remote authority can decide whether a credential is valid; the
// result is informational and never changes the session state.
func Inspect(token *conceal.Text) (Claims, bool) {
	raw := reveal(token)
	if raw == "" {
		return Claims{}, false
	}

	registered := new(jwt.RegisteredClaims)
	if _, _, err := jwt.NewParser().ParseUnverified(raw, registered); err != nil {
		return Claims{}, false
	}

	claims := Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, true
}
