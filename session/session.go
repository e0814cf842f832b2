// Package session holds the client side of an authenticated Nismart session:
// the access/refresh token pair and the cached user profile. Stores are
// durable and process-independent where the backing medium allows it (file,
// Redis), so a session survives restarts the way a browser session survives
// page reloads.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/Paulndambo/nismart-go/api"
)

// Store is the single shared home of the current session. The API gateway
// holds a Store handle, never a private copy of the tokens: it reads before
// every request and writes only on login, refresh, and logout.
//
// Getters report absence rather than failing: a corrupt or unreadable stored
// value is indistinguishable from "not logged in". Implementations used from
// parallel goroutines must serialize writes so a refreshed token is never
// clobbered by a stale one.
type Store interface {
	// AccessToken returns the current access token, if any.
	AccessToken() (string, bool)

	// RefreshToken returns the current refresh token, if any.
	RefreshToken() (string, bool)

	// SetTokens overwrites both tokens. Callers never observe a state where
	// only one of the pair has been written.
	SetTokens(access, refresh string) error

	// Profile returns the cached user profile, if any. A stored profile that
	// fails to deserialize is reported as absent, never as an error.
	Profile() (*api.User, bool)

	// SetProfile caches the user profile. The profile is overwritten
	// wholesale, never patched.
	SetProfile(u *api.User) error

	// Clear removes both tokens and the cached profile. Idempotent.
	Clear() error
}

// Claims is the subset of access-token claims the client inspects. The token
// is opaque as far as authorization goes; parsing it client-side is only for
// display and staleness checks, so the signature is deliberately not
// verified here.
type Claims struct {
	UserID    int
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseClaims decodes an access token without verifying its signature.
func ParseClaims(accessToken string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "session.ParseClaims")
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("session.ParseClaims unexpected claims type")
	}

	claims := &Claims{}
	if v, ok := mapClaims["user_id"].(float64); ok {
		claims.UserID = int(v)
	}
	if v, ok := mapClaims["token_type"].(string); ok {
		claims.TokenType = v
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is in the past. Tokens
// without an exp claim are treated as unexpired.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
