package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the standard issue/refresh flow.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 30 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenType discriminates access tokens from refresh tokens so one can
// never stand in for the other. It rides in the "type" claim.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the decoded, typed view of a verified token. The claims the
// manager reserves get their own fields; anything else the token carried
// lands in Extra.
type Claims struct {
	// Subject is the user ID the token was issued for ("sub").
	Subject string

	// TokenType is the token class, access or refresh ("type").
	TokenType TokenType

	// ID is the unique per-token identifier ("jti").
	ID string

	IssuedAt  time.Time
	ExpiresAt time.Time

	// Extra holds the non-reserved claims the token was created with.
	// Nil when the token carried none.
	Extra map[string]any
}

// claimsFromMap lifts raw decoded claims into the typed view. Values of the
// wrong JSON type are left at their zero value rather than erroring; the
// verifier decides what is mandatory.
func claimsFromMap(raw jwt.MapClaims) Claims {
	var c Claims

	if sub, err := raw.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := raw.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if jti, ok := raw["jti"].(string); ok {
		c.ID = jti
	}
	if typ, ok := raw["type"].(string); ok {
		c.TokenType = TokenType(typ)
	}

	for k, v := range raw {
		switch k {
		case "sub", "exp", "iat", "jti", "type":
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[k] = v
	}

	return c
}
