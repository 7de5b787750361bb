package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a token string and gives you back the typed claims if
// it's legit. Manager implements it; the interface exists so middleware and
// services can be handed a stub in tests.
type Verifier interface {
	Verify(token string, want TokenType) (Claims, error)
}

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrTokenType  = errors.New("jwtx: unexpected token type")
	ErrNoSubject  = errors.New("jwtx: token has no subject")
)

// Verify parses and validates token, requiring it to be of type want.
// Failures map onto the package sentinels; callers that log should record
// which one fired, callers that answer HTTP requests should not echo the
// distinction to the client.
//
// An expired token reports ErrExpired before any type or subject check, so
// a stale token of the wrong type still reads as expired.
func (m *Manager) Verify(token string, want TokenType) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	default:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	raw, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	claims := claimsFromMap(raw)
	if claims.TokenType != want {
		return Claims{}, ErrTokenType
	}
	if claims.Subject == "" {
		return Claims{}, ErrNoSubject
	}

	return claims, nil
}

// keyFunc hands the parser the HMAC secret, refusing any token whose header
// names a different algorithm family.
func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return m.secret, nil
}
