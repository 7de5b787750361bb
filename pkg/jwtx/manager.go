// Package jwtx mints and verifies the HMAC-SHA256 signed tokens that guard
// the HTTP API. Tokens are stateless: everything needed to validate one is
// the shared secret, so there is no server-side session store to consult.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/barkeep/pkg/idx"
)

// ErrNoSecret is returned by New when no signing secret was configured.
var ErrNoSecret = errors.New("jwtx: signing secret must not be empty")

// Config carries the signing parameters for a Manager. Zero TTLs fall back
// to the package defaults.
type Config struct {
	// Secret is the HMAC-SHA256 signing key shared by mint and verify.
	// Required.
	Secret []byte

	// AccessTTL is the access token lifetime. Zero means
	// DefaultAccessTokenTTL.
	AccessTTL time.Duration

	// RefreshTTL is the refresh token lifetime. Zero means
	// DefaultRefreshTokenTTL.
	RefreshTTL time.Duration
}

// Manager creates and verifies signed tokens. The zero value is unusable;
// construct with New. Safe for concurrent use.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New builds a Manager from cfg, rejecting an empty secret outright rather
// than signing tokens anyone could forge.
func New(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTokenTTL
	}

	return &Manager{
		secret:     cfg.Secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// CreateAccessToken signs an access token for subject. Claims in extra are
// carried verbatim, except that the reserved claims (sub, exp, iat, jti,
// type) are always set by the manager and win over caller-supplied values.
// The caller's map is never modified.
//
// A zero ttl uses the configured default. A negative ttl is honoured and
// yields an already-expired token, which is occasionally what you want.
func (m *Manager) CreateAccessToken(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.accessTTL
	}
	return m.sign(subject, extra, ttl, TokenAccess)
}

// CreateRefreshToken signs a refresh token for subject. The refresh
// lifetime is fixed at configuration time and cannot be overridden per
// call.
func (m *Manager) CreateRefreshToken(subject string, extra map[string]any) (string, error) {
	return m.sign(subject, extra, m.refreshTTL, TokenRefresh)
}

// Pair is the access/refresh token pair issued at sign-in.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// NewPair issues a fresh token pair for subject. Extra claims ride on the
// access token only; the refresh token carries nothing beyond the subject.
func (m *Manager) NewPair(subject string, extra map[string]any) (Pair, error) {
	access, err := m.CreateAccessToken(subject, extra, 0)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := m.CreateRefreshToken(subject, nil)
	if err != nil {
		return Pair{}, err
	}

	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) sign(subject string, extra map[string]any, ttl time.Duration, typ TokenType) (string, error) {
	now := time.Now().UTC()

	claims := make(jwt.MapClaims, len(extra)+5)
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))
	claims["iat"] = jwt.NewNumericDate(now)
	claims["jti"] = idx.New().String()
	claims["type"] = string(typ)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign %s token: %w", typ, err)
	}

	return signed, nil
}
