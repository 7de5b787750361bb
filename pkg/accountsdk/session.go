package accountsdk

import (
	"context"
	"fmt"
	"sync"
)

// Session represents an authenticated session with automatic token refresh.
// All Session methods retry once with a refreshed token pair when the server
// rejects the access token.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// newSession creates a new authenticated session from a token response.
func newSession(client *Client, tokens *TokenResponse) *Session {
	return &Session{
		client:       client,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
	}
}

// AccessToken returns the access token the session currently holds.
// For most use cases, prefer the Session methods which handle refresh automatically.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the refresh token the session currently holds.
// Persist this to resume the session in a later run via NewSessionFromTokens.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// refreshRejected swaps the token pair after the server rejected the given
// access token. Returns the replacement access token.
func (s *Session) refreshRejected(ctx context.Context, rejected string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited on the lock.
	if s.accessToken != rejected {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token rejected and no refresh token available")
	}

	tokens, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh session: %w", err)
	}

	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken

	return s.accessToken, nil
}
