package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barkeep/pkg/httpx"
	"github.com/aussiebroadwan/barkeep/pkg/jwtx"
)

type stubVerifier struct {
	claims jwtx.Claims
	err    error

	gotToken string
	gotWant  jwtx.TokenType
}

func (s *stubVerifier) Verify(token string, want jwtx.TokenType) (jwtx.Claims, error) {
	s.gotToken = token
	s.gotWant = want
	if s.err != nil {
		return jwtx.Claims{}, s.err
	}
	return s.claims, nil
}

func callProtected(v jwtx.Verifier, authorization string) (*httptest.ResponseRecorder, *http.Request) {
	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()

	httpx.AuthnMiddleware(v)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthnMiddleware_PassesVerifiedRequest(t *testing.T) {
	v := &stubVerifier{claims: jwtx.Claims{Subject: "user-123", TokenType: jwtx.TokenAccess}}

	rec, seen := callProtected(v, "Bearer sometoken")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)

	require.Equal(t, "sometoken", v.gotToken)
	require.Equal(t, jwtx.TokenAccess, v.gotWant, "middleware should demand an access token")

	id, ok := httpx.UserID(seen.Context())
	require.True(t, ok)
	require.Equal(t, "user-123", id)

	claims, ok := httpx.Claims(seen.Context())
	require.True(t, ok)
	require.Equal(t, "user-123", claims.Subject)
}

func TestAuthnMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	for _, header := range []string{
		"Bearer sometoken",
		"bearer sometoken",
		"BEARER sometoken",
		"BeArEr sometoken",
	} {
		t.Run(header, func(t *testing.T) {
			v := &stubVerifier{claims: jwtx.Claims{Subject: "user-123"}}
			rec, _ := callProtected(v, header)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "sometoken", v.gotToken)
		})
	}
}

func TestAuthnMiddleware_RejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"scheme only", "Bearer"},
		{"blank token", "Bearer    "},
		{"token without scheme", "sometoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubVerifier{}
			rec, seen := callProtected(v, tt.header)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Nil(t, seen, "handler must not run")
			require.Empty(t, v.gotToken, "verifier must not be consulted")
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}

func TestAuthnMiddleware_FailuresLookIdentical(t *testing.T) {
	// Clients must not be able to tell why a token was rejected.
	kinds := map[string]error{
		"expired":       jwtx.ErrExpired,
		"bad signature": jwtx.ErrInvalidSig,
		"wrong type":    jwtx.ErrTokenType,
		"malformed":     jwtx.ErrMalformed,
		"no subject":    jwtx.ErrNoSubject,
	}

	var wantBody map[string]string
	var wantChallenge string

	for name, kind := range kinds {
		t.Run(name, func(t *testing.T) {
			v := &stubVerifier{err: kind}
			rec, seen := callProtected(v, "Bearer sometoken")

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Nil(t, seen)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if wantBody == nil {
				wantBody = body
				wantChallenge = rec.Header().Get("WWW-Authenticate")
				require.Equal(t, `Bearer error="invalid_token"`, wantChallenge)
				return
			}
			require.Equal(t, wantBody, body)
			require.Equal(t, wantChallenge, rec.Header().Get("WWW-Authenticate"))
		})
	}
}
