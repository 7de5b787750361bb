package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/barkeep/pkg/jwtx"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

const bearerPrefix = "Bearer "

// AuthnMiddleware rejects any request that does not carry a valid access
// token in the Authorization header. The scheme comparison is
// case-insensitive, as HTTP auth schemes are.
//
// Every rejection looks the same to the client. Whether the token was
// missing, expired, tampered with or of the wrong type is recorded in the
// logs only, so a probing caller learns nothing from the response.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if len(authz) < len(bearerPrefix) || !strings.EqualFold(authz[:len(bearerPrefix)], bearerPrefix) {
				WriteBearerError(w)
				return
			}

			raw := strings.TrimSpace(authz[len(bearerPrefix):])
			if raw == "" {
				WriteBearerError(w)
				return
			}

			claims, err := v.Verify(raw, jwtx.TokenAccess)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				WriteBearerError(w)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// WriteBearerError writes the RFC 6750 error response for bearer auth.
// Deliberately uniform: one challenge, one body, regardless of what went
// wrong. Handlers that reject tokens outside the middleware (the refresh
// endpoint) use it too, so every token failure reads the same on the wire.
func WriteBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": "missing, invalid or expired credentials",
	})
}
