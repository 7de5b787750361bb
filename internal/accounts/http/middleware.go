package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/service"
	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
	"github.com/aussiebroadwan/barkeep/pkg/httpx"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

type ctxKey string

const ctxKeyUser ctxKey = "accounts.user"

// RequireUser resolves the verified token subject to a live account and puts
// it on the request context. AuthnMiddleware has already vouched for the
// token itself; this closes the gap between "the token was valid when minted"
// and "the account still exists and is active". Accounts deleted or
// deactivated after issuance get the same uniform 401 as a bad token.
func RequireUser(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			subject, ok := httpx.UserID(ctx)
			if !ok || subject == "" {
				httpx.WriteBearerError(w)
				return
			}

			user, err := auth.Authenticate(ctx, subject)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					log.Warn("token subject rejected", "user_id", subject, "err", err)
					httpx.WriteBearerError(w)
					return
				}
				log.Error("failed to resolve token subject", "user_id", subject, "err", err)
				httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
					Error:            "server_error",
					ErrorDescription: "An internal error occurred",
				})
				return
			}

			ctx = context.WithValue(ctx, ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the account RequireUser loaded for this request.
func CurrentUser(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(domain.User)
	return u, ok
}
