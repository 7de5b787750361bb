package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/barkeep/internal/accounts/service"
	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
	"github.com/aussiebroadwan/barkeep/pkg/httpx"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles token refresh.
//
//	@Summary		Refresh the token pair
//	@Description	Trades a valid refresh token for a new access/refresh token pair. Any rejection (missing, malformed, expired, wrong token type, account gone or deactivated) produces the same uniform 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	accountsdk.TokenResponse	"access_token, refresh_token, token_type"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Refresh token rejected"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"Failed to issue tokens"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Parse request body. A missing or empty token is handled below as
	// just another invalid credential, not a validation error.
	var req accountsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}

	// 2. Verify and rotate
	_, pair, err := h.AuthService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			httpx.WriteBearerError(w)
		default:
			log.Error("refresh failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to issue tokens",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}
