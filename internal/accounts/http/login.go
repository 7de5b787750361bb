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

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles credential login.
//
//	@Summary		Log in with email and password
//	@Description	Checks the credentials against the stored bcrypt hash and issues an access/refresh token pair. Unknown emails, wrong passwords and deactivated accounts all produce the same 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest				true	"Credentials"
//	@Success		200		{object}	accountsdk.TokenResponse			"access_token, refresh_token, token_type"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body or missing fields"
//	@Failure		401		{object}	accountsdk.ErrorResponse			"Incorrect email or password"
//	@Failure		500		{object}	accountsdk.ErrorResponse			"Failed to issue tokens"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Parse request body and validate
	var req accountsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ValidationErrorResponse{
			Code:    "validation_error",
			Message: "validation failed for some fields",
			Details: errs,
		})
		return
	}

	// 2. Check the credentials
	user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpx.WriteJSON(w, http.StatusUnauthorized, accountsdk.ErrorResponse{
				Error:            "invalid_credentials",
				ErrorDescription: "Incorrect email or password",
			})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "An internal error occurred",
			})
		}
		return
	}

	// 3. Mint the token pair
	pair, err := h.AuthService.IssueTokens(user)
	if err != nil {
		log.Error("failed to issue tokens", "user_id", user.ID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to issue tokens",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}
