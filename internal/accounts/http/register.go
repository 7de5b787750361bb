package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/service"
	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
	"github.com/aussiebroadwan/barkeep/pkg/httpx"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles new account registration.
//
//	@Summary		Register a new user account
//	@Description	Creates a user account with a unique username and email. The email is matched case-insensitively; the password is stored as a bcrypt hash and never returned.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest			true	"Account details"
//	@Success		201		{object}	accountsdk.UserResponse				"The created account"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		500		{object}	accountsdk.ErrorResponse			"Failed to create account"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Parse request body and validate
	var req accountsdk.RegisterRequest
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

	// 2. Create the account
	user, err := h.AuthService.Register(ctx, domain.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: optional(req.FirstName),
		LastName:  optional(req.LastName),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Email already registered",
			})
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Username already taken",
			})
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create account",
			})
		}
		return
	}

	// 3. Respond with the public profile
	httpx.WriteJSON(w, http.StatusCreated, userResponse(user))
}

// optional maps the empty string to nil so absent JSON fields stay NULL in
// the store rather than becoming empty strings.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
