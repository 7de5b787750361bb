package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/service"
	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
	"github.com/aussiebroadwan/barkeep/pkg/httpx"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList godoc
//
//	@Summary		List user accounts
//	@Description	Returns a page of accounts ordered by creation time. Any authenticated user may browse the directory.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int							false	"Page size (default 100)"
//	@Param			offset	query		int							false	"Rows to skip (default 0)"
//	@Success		200		{array}		accountsdk.UserResponse		"Accounts ordered by creation"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Malformed pagination parameters"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	users, err := h.UserService.ListUsers(ctx, limit, offset)
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "An internal error occurred",
		})
		return
	}

	out := make([]accountsdk.UserResponse, len(users))
	for i, u := range users {
		out[i] = userResponse(u)
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get a user account
//	@Description	Returns the public profile of a single account by ID.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"User ID"
//	@Success		200	{object}	accountsdk.UserResponse		"The account"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"User not found"
//	@Failure		500	{object}	accountsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.UserService.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountsdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "User not found",
			})
		default:
			log.Error("failed to load user", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "An internal error occurred",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandleMe godoc
//
//	@Summary		Get your own profile
//	@Description	Returns the profile of the account behind the access token.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.UserResponse		"Your account"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		httpx.WriteBearerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandleUpdate godoc
//
//	@Summary		Update your profile
//	@Description	Applies a partial update to your own account. Fields left out of the body are untouched; updating somebody else's profile is forbidden.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"User ID (must be your own)"
//	@Param			request	body		accountsdk.UpdateUserRequest		true	"Fields to change"
//	@Success		200		{object}	accountsdk.UserResponse				"The updated account"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body, validation failed or email already in use"
//	@Failure		401		{object}	accountsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		403		{object}	accountsdk.ErrorResponse			"Not the profile owner"
//	@Failure		404		{object}	accountsdk.ErrorResponse			"User not found"
//	@Failure		500		{object}	accountsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := CurrentUser(ctx)
	if !ok {
		httpx.WriteBearerError(w)
		return
	}

	// 1. Parse request body and validate
	var req accountsdk.UpdateUserRequest
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

	// 2. Apply the patch
	user, err := h.UserService.UpdateUser(ctx, actor.ID, r.PathValue("id"), domain.UserPatch{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			httpx.WriteJSON(w, http.StatusForbidden, accountsdk.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "You can only update your own profile",
			})
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountsdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "User not found",
			})
		case errors.Is(err, service.ErrEmailInUse):
			httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Email already in use",
			})
		default:
			log.Error("failed to update user", "user_id", actor.ID, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "An internal error occurred",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandleDelete godoc
//
//	@Summary		Delete your account
//	@Description	Permanently deletes your own account. Tokens already issued for it stop working on their next use.
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User ID (must be your own)"
//	@Success		204	"Account deleted"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Not the account owner"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"User not found"
//	@Failure		500	{object}	accountsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := CurrentUser(ctx)
	if !ok {
		httpx.WriteBearerError(w)
		return
	}

	if err := h.UserService.DeleteUser(ctx, actor.ID, r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			httpx.WriteJSON(w, http.StatusForbidden, accountsdk.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "You can only delete your own profile",
			})
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountsdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "User not found",
			})
		default:
			log.Error("failed to delete user", "user_id", actor.ID, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "An internal error occurred",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// userResponse maps a domain user onto the wire shape. The password hash
// stays behind.
func userResponse(u domain.User) accountsdk.UserResponse {
	return accountsdk.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// queryInt parses an optional integer query parameter, writing a 400 and
// returning ok=false when the value is present but not an integer. Absent
// parameters come back as zero; the service layer applies its defaults.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: name + " must be an integer",
		})
		return 0, false
	}
	return n, true
}
