package accountsdk

import (
	"time"
)

// ============================================================================
// Error Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse represents a standard error response body.
// This is used internally for parsing HTTP error responses.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_request", "invalid_token")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse represents a validation error response.
// This is returned when request validation fails, with one entry per
// offending field.
type ValidationErrorResponse struct {
	// Code is the error code (always "validation_error")
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Auth Types
// ============================================================================

// TokenResponse represents the token pair issued by the login and refresh
// endpoints. There is no expires_in field; the expiry lives inside the JWTs
// and the Session discovers it reactively when a request comes back 401.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT refresh token used to obtain new token pairs
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`
}

// RegisterRequest contains the data needed to create a new user account.
type RegisterRequest struct {
	// Username is the unique handle for the account (3-50 chars, alphanumeric with _ or -)
	Username string `json:"username"`

	// Email is the unique email address, matched case-insensitively on login
	Email string `json:"email"`

	// Password is the plaintext password (min 8 chars, max 72 bytes)
	Password string `json:"password"`

	// FirstName is an optional given name (max 50 chars)
	FirstName string `json:"first_name,omitempty"`

	// LastName is an optional family name (max 50 chars)
	LastName string `json:"last_name,omitempty"`
}

// LoginRequest contains the credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token to the refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// User Types
// ============================================================================

// UserResponse is the public representation of a user account.
// The password hash never leaves the server.
type UserResponse struct {
	// ID is the ULID assigned at registration
	ID string `json:"id"`

	// Username is the unique handle for the account
	Username string `json:"username"`

	// Email is the account email address, stored lower-case
	Email string `json:"email"`

	// FirstName is the optional given name
	FirstName *string `json:"first_name,omitempty"`

	// LastName is the optional family name
	LastName *string `json:"last_name,omitempty"`

	// IsActive reports whether the account can authenticate
	IsActive bool `json:"is_active"`

	// CreatedAt is when the account was registered
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the account was last modified
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUserRequest contains a partial update for a user profile.
// Nil fields are left untouched; a pointer to the empty string clears
// an optional field.
type UpdateUserRequest struct {
	// Email replaces the account email when set (must still be unique)
	Email *string `json:"email,omitempty"`

	// Password replaces the account password when set (min 8 chars, max 72 bytes)
	Password *string `json:"password,omitempty"`

	// FirstName replaces the given name when set
	FirstName *string `json:"first_name,omitempty"`

	// LastName replaces the family name when set
	LastName *string `json:"last_name,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the health check response from /livez and /readyz.
type HealthResponse struct {
	// Status is the health status ("ok" or "degraded")
	Status string `json:"status"`

	// Uptime is how long the service has been running
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version
	Version string `json:"version,omitempty"`

	// Checks contains individual dependency check results (readiness only)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks contains individual health check results.
type HealthChecks struct {
	// Database check result ("ok" or an error description)
	Database string `json:"database"`
}
