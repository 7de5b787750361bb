package accountsdk

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	fieldRequiredReason = "required"
	fieldOnlyAlphanum   = "must only contain a-z, A-Z, 0-9, _ or -"
	fieldBadEmail       = "must be a valid email address"
	passwordTooShort    = "too short (min 8)"
	passwordTooLong     = "too long (max 72 bytes)"
)

// reEmail is deliberately loose: one @, something either side, a dot in the
// domain. The mail server is the real validator.
var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks if the registration request fields are valid.
// Returns a map of field names to error messages, or nil if all fields are valid.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	reUsername := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	r.validateUsername(errs, reUsername)
	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)
	validateName(errs, "first_name", r.FirstName)
	validateName(errs, "last_name", r.LastName)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r RegisterRequest) validateUsername(errs map[string]string, reUsername *regexp.Regexp) {
	switch {
	case r.Username == "":
		errs["username"] = fieldRequiredReason
	case len(r.Username) < 3 || len(r.Username) > 50:
		errs["username"] = "must be 3-50 characters"
	case !reUsername.MatchString(r.Username):
		errs["username"] = fieldOnlyAlphanum
	}
}

// Validate checks if the login request carries both credentials.
// Returns a map of field names to error messages, or nil if all fields are valid.
func (l LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(l.Email) == "" {
		errs["email"] = fieldRequiredReason
	}
	if l.Password == "" {
		errs["password"] = fieldRequiredReason
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks if the update request fields are valid. Nil fields are
// skipped entirely; they mean "leave this alone", not "clear it".
// Returns a map of field names to error messages, or nil if all fields are valid.
func (u UpdateUserRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if u.Email != nil {
		validateEmail(errs, *u.Email)
	}
	if u.Password != nil {
		validatePassword(errs, *u.Password)
	}
	if u.FirstName != nil {
		validateName(errs, "first_name", *u.FirstName)
	}
	if u.LastName != nil {
		validateName(errs, "last_name", *u.LastName)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmail(errs map[string]string, email string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs["email"] = fieldRequiredReason
	case len(email) > 255:
		errs["email"] = "too long (max 255)"
	case !reEmail.MatchString(email):
		errs["email"] = fieldBadEmail
	}
}

// validatePassword mirrors the server-side hashing limits: minimum length is
// counted in characters, the 72 cap in bytes because that is where bcrypt
// stops reading.
func validatePassword(errs map[string]string, password string) {
	switch {
	case password == "":
		errs["password"] = fieldRequiredReason
	case utf8.RuneCountInString(password) < 8:
		errs["password"] = passwordTooShort
	case len(password) > 72:
		errs["password"] = passwordTooLong
	}
}

func validateName(errs map[string]string, field, value string) {
	if len(value) > 50 {
		errs[field] = "too long (max 50)"
	}
}
