package domain

import "time"

// User is an account holder. Optional profile fields are pointers so that
// "never set" survives the round-trip through storage.
type User struct {
	ID           string
	Username     string
	Email        string  // stored lower-case
	FirstName    *string // nullable
	LastName     *string // nullable
	PasswordHash string  // bcrypt encoded
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration carries the fields a new account is created from.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// UserPatch is a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}
