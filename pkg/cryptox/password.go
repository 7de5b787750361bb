package cryptox

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost keeps a single verification in the tens-of-milliseconds
	// range on current hardware. Fixed per deployment, never per call.
	DefaultCost = 12

	// MinPasswordLength is the minimum accepted password length in characters.
	MinPasswordLength = 8

	// MaxPasswordBytes is bcrypt's input limit. Longer input is rejected
	// before hashing rather than silently truncated.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("cryptox: password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("cryptox: password must not exceed 72 bytes")
)

// Hasher hashes and verifies passwords with bcrypt. Construct with
// NewHasher; a Hasher is immutable and safe for concurrent use.
type Hasher struct {
	cost int
	log  *slog.Logger
}

// NewHasher returns a Hasher with the given work factor, clamped into
// bcrypt's legal range. Verification failures that are not plain mismatches
// are reported through log (the process default when nil).
func NewHasher(cost int, log *slog.Logger) Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if log == nil {
		log = slog.Default()
	}
	return Hasher{cost: cost, log: log}
}

// Hash derives a salted one-way hash of password. The returned string embeds
// the algorithm identifier, cost and salt, so it is directly storable and
// self-describing for Verify. bcrypt salts randomly per call: hashing the
// same password twice yields different strings.
func (h Hasher) Hash(password string) (string, error) {
	if password == "" || utf8.RuneCountInString(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches encodedHash. It never returns an
// error: a mismatch is false, and a malformed stored hash or any internal
// bcrypt failure is logged and treated as a non-match.
func (h Hasher) Verify(password, encodedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false
	default:
		// Corrupt or foreign hash formats fail closed.
		h.log.Warn("password verification errored", "err", err)
		return false
	}
}
