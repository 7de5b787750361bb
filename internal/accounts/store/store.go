package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to actively stop people from accidentally doing
// transactions within transactions.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., the
	// uniqueness check + insert during registration). The caller MUST call
	// Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by email. Callers are expected to have
	// normalised the email to lower case already.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername returns a user by username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns a page of users in creation order.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// UpdateUser overwrites the stored row for u.ID with u.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the user row outright.
	DeleteUser(ctx context.Context, userID string) error
}
