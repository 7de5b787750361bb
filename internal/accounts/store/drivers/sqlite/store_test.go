package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/store"
	"github.com/aussiebroadwan/barkeep/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/barkeep/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newUser(username, email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$12$not.a.real.hash.but.close.enough.for.storage",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newUser("alice", "alice@example.com")
	u.FirstName = strPtr("Alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, "alice", got.Username)
		require.Equal(t, "alice@example.com", got.Email)
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.True(t, got.IsActive)
		require.NotNil(t, got.FirstName)
		require.Equal(t, "Alice", *got.FirstName)
		require.Nil(t, got.LastName)
		require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("by username", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUser_UniqueConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, newUser("alice", "alice@example.com")))

	t.Run("duplicate email", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, newUser("bob", "alice@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, newUser("alice", "other@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// ULID ids sort by creation time, so insertion order is list order.
	first := newUser("alice", "alice@example.com")
	second := newUser("bob", "bob@example.com")
	third := newUser("carol", "carol@example.com")
	for _, u := range []domain.User{first, second, third} {
		require.NoError(t, s.Users().CreateUser(ctx, u))
	}

	page, err := s.Users().ListUsers(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, first.ID, page[0].ID)
	require.Equal(t, second.ID, page[1].ID)

	page, err = s.Users().ListUsers(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, third.ID, page[0].ID)

	page, err = s.Users().ListUsers(ctx, 10, 99)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	u.Email = "new@example.com"
	u.FirstName = strPtr("Alice")
	u.LastName = strPtr("Liddell")
	u.UpdatedAt = time.Now().UTC().Add(time.Minute)
	require.NoError(t, s.Users().UpdateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
	require.Equal(t, "Alice", *got.FirstName)
	require.Equal(t, "Liddell", *got.LastName)
	require.True(t, got.UpdatedAt.After(got.CreatedAt))

	t.Run("clearing an optional field", func(t *testing.T) {
		u.LastName = nil
		require.NoError(t, s.Users().UpdateUser(ctx, u))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.LastName)
	})

	t.Run("unknown user", func(t *testing.T) {
		missing := newUser("ghost", "ghost@example.com")
		require.ErrorIs(t, s.Users().UpdateUser(ctx, missing), store.ErrNotFound)
	})

	t.Run("email collision", func(t *testing.T) {
		other := newUser("bob", "bob@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, other))

		other.Email = "new@example.com" // alice has it
		require.ErrorIs(t, s.Users().UpdateUser(ctx, other), store.ErrAlreadyExists)
	})
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		u := newUser("alice", "alice@example.com")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, u)
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		u := newUser("bob", "bob@example.com")

		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound, "insert should have been rolled back")
	})
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
