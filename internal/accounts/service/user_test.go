package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/pkg/cryptox"
)

func TestGetUserByID(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	registered := registerUser(t, auth, "alice", "alice@example.com")

	got, err := users.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	require.Equal(t, registered.ID, got.ID)

	_, err = users.GetUserByID(ctx, "01J00000000000000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	first := registerUser(t, auth, "alice", "alice@example.com")
	second := registerUser(t, auth, "bob", "bob@example.com")
	third := registerUser(t, auth, "carol", "carol@example.com")

	t.Run("defaults", func(t *testing.T) {
		page, err := users.ListUsers(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, page, 3)
		require.Equal(t, first.ID, page[0].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		page, err := users.ListUsers(ctx, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 2)
		require.Equal(t, second.ID, page[0].ID)
		require.Equal(t, third.ID, page[1].ID)
	})

	t.Run("negative values clamp", func(t *testing.T) {
		page, err := users.ListUsers(ctx, -1, -1)
		require.NoError(t, err)
		require.Len(t, page, 3)
	})
}

func TestUpdateUser(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	user := registerUser(t, auth, "alice", "alice@example.com")

	updated, err := users.UpdateUser(ctx, user.ID, user.ID, domain.UserPatch{
		Email:     strPtr("New@Example.com"),
		FirstName: strPtr("Alice"),
		LastName:  strPtr("Liddell"),
		Password:  strPtr("evenlonger12"),
	})
	require.NoError(t, err)

	require.Equal(t, "new@example.com", updated.Email)
	require.Equal(t, "Alice", *updated.FirstName)
	require.Equal(t, "Liddell", *updated.LastName)
	require.True(t, updated.UpdatedAt.After(user.UpdatedAt) || updated.UpdatedAt.Equal(user.UpdatedAt))

	// The password change is effective immediately.
	require.True(t, users.Hasher.Verify("evenlonger12", updated.PasswordHash))
	require.False(t, users.Hasher.Verify("longenough1", updated.PasswordHash))

	t.Run("same email is not a conflict", func(t *testing.T) {
		_, err := users.UpdateUser(ctx, user.ID, user.ID, domain.UserPatch{
			Email: strPtr("NEW@example.com"), // normalises to the current one
		})
		require.NoError(t, err)
	})

	t.Run("clearing an optional field", func(t *testing.T) {
		got, err := users.UpdateUser(ctx, user.ID, user.ID, domain.UserPatch{
			LastName: strPtr(""),
		})
		require.NoError(t, err)
		require.Nil(t, got.LastName)
		require.Equal(t, "Alice", *got.FirstName, "untouched field survives")
	})
}

func TestUpdateUser_NotOwner(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	alice := registerUser(t, auth, "alice", "alice@example.com")
	bob := registerUser(t, auth, "bob", "bob@example.com")

	_, err := users.UpdateUser(ctx, bob.ID, alice.ID, domain.UserPatch{
		FirstName: strPtr("Mallory"),
	})
	require.ErrorIs(t, err, ErrNotOwner)

	got, err := users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Nil(t, got.FirstName, "profile must be untouched")
}

func TestUpdateUser_EmailInUse(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	registerUser(t, auth, "alice", "alice@example.com")
	bob := registerUser(t, auth, "bob", "bob@example.com")

	_, err := users.UpdateUser(ctx, bob.ID, bob.ID, domain.UserPatch{
		Email: strPtr("alice@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailInUse)
}

func TestUpdateUser_ShortPasswordRollsBack(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	user := registerUser(t, auth, "alice", "alice@example.com")

	_, err := users.UpdateUser(ctx, user.ID, user.ID, domain.UserPatch{
		Email:    strPtr("new@example.com"),
		Password: strPtr("short"),
	})
	require.ErrorIs(t, err, cryptox.ErrPasswordTooShort)

	// The email change in the same patch must not have stuck.
	got, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestDeleteUser(t *testing.T) {
	auth, users := newServices(t)
	ctx := context.Background()

	alice := registerUser(t, auth, "alice", "alice@example.com")
	bob := registerUser(t, auth, "bob", "bob@example.com")

	t.Run("not owner", func(t *testing.T) {
		err := users.DeleteUser(ctx, bob.ID, alice.ID)
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, users.DeleteUser(ctx, alice.ID, alice.ID))

		_, err := users.GetUserByID(ctx, alice.ID)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("already gone", func(t *testing.T) {
		err := users.DeleteUser(ctx, alice.ID, alice.ID)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
