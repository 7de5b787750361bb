package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/store"
	"github.com/aussiebroadwan/barkeep/pkg/cryptox"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNotOwner     = errors.New("not the profile owner")
	ErrEmailInUse   = errors.New("email already in use")
)

// DefaultListLimit is the page size when a caller asks for no particular
// limit.
const DefaultListLimit = 100

// UserService owns profile reads and owner-scoped mutations.
type UserService struct {
	Store  store.Store
	Hasher cryptox.Hasher
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListUsers returns a page of users in creation order. A non-positive limit
// selects the default page size; negative offsets clamp to zero.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.Users().ListUsers(ctx, limit, offset)
}

// UpdateUser applies patch to the target profile on behalf of actor. Only
// the owner may update a profile, and the ownership check runs before the
// existence lookup so probing foreign ids reveals nothing.
func (s *UserService) UpdateUser(ctx context.Context, actorID, targetID string, patch domain.UserPatch) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Ownership first.
	if actorID != targetID {
		return domain.User{}, ErrNotOwner
	}

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Load the current row.
		user, err := tx.Users().GetUserByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// 3. Email change: normalise, then make sure nobody else holds it.
		if patch.Email != nil {
			email := normalizeEmail(*patch.Email)
			if email != user.Email {
				if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
					return ErrEmailInUse
				} else if !errors.Is(err, store.ErrNotFound) {
					return err
				}
				user.Email = email
			}
		}

		// 4. Password change goes through the same validation and hashing
		// as registration.
		if patch.Password != nil {
			hash, err := s.Hasher.Hash(*patch.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if patch.FirstName != nil {
			user.FirstName = emptyToNil(*patch.FirstName)
		}
		if patch.LastName != nil {
			user.LastName = emptyToNil(*patch.LastName)
		}

		user.UpdatedAt = time.Now().UTC()

		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailInUse
			}
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user profile updated", slog.String("user_id", updated.ID))
	return updated, nil
}

// DeleteUser removes the target account on behalf of actor. Owner-only,
// hard delete. Outstanding tokens keep their lifetime but stop resolving
// to a user, which reads as an authentication failure downstream.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	l := slogx.FromContext(ctx)

	if actorID != targetID {
		return ErrNotOwner
	}

	if err := s.Store.Users().DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	l.Info("user deleted", slog.String("user_id", targetID))
	return nil
}

// emptyToNil maps an explicit empty string to a cleared (NULL) field.
func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
