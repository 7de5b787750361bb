package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/barkeep/internal/accounts/domain"
	"github.com/aussiebroadwan/barkeep/internal/accounts/store"
	"github.com/aussiebroadwan/barkeep/pkg/cryptox"
	"github.com/aussiebroadwan/barkeep/pkg/idx"
	"github.com/aussiebroadwan/barkeep/pkg/jwtx"
	"github.com/aussiebroadwan/barkeep/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrInvalidToken       = errors.New("invalid access token")
)

// AuthService owns registration, login and the token lifecycle.
type AuthService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Tokens *jwtx.Manager
}

// Register creates a new account. Email is normalised to lower case before
// any lookup so addresses compare case-insensitively everywhere.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email := normalizeEmail(reg.Email)

	// 1. Hash before opening the transaction; bcrypt is deliberately slow
	// and has no business holding a write lock.
	hash, err := s.Hasher.Hash(reg.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     reg.Username,
		Email:        email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 2. Check-and-insert atomically so two concurrent registrations can't
	// both sail past the uniqueness checks.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByUsername(ctx, reg.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			// Lost a race the pre-checks could not see.
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login resolves the user for an email/password pair. Unknown email, wrong
// password and deactivated accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		l.Warn("failed login attempt", slog.String("user_id", user.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		l.Warn("login attempt on deactivated account", slog.String("user_id", user.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// IssueTokens mints the access/refresh pair for an authenticated user.
func (s *AuthService) IssueTokens(user domain.User) (jwtx.Pair, error) {
	return s.Tokens.NewPair(user.ID, nil)
}

// Refresh validates a refresh token and issues a fresh pair for its
// subject. Every failure collapses to ErrInvalidRefresh; the why lands in
// the logs only.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.User, jwtx.Pair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Tokens.Verify(refreshToken, jwtx.TokenRefresh)
	if err != nil {
		l.Warn("refresh token rejected", "err", err)
		return domain.User{}, jwtx.Pair{}, ErrInvalidRefresh
	}

	user, err := s.Authenticate(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			l.Warn("refresh token for vanished or deactivated user",
				slog.String("user_id", claims.Subject),
			)
			return domain.User{}, jwtx.Pair{}, ErrInvalidRefresh
		}
		return domain.User{}, jwtx.Pair{}, err
	}

	pair, err := s.Tokens.NewPair(user.ID, nil)
	if err != nil {
		return domain.User{}, jwtx.Pair{}, err
	}
	return user, pair, nil
}

// Authenticate resolves a verified token subject to a live user record. A
// subject that no longer exists, or whose account was deactivated after the
// token was minted, is an authentication failure rather than a lookup miss.
func (s *AuthService) Authenticate(ctx context.Context, subject string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, err
	}

	if !user.IsActive {
		return domain.User{}, ErrInvalidToken
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
