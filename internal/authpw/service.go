// Package authpw provides email/password authentication and password reset.
package authpw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/api/internal/auth"
	"inkwell/api/internal/store"
	"inkwell/api/internal/util"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken surfaces as 409 at the API boundary. Registration is the
	// one flow that admits an account exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is deliberately identical for unknown email and
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidResetToken covers expired, consumed, and unknown tokens alike.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// UserStore is the slice of storage the auth service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	CreateUser(ctx context.Context, user store.User) (store.User, error)
	TouchLastLogin(ctx context.Context, userID string) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
}

// ResetTokenStore holds single-use password-reset tokens, keyed by hash.
// Backed by Redis with a TTL when configured, Postgres otherwise.
type ResetTokenStore interface {
	SaveResetToken(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupResetToken(ctx context.Context, tokenHash string) (string, error)
	ConsumeResetToken(ctx context.Context, tokenHash string) error
}

type Service struct {
	users    UserStore
	resets   ResetTokenStore
	resetTTL time.Duration
}

func NewService(users UserStore, resets ResetTokenStore, resetTTL time.Duration) *Service {
	return &Service{users: users, resets: resets, resetTTL: resetTTL}
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (store.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return store.User{}, errors.New("a valid email is required")
	}
	if len(req.Password) < 8 {
		return store.User{}, errors.New("password must be at least 8 characters")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return store.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, store.User{
		ID:           util.NewID("usr"),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	})
	// The exists-then-insert check above races; a concurrent duplicate lands
	// here as a unique violation and must still read as taken.
	if errors.Is(err, store.ErrDuplicate) {
		return store.User{}, ErrEmailTaken
	}
	if err != nil {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and records the login time. Unknown email and
// bad password return the same error so accounts cannot be enumerated here.
func (s *Service) Login(ctx context.Context, email, password string) (store.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return store.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return store.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return store.User{}, fmt.Errorf("record login: %w", err)
	}
	return user, nil
}

// RequestPasswordReset issues a time-boxed single-use token. The empty return
// for an unknown email is indistinguishable from success to the caller.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil
	}

	token := util.NewToken()
	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.resets.SaveResetToken(ctx, auth.HashToken(token), user.ID, expiresAt); err != nil {
		return "", fmt.Errorf("save reset token: %w", err)
	}
	return token, nil
}

// ResetPassword consumes the token and installs the new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	tokenHash := auth.HashToken(token)
	userID, err := s.resets.LookupResetToken(ctx, tokenHash)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdateUserPassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Tokens are single use; a token that cannot be consumed must not stay live.
	if err := s.resets.ConsumeResetToken(ctx, tokenHash); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}
