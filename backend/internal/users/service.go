// Package users manages accounts. Emails are unique and stored case-folded;
// passwords are hashed with bcrypt.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
	"kintree/backend/pkg/apperrors"
)

// bcrypt rejects passwords above 72 bytes.
const (
	minPasswordLen   = 8
	maxPasswordBytes = 72
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return apperrors.Validation("password must be at least %d characters", minPasswordLen)
	}
	if len([]byte(password)) > maxPasswordBytes {
		return apperrors.Validation("password is too long (max %d bytes)", maxPasswordBytes)
	}
	return nil
}

// Register creates an account. The very first account becomes a site admin.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("a user with this email already exists")
	}

	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		IsAdmin:      n == 0,
		CreatedAt:    model.Now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Authenticate verifies email+password and returns the account, or nil when
// either is wrong. Unknown email and bad password are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}
