package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Service wraps credential verification rules.
type Service struct {
	repo        Repository
	validate    *validator.Validate
	minPassword int
}

// NewService constructs a new Service.
func NewService(repo Repository, minPasswordLength int) *Service {
	if minPasswordLength <= 0 {
		minPasswordLength = 8
	}
	return &Service{
		repo:        repo,
		validate:    validator.New(),
		minPassword: minPasswordLength,
	}
}

// Verify validates email/password credentials and returns the matching
// principal. Malformed input is rejected before any storage lookup; an
// unknown email and a wrong password produce the identical error.
func (s *Service) Verify(ctx context.Context, email, password string) (*Principal, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: email must be in a valid format", shared.ErrValidation)
	}
	if len(password) < s.minPassword {
		return nil, fmt.Errorf("%w: password length must be at least %d", shared.ErrValidation, s.minPassword)
	}

	principal, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return principal, nil
}

// MinPasswordLength exposes the configured minimum for handler validation.
func (s *Service) MinPasswordLength() int {
	return s.minPassword
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
