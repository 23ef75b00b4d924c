package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Service handles category business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Create inserts a new category.
func (s *Service) Create(ctx context.Context, name string, createdBy int64) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: name field must be filled", shared.ErrValidation)
	}
	return s.repo.Create(ctx, name, createdBy)
}

// Update applies partial updates to a category.
func (s *Service) Update(ctx context.Context, id int64, name string, isActive *bool) (Category, error) {
	if id == 0 {
		return Category{}, fmt.Errorf("%w: id field must be filled", shared.ErrValidation)
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		current.Name = trimmed
	}
	if isActive != nil {
		current.IsActive = *isActive
	}
	return s.repo.Update(ctx, current.ID, current.Name, current.IsActive)
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("%w: id field must be filled", shared.ErrValidation)
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}
