package stats

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Overview bundles the individual aggregates into one snapshot.
type Overview struct {
	AuditActions    []ActorActionCount `json:"audit_actions"`
	CategoryNames   []string           `json:"category_names"`
	PrincipalCount  int64              `json:"principal_count"`
	ActiveUserCount int64              `json:"active_user_count"`
}

// Service exposes the aggregate queries.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AuditActions aggregates audit records per actor and action.
func (s *Service) AuditActions(ctx context.Context, location string) ([]ActorActionCount, error) {
	return s.repo.AuditActionCounts(ctx, location)
}

// CategoryNames returns the distinct category names.
func (s *Service) CategoryNames(ctx context.Context, isActive *bool) ([]string, error) {
	return s.repo.DistinctCategoryNames(ctx, isActive)
}

// UserCount counts principals.
func (s *Service) UserCount(ctx context.Context, isActive *bool) (int64, error) {
	return s.repo.CountPrincipals(ctx, isActive)
}

// OverviewSnapshot gathers all aggregates concurrently.
func (s *Service) OverviewSnapshot(ctx context.Context) (Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		actions, err := s.repo.AuditActionCounts(ctx, "")
		out.AuditActions = actions
		return err
	})
	g.Go(func() error {
		names, err := s.repo.DistinctCategoryNames(ctx, nil)
		out.CategoryNames = names
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountPrincipals(ctx, nil)
		out.PrincipalCount = n
		return err
	})
	g.Go(func() error {
		active := true
		n, err := s.repo.CountPrincipals(ctx, &active)
		out.ActiveUserCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}
