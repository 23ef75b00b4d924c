package audit

import (
	"context"
	"fmt"
	"time"
)

// Listing limits for the audit window endpoint.
const (
	maxListLimit     = 500
	defaultWindowAgo = 24 * time.Hour
)

// Service coordinates audit log retrieval.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns records inside the requested window, newest first. Each missing
// bound defaults to the previous-day window; limit is capped at 500.
func (s *Service) List(ctx context.Context, f Filters) ([]Record, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Begin.IsZero() || f.End.IsZero() {
		now := s.now().UTC()
		if f.End.IsZero() {
			f.End = now
		}
		if f.Begin.IsZero() {
			f.Begin = now.Add(-defaultWindowAgo).Truncate(24 * time.Hour)
		}
	}
	return s.repo.Window(ctx, f)
}
