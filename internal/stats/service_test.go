package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/meridian-admin/meridian-admin/testing"
)

type stubStatsRepo struct {
	counts    []ActorActionCount
	names     []string
	total     int64
	active    int64
	countsErr error

	lastLocation string
}

func (r *stubStatsRepo) AuditActionCounts(ctx context.Context, location string) ([]ActorActionCount, error) {
	r.lastLocation = location
	return r.counts, r.countsErr
}

func (r *stubStatsRepo) DistinctCategoryNames(ctx context.Context, isActive *bool) ([]string, error) {
	return r.names, nil
}

func (r *stubStatsRepo) CountPrincipals(ctx context.Context, isActive *bool) (int64, error) {
	if isActive != nil && *isActive {
		return r.active, nil
	}
	return r.total, nil
}

func TestAuditActionsPassesLocation(t *testing.T) {
	repo := &stubStatsRepo{counts: []ActorActionCount{{ActorEmail: "a@example.com", Action: "Add", Count: 3}}}
	svc := NewService(repo)

	rows, err := svc.AuditActions(context.Background(), "Roles")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Roles", repo.lastLocation)
}

func TestOverviewSnapshotGathersAllAggregates(t *testing.T) {
	repo := &stubStatsRepo{
		counts: []ActorActionCount{{ActorEmail: "a@example.com", Action: "Add", Count: 2}},
		names:  []string{"Hardware", "Software"},
		total:  12,
		active: 9,
	}
	svc := NewService(repo)

	snapshot, err := svc.OverviewSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.AuditActions, 1)
	require.Equal(t, []string{"Hardware", "Software"}, snapshot.CategoryNames)
	require.Equal(t, int64(12), snapshot.PrincipalCount)
	require.Equal(t, int64(9), snapshot.ActiveUserCount)
}

func TestOverviewSnapshotPropagatesFailure(t *testing.T) {
	repo := &stubStatsRepo{countsErr: errors.New("query timeout")}
	svc := NewService(repo)

	_, err := svc.OverviewSnapshot(context.Background())
	require.Error(t, err)
}
