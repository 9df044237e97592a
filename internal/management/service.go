// AngelaMos | 2026
// service.go

package management

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := day.UTC().Truncate(24 * time.Hour)
	return from, from.Add(24 * time.Hour)
}

func (s *Service) Today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func (s *Service) Guards(ctx context.Context, scope authz.Scope) ([]GuardInfo, error) {
	return s.repo.Guards(ctx, scope)
}

func (s *Service) Patrols(
	ctx context.Context,
	scope authz.Scope,
	day time.Time,
) ([]PatrolRecord, error) {
	from, to := dayBounds(day)
	return s.repo.Patrols(ctx, scope, from, to)
}

func (s *Service) Incidents(
	ctx context.Context,
	scope authz.Scope,
	day time.Time,
) ([]IncidentRecord, error) {
	from, to := dayBounds(day)
	return s.repo.Incidents(ctx, scope, from, to)
}

func (s *Service) Stats(ctx context.Context, scope authz.Scope) (*Stats, error) {
	from, to := dayBounds(s.Today())
	return s.repo.Stats(ctx, scope, from, to)
}

// Dashboard returns today's summary. Guards see their own shift,
// check-in and incident figures; everyone else sees the whole scope.
func (s *Service) Dashboard(
	ctx context.Context,
	p *authz.Principal,
	scope authz.Scope,
) (*DashboardStats, error) {
	if p == nil {
		return nil, fmt.Errorf("dashboard: %w", core.ErrUnauthorized)
	}

	guardID := ""
	if p.Role == authz.RoleGuard {
		guardID = p.UserID
	}

	from, to := dayBounds(s.Today())
	stats, err := s.repo.DashboardStats(ctx, scope, guardID, from, to)
	if err != nil {
		return nil, err
	}

	if guardID != "" {
		stats.TotalGuards = nil
	}

	return stats, nil
}

// RecentActivity merges the latest check-ins and incidents, newest first.
func (s *Service) RecentActivity(ctx context.Context, scope authz.Scope) ([]Activity, error) {
	checkIns, err := s.repo.RecentCheckIns(ctx, scope, recentCheckIns)
	if err != nil {
		return nil, err
	}

	incidents, err := s.repo.RecentIncidents(ctx, scope, recentIncidents)
	if err != nil {
		return nil, err
	}

	return mergeActivity(checkIns, incidents, recentTotal), nil
}

func mergeActivity(a, b []Activity, limit int) []Activity {
	out := make([]Activity, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	slices.SortStableFunc(out, func(x, y Activity) int {
		return cmp.Compare(y.Timestamp.UnixNano(), x.Timestamp.UnixNano())
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
