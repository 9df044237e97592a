// AngelaMos | 2026
// service.go

package patrol

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/geo"
	"github.com/carterperez-dev/guardops/internal/shift"
	"github.com/carterperez-dev/guardops/internal/site"
)

type ShiftLookup interface {
	Active(ctx context.Context, p *authz.Principal) (*shift.Shift, error)
}

type SiteLookup interface {
	GetSite(ctx context.Context, p *authz.Principal, id string) (*site.Site, error)
	CheckpointByCode(ctx context.Context, scope authz.Scope, code string) (*site.Checkpoint, error)
}

type Service struct {
	repo   Repository
	shifts ShiftLookup
	sites  SiteLookup
	now    func() time.Time
}

func NewService(repo Repository, shifts ShiftLookup, sites SiteLookup) *Service {
	return &Service{
		repo:   repo,
		shifts: shifts,
		sites:  sites,
		now:    time.Now,
	}
}

// CheckIn records a check-in against the caller's active shift. When a
// checkpoint code is given it must belong to the shift's site. The
// geofence flag is measured against the site, not the checkpoint.
func (s *Service) CheckIn(
	ctx context.Context,
	p *authz.Principal,
	req CheckInRequest,
) (*CheckIn, error) {
	sh, st, err := s.onDuty(ctx, p)
	if err != nil {
		return nil, err
	}

	point := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	c := &CheckIn{
		ID:               uuid.NewString(),
		TenantID:         sh.TenantID,
		GuardID:          p.UserID,
		ShiftID:          sh.ID,
		CheckInTime:      s.now().UTC(),
		Type:             CheckInGPS,
		Latitude:         point.Latitude,
		Longitude:        point.Longitude,
		Accuracy:         req.Accuracy,
		Notes:            req.Notes,
		IsWithinGeofence: st.Contains(point),
	}

	if req.CheckpointCode != nil {
		cp, err := s.sites.CheckpointByCode(ctx, authz.ScopeFor(p), *req.CheckpointCode)
		if err != nil {
			return nil, err
		}
		if cp.SiteID != sh.SiteID {
			return nil, core.NewValidationError(
				"checkpoint_code",
				"checkpoint belongs to a different site",
			)
		}
		c.CheckpointID = &cp.ID
		c.Type = CheckInType(cp.Type)
	}

	if err := s.repo.CreateCheckIn(ctx, c); err != nil {
		return nil, err
	}

	if !c.IsWithinGeofence {
		slog.WarnContext(ctx, "check-in outside geofence",
			"check_in_id", c.ID,
			"guard_id", c.GuardID,
			"site_id", st.ID,
			"distance_m", geo.Distance(point, st.Center()),
		)
	}

	return c, nil
}

func (s *Service) LogLocation(
	ctx context.Context,
	p *authz.Principal,
	req LocationRequest,
) (*LocationLog, error) {
	sh, st, err := s.onDuty(ctx, p)
	if err != nil {
		return nil, err
	}

	point := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	l := &LocationLog{
		ID:                   uuid.NewString(),
		TenantID:             sh.TenantID,
		GuardID:              p.UserID,
		ShiftID:              sh.ID,
		Timestamp:            s.now().UTC(),
		Latitude:             point.Latitude,
		Longitude:            point.Longitude,
		Accuracy:             req.Accuracy,
		Speed:                req.Speed,
		BatteryLevel:         req.BatteryLevel,
		IsWithinSiteGeofence: st.Contains(point),
	}

	if err := s.repo.LogLocation(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// History lists the caller's check-ins from midnight UTC `days` days ago.
func (s *Service) History(
	ctx context.Context,
	p *authz.Principal,
	days int,
) ([]HistoryEntry, error) {
	if p == nil {
		return nil, fmt.Errorf("patrol history: %w", core.ErrUnauthorized)
	}

	if days < 1 {
		days = DefaultHistoryDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -days)

	return s.repo.History(ctx, authz.ScopeFor(p), p.UserID, since)
}

func (s *Service) onDuty(
	ctx context.Context,
	p *authz.Principal,
) (*shift.Shift, *site.Site, error) {
	sh, err := s.shifts.Active(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	st, err := s.sites.GetSite(ctx, p, sh.SiteID)
	if err != nil {
		return nil, nil, fmt.Errorf("shift site: %w", err)
	}

	return sh, st, nil
}
