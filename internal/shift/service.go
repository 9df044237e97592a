// AngelaMos | 2026
// service.go

package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/site"
)

type SiteLookup interface {
	GetSite(ctx context.Context, p *authz.Principal, id string) (*site.Site, error)
}

type EventRecorder interface {
	ShiftEvent(event string)
}

type Service struct {
	repo   Repository
	sites  SiteLookup
	events EventRecorder
	now    func() time.Time
}

func NewService(repo Repository, sites SiteLookup, events EventRecorder) *Service {
	return &Service{
		repo:   repo,
		sites:  sites,
		events: events,
		now:    time.Now,
	}
}

func (s *Service) record(ctx context.Context, event, shiftID string) {
	core.SpanShiftEvent(ctx, event, shiftID)
	if s.events != nil {
		s.events.ShiftEvent(event)
	}
}

// Start puts the calling guard on duty at a site of their own tenant.
// A guard who is already on duty gets core.ErrActiveShiftExists.
func (s *Service) Start(
	ctx context.Context,
	p *authz.Principal,
	req StartRequest,
) (*Shift, error) {
	if !p.HasTenant() {
		return nil, fmt.Errorf("start shift: %w", core.ErrForbidden)
	}

	st, err := s.sites.GetSite(ctx, p, req.SiteID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, core.NewValidationError("site_id", "site is not active")
	}

	now := s.now().UTC()
	sh := &Shift{
		ID:                 uuid.NewString(),
		TenantID:           p.TenantID,
		GuardID:            p.UserID,
		SiteID:             st.ID,
		SiteName:           st.Name,
		ScheduledStartTime: now,
		ScheduledEndTime:   now.Add(DefaultLength),
		ActualStartTime:    &now,
		Status:             StatusActive,
		Notes:              req.Notes,
	}

	if err := s.repo.Start(ctx, sh); err != nil {
		if errors.Is(err, core.ErrActiveShiftExists) {
			s.record(ctx, "conflict", "")
		}
		return nil, err
	}

	s.record(ctx, "start", sh.ID)
	slog.InfoContext(ctx, "shift started",
		"shift_id", sh.ID,
		"guard_id", sh.GuardID,
		"site_id", sh.SiteID,
	)

	return sh, nil
}

func (s *Service) End(
	ctx context.Context,
	p *authz.Principal,
	req EndRequest,
) (*Shift, error) {
	if p == nil {
		return nil, fmt.Errorf("end shift: %w", core.ErrUnauthorized)
	}

	sh, err := s.repo.End(ctx, authz.ScopeFor(p), p.UserID, s.now().UTC(), req.Notes)
	if err != nil {
		return nil, err
	}

	s.record(ctx, "end", sh.ID)
	slog.InfoContext(ctx, "shift ended",
		"shift_id", sh.ID,
		"guard_id", sh.GuardID,
	)

	return sh, nil
}

// Active returns the caller's open shift or core.ErrNoActiveShift.
func (s *Service) Active(ctx context.Context, p *authz.Principal) (*Shift, error) {
	if p == nil {
		return nil, fmt.Errorf("active shift: %w", core.ErrUnauthorized)
	}
	return s.repo.Active(ctx, authz.ScopeFor(p), p.UserID)
}

// Current is Active with off-duty reported as a nil shift.
func (s *Service) Current(ctx context.Context, p *authz.Principal) (*Shift, error) {
	sh, err := s.Active(ctx, p)
	if errors.Is(err, core.ErrNoActiveShift) {
		return nil, nil
	}
	return sh, err
}
