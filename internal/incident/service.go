// AngelaMos | 2026
// service.go

package incident

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/shift"
	"github.com/carterperez-dev/guardops/internal/site"
)

type ShiftLookup interface {
	Current(ctx context.Context, p *authz.Principal) (*shift.Shift, error)
}

type SiteLookup interface {
	GetSite(ctx context.Context, p *authz.Principal, id string) (*site.Site, error)
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

// Report files an incident for the calling guard. An on-duty guard's
// incident is attached to the active shift and its site; an off-duty
// guard must name the site.
func (s *Service) Report(
	ctx context.Context,
	p *authz.Principal,
	req CreateRequest,
) (*Report, error) {
	if !p.HasTenant() {
		return nil, fmt.Errorf("report incident: %w", core.ErrForbidden)
	}

	current, err := s.shifts.Current(ctx, p)
	if err != nil {
		return nil, err
	}

	siteID := ""
	var shiftID *string
	switch {
	case current != nil:
		siteID = current.SiteID
		shiftID = &current.ID
	case req.SiteID != nil:
		siteID = *req.SiteID
	default:
		return nil, core.NewValidationError("site_id", "is required when not on duty")
	}

	st, err := s.sites.GetSite(ctx, p, siteID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rep := &Report{
		ID:                         uuid.NewString(),
		TenantID:                   st.TenantID,
		GuardID:                    p.UserID,
		SiteID:                     st.ID,
		SiteName:                   st.Name,
		ShiftID:                    shiftID,
		Title:                      strings.TrimSpace(req.Title),
		Description:                req.Description,
		Type:                       Type(req.Type),
		Severity:                   SeverityMedium,
		IncidentDateTime:           now,
		Latitude:                   *req.Latitude,
		Longitude:                  *req.Longitude,
		Status:                     StatusOpen,
		ActionsTaken:               req.ActionsTaken,
		EmergencyServicesContacted: req.EmergencyServicesContacted,
		EmergencyServiceDetails:    req.EmergencyServiceDetails,
	}
	if rep.Title == "" {
		rep.Title = req.Type
	}
	if req.Severity != "" {
		rep.Severity = Severity(req.Severity)
	}
	if req.IncidentDateTime != nil {
		rep.IncidentDateTime = req.IncidentDateTime.UTC()
	}

	rep.Media = make([]Media, 0, len(req.Media))
	for _, m := range req.Media {
		rep.Media = append(rep.Media, Media{
			ID:               uuid.NewString(),
			TenantID:         rep.TenantID,
			IncidentReportID: rep.ID,
			Type:             MediaType(m.MediaType),
			FileName:         m.FileName,
			FilePath:         m.FilePath,
			FileSize:         m.FileSize,
			MimeType:         m.MimeType,
			DurationSeconds:  m.DurationSeconds,
			Description:      m.Description,
			CapturedAt:       m.CapturedAt,
			CaptureLatitude:  m.CaptureLatitude,
			CaptureLongitude: m.CaptureLongitude,
		})
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "incident reported",
		"incident_id", rep.ID,
		"tenant_id", rep.TenantID,
		"severity", rep.Severity,
		"media", len(rep.Media),
	)

	return rep, nil
}

func (s *Service) Get(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Report, error) {
	return s.repo.Get(ctx, authz.ScopeFor(p), id)
}

// UpdateStatus moves a report forward through Open, InProgress, Resolved
// and Closed. Backward moves and no-op moves are rejected.
func (s *Service) UpdateStatus(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req UpdateStatusRequest,
) (*Report, error) {
	scope := authz.ScopeFor(p)

	rep, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	to := Status(req.Status)
	if !CanTransition(rep.Status, to) {
		return nil, fmt.Errorf("%s to %s: %w", rep.Status, to, core.ErrInvalidTransition)
	}

	err = s.repo.UpdateStatus(ctx, scope, id, StatusUpdate{
		From:             rep.Status,
		To:               to,
		ActionsTaken:     req.ActionsTaken,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpNotes:    req.FollowUpNotes,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "incident status changed",
		"incident_id", id,
		"from", rep.Status,
		"to", to,
		"changed_by", p.UserID,
	)

	return s.repo.Get(ctx, scope, id)
}
