// AngelaMos | 2026
// service.go

package site

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSite(
	ctx context.Context,
	p *authz.Principal,
	req CreateSiteRequest,
) (*Site, error) {
	requested := ""
	if req.TenantID != nil {
		requested = *req.TenantID
	}

	tenantID, err := authz.TargetTenant(p, requested)
	if err != nil {
		return nil, err
	}

	site := &Site{
		ID:                  uuid.NewString(),
		TenantID:            tenantID,
		Name:                strings.TrimSpace(req.Name),
		Address:             req.Address,
		Description:         req.Description,
		Latitude:            *req.Latitude,
		Longitude:           *req.Longitude,
		GeofenceRadius:      DefaultGeofenceRadius,
		ClientContactName:   req.ClientContactName,
		ClientContactEmail:  req.ClientContactEmail,
		ClientContactPhone:  req.ClientContactPhone,
		SpecialInstructions: req.SpecialInstructions,
		IsActive:            true,
	}
	if req.GeofenceRadius != nil {
		site.GeofenceRadius = *req.GeofenceRadius
	}

	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "site created",
		"site_id", site.ID,
		"tenant_id", tenantID,
	)

	return site, nil
}

func (s *Service) GetSite(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Site, error) {
	return s.repo.GetSite(ctx, authz.ScopeFor(p), id)
}

func (s *Service) ListSites(
	ctx context.Context,
	scope authz.Scope,
	activeOnly bool,
) ([]Site, error) {
	return s.repo.ListSites(ctx, scope, activeOnly)
}

// CreateCheckpoint adds a checkpoint to a site the caller can access.
// The checkpoint inherits the site's tenant.
func (s *Service) CreateCheckpoint(
	ctx context.Context,
	p *authz.Principal,
	siteID string,
	req CreateCheckpointRequest,
) (*Checkpoint, error) {
	site, err := s.repo.GetSite(ctx, authz.ScopeFor(p), siteID)
	if err != nil {
		return nil, err
	}

	c := &Checkpoint{
		ID:                      uuid.NewString(),
		TenantID:                site.TenantID,
		SiteID:                  site.ID,
		Name:                    strings.TrimSpace(req.Name),
		Description:             req.Description,
		Latitude:                *req.Latitude,
		Longitude:               *req.Longitude,
		Code:                    strings.TrimSpace(req.Code),
		Type:                    CheckpointQR,
		ExpectedIntervalMinutes: 60,
		IsMandatory:             true,
		Instructions:            req.Instructions,
		IsActive:                true,
	}
	if req.Type != "" {
		c.Type = CheckpointType(req.Type)
	}
	if req.ExpectedIntervalMinutes != nil {
		c.ExpectedIntervalMinutes = *req.ExpectedIntervalMinutes
	}
	if req.IsMandatory != nil {
		c.IsMandatory = *req.IsMandatory
	}

	if err := s.repo.CreateCheckpoint(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) ListCheckpoints(
	ctx context.Context,
	p *authz.Principal,
	siteID string,
) ([]Checkpoint, error) {
	scope := authz.ScopeFor(p)

	if _, err := s.repo.GetSite(ctx, scope, siteID); err != nil {
		return nil, err
	}

	return s.repo.ListCheckpoints(ctx, scope, siteID)
}

// CheckpointByCode resolves a scanned code within scope.
func (s *Service) CheckpointByCode(
	ctx context.Context,
	scope authz.Scope,
	code string,
) (*Checkpoint, error) {
	return s.repo.GetCheckpointByCode(ctx, scope, strings.TrimSpace(code))
}
