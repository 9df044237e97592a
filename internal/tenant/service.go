// AngelaMos | 2026
// service.go

package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	p *authz.Principal,
	req CreateTenantRequest,
) (*Tenant, error) {
	if !p.IsPlatformOwner() {
		return nil, fmt.Errorf("create tenant: %w", core.ErrForbidden)
	}

	t := &Tenant{
		ID:                     uuid.NewString(),
		CompanyName:            strings.TrimSpace(req.CompanyName),
		Address:                req.Address,
		ContactEmail:           strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone:           req.ContactPhone,
		MaxUserAccounts:        DefaultMaxUsers,
		SubscriptionPlan:       PlanBasic,
		IsActive:               true,
		SubscriptionExpiryDate: req.SubscriptionExpiryDate,
	}
	if req.MaxUserAccounts != nil {
		t.MaxUserAccounts = *req.MaxUserAccounts
	}
	if req.SubscriptionPlan != "" {
		t.SubscriptionPlan = Plan(req.SubscriptionPlan)
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "tenant created",
		"tenant_id", t.ID,
		"company_name", t.CompanyName,
		"max_users", t.MaxUserAccounts,
	)

	return t, nil
}

// Get returns the tenant when p may access it.
func (s *Service) Get(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*Tenant, error) {
	return s.repo.GetByID(ctx, authz.ScopeFor(p), id)
}

func (s *Service) List(
	ctx context.Context,
	p *authz.Principal,
	params ListTenantsParams,
) ([]Tenant, int, error) {
	return s.repo.List(ctx, authz.ScopeFor(p), params)
}

func (s *Service) Update(
	ctx context.Context,
	p *authz.Principal,
	id string,
	req UpdateTenantRequest,
) (*Tenant, error) {
	scope := authz.ScopeFor(p)

	t, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		t.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Address != nil {
		t.Address = *req.Address
	}
	if req.ContactEmail != nil {
		t.ContactEmail = strings.ToLower(strings.TrimSpace(*req.ContactEmail))
	}
	if req.ContactPhone != nil {
		t.ContactPhone = *req.ContactPhone
	}
	if req.SubscriptionPlan != nil {
		t.SubscriptionPlan = Plan(*req.SubscriptionPlan)
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.SubscriptionExpiryDate != nil {
		t.SubscriptionExpiryDate = req.SubscriptionExpiryDate
	}

	if err := s.repo.Update(ctx, scope, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := s.repo.SoftDelete(ctx, authz.ScopeFor(p), id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "tenant deleted", "tenant_id", id, "deleted_by", p.UserID)
	return nil
}

func (s *Service) SetUserLimit(
	ctx context.Context,
	p *authz.Principal,
	id string,
	limit int,
) (*Tenant, error) {
	t, err := s.repo.SetUserLimit(ctx, authz.ScopeFor(p), id, limit)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "tenant user limit changed",
		"tenant_id", id,
		"max_users", limit,
		"current_users", t.CurrentUserCount,
	)

	return t, nil
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}
