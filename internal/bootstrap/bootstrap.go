// AngelaMos | 2026
// bootstrap.go

// Package bootstrap seeds a fresh deployment: the first PlatformOwner,
// optionally a first tenant and its CompanyAdmin. Every step looks for
// an existing record first, so re-running against a seeded database
// changes nothing.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/auth"
	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/config"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/tenant"
	"github.com/carterperez-dev/guardops/internal/user"
)

const systemActor = "bootstrap"

type Users interface {
	GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error)
	Register(ctx context.Context, p *authz.Principal, req user.RegisterRequest) (*user.User, error)
}

type Tenants interface {
	Create(ctx context.Context, p *authz.Principal, req tenant.CreateTenantRequest) (*tenant.Tenant, error)
	List(ctx context.Context, p *authz.Principal, params tenant.ListTenantsParams) ([]tenant.Tenant, int, error)
}

// Result names the seeded records and which of them this run created.
type Result struct {
	OwnerID  string
	TenantID string
	AdminID  string
	Created  []string
}

type Seeder struct {
	users     Users
	tenants   Tenants
	validator *validator.Validate
}

func NewSeeder(users Users, tenants Tenants) *Seeder {
	return &Seeder{
		users:     users,
		tenants:   tenants,
		validator: core.NewValidator(),
	}
}

// Run applies pending migrations and seeds db from cfg.
func Run(ctx context.Context, db *sqlx.DB, cfg config.BootstrapConfig) (*Result, error) {
	if err := core.Migrate(ctx, db); err != nil {
		return nil, err
	}

	seeder := NewSeeder(
		user.NewService(user.NewRepository(db)),
		tenant.NewService(tenant.NewRepository(db)),
	)
	return seeder.Seed(ctx, cfg)
}

func (s *Seeder) Seed(ctx context.Context, cfg config.BootstrapConfig) (*Result, error) {
	if strings.TrimSpace(cfg.OwnerEmail) == "" {
		return nil, core.NewValidationError("owner_email", "bootstrap owner email is required")
	}

	res := &Result{}
	system := &authz.Principal{UserID: systemActor, Role: authz.RolePlatformOwner}

	ownerID, created, err := s.ensureUser(ctx, system, user.RegisterRequest{
		Email:     cfg.OwnerEmail,
		Password:  cfg.OwnerPassword,
		FirstName: cfg.OwnerFirstName,
		LastName:  cfg.OwnerLastName,
		Role:      string(authz.RolePlatformOwner),
	})
	if err != nil {
		return nil, fmt.Errorf("seed owner: %w", err)
	}
	res.OwnerID = ownerID
	if created {
		res.Created = append(res.Created, "owner")
	}

	if !cfg.HasTenant() {
		return res, nil
	}

	owner := &authz.Principal{UserID: ownerID, Email: cfg.OwnerEmail, Role: authz.RolePlatformOwner}

	tenantID, created, err := s.ensureTenant(ctx, owner, cfg)
	if err != nil {
		return nil, fmt.Errorf("seed tenant: %w", err)
	}
	res.TenantID = tenantID
	if created {
		res.Created = append(res.Created, "tenant")
	}

	if cfg.AdminEmail == "" {
		return res, nil
	}

	adminID, created, err := s.ensureUser(ctx, owner, user.RegisterRequest{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: "Company",
		LastName:  "Admin",
		Role:      string(authz.RoleCompanyAdmin),
		TenantID:  &tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	res.AdminID = adminID
	if created {
		res.Created = append(res.Created, "admin")
	}

	return res, nil
}

func (s *Seeder) ensureUser(
	ctx context.Context,
	actor *authz.Principal,
	req user.RegisterRequest,
) (string, bool, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if string(existing.Role) != req.Role {
			return "", false, fmt.Errorf(
				"%s already exists as %s, not %s",
				req.Email, existing.Role, req.Role,
			)
		}
		return existing.ID, false, nil
	case !errors.Is(err, core.ErrNotFound):
		return "", false, err
	}

	if err := s.validator.Struct(req); err != nil {
		return "", false, core.NewValidationError("bootstrap", core.FormatValidationError(err))
	}

	u, err := s.users.Register(ctx, actor, req)
	if err != nil {
		return "", false, err
	}

	slog.InfoContext(ctx, "bootstrap user created", "user_id", u.ID, "role", req.Role)
	return u.ID, true, nil
}

func (s *Seeder) ensureTenant(
	ctx context.Context,
	owner *authz.Principal,
	cfg config.BootstrapConfig,
) (string, bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.TenantContactEmail))

	tenants, _, err := s.tenants.List(ctx, owner, tenant.ListTenantsParams{
		Page:     1,
		PageSize: 100,
		Search:   email,
	})
	if err != nil {
		return "", false, err
	}
	for _, t := range tenants {
		if strings.EqualFold(t.ContactEmail, email) {
			return t.ID, false, nil
		}
	}

	req := tenant.CreateTenantRequest{
		CompanyName:  cfg.TenantName,
		Address:      cfg.TenantAddress,
		ContactEmail: email,
		ContactPhone: cfg.TenantContactPhone,
	}
	if cfg.TenantMaxUsers > 0 {
		req.MaxUserAccounts = &cfg.TenantMaxUsers
	}
	if err := s.validator.Struct(req); err != nil {
		return "", false, core.NewValidationError("bootstrap", core.FormatValidationError(err))
	}

	t, err := s.tenants.Create(ctx, owner, req)
	if err != nil {
		return "", false, err
	}

	slog.InfoContext(ctx, "bootstrap tenant created", "tenant_id", t.ID, "company_name", t.CompanyName)
	return t.ID, true, nil
}
