// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/auth"
	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user on behalf of p. The target tenant defaults to
// the caller's own; a non-owner naming another tenant is forbidden, and
// the repository enforces the tenant's capacity.
func (s *Service) Register(
	ctx context.Context,
	p *authz.Principal,
	req RegisterRequest,
) (*User, error) {
	role, ok := authz.ParseRole(req.Role)
	if !ok {
		return nil, core.NewValidationError("role", "unknown role")
	}

	if !authz.CanAssignRole(p, role) {
		return nil, fmt.Errorf("register %s: %w", role, core.ErrForbidden)
	}

	tenantID, err := resolveTenant(p, role, req.TenantID)
	if err != nil {
		return nil, err
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Account: Account{
			ID:           uuid.NewString(),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
			IsActive:     true,
		},
		Profile: Profile{
			Role:        role,
			TenantID:    tenantID,
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			EmployeeID:  req.EmployeeID,
			PhoneNumber: req.PhoneNumber,
		},
		TenantActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered",
		"user_id", u.ID,
		"role", role,
		"tenant_id", u.Tenant(),
		"created_by", p.UserID,
	)

	return u, nil
}

func resolveTenant(
	p *authz.Principal,
	role authz.Role,
	requested *string,
) (*string, error) {
	if role == authz.RolePlatformOwner {
		if requested != nil && *requested != "" {
			return nil, core.NewValidationError(
				"tenant_id",
				"PlatformOwner users have no tenant",
			)
		}
		return nil, nil
	}

	requestedID := ""
	if requested != nil {
		requestedID = *requested
	}

	tenantID, err := authz.TargetTenant(p, requestedID)
	if err != nil {
		return nil, err
	}

	return &tenantID, nil
}

func (s *Service) GetByID(
	ctx context.Context,
	p *authz.Principal,
	id string,
) (*User, error) {
	return s.repo.GetByID(ctx, authz.ScopeFor(p), id)
}

// GetMe returns the caller's profile. The account state is re-read so a
// deactivated user's outstanding token stops resolving.
func (s *Service) GetMe(ctx context.Context, p *authz.Principal) (*User, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	u, err := s.repo.GetByID(ctx, authz.ScopeFor(p), p.UserID)
	if err != nil {
		return nil, err
	}

	if !u.IsActive || !u.TenantActive {
		return nil, fmt.Errorf("get me: account inactive: %w", core.ErrUnauthorized)
	}

	return u, nil
}

func (s *Service) List(
	ctx context.Context,
	scope authz.Scope,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, scope, params)
}

// SetActive activates or deactivates a user inside scope. Callers cannot
// change their own status.
func (s *Service) SetActive(
	ctx context.Context,
	p *authz.Principal,
	scope authz.Scope,
	id string,
	active bool,
) (*User, error) {
	if p == nil {
		return nil, fmt.Errorf("set active: %w", core.ErrUnauthorized)
	}
	if p.UserID == id {
		return nil, core.NewValidationError("id", "cannot change own status")
	}

	if _, err := s.repo.GetByID(ctx, scope, id); err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, scope, id, active); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user status changed",
		"user_id", id,
		"is_active", active,
		"changed_by", p.UserID,
	)

	return s.repo.GetByID(ctx, scope, id)
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TenantID:     u.TenantID,
		TenantName:   u.TenantName,
		EmployeeID:   u.EmployeeID,
		IsActive:     u.IsActive,
		TenantActive: u.TenantActive,
	}
}

var _ auth.UserProvider = (*Service)(nil)
