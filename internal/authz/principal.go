// AngelaMos | 2026
// principal.go

package authz

import (
	"fmt"

	"github.com/carterperez-dev/guardops/internal/core"
)

// Principal is the identity carried by a verified token. TenantID is empty
// for a PlatformOwner.
type Principal struct {
	UserID   string
	Email    string
	Role     Role
	TenantID string
}

func (p *Principal) IsPlatformOwner() bool {
	return p != nil && p.Role == RolePlatformOwner
}

func (p *Principal) HasTenant() bool {
	return p != nil && p.TenantID != ""
}

// CanAccess is the tenant isolation gate. PlatformOwner reaches every
// tenant; anyone else only their own, and a non-owner without a tenant
// reaches nothing.
func CanAccess(p *Principal, resourceTenantID string) bool {
	if p == nil {
		return false
	}

	if p.Role == RolePlatformOwner {
		return true
	}

	if p.TenantID == "" || resourceTenantID == "" {
		return false
	}

	return p.TenantID == resourceTenantID
}

// TargetTenant picks the tenant a create lands in: the requested one, or
// the caller's own when none is named. The result must pass CanAccess.
// A non-owner without a tenant is refused outright.
func TargetTenant(p *Principal, requested string) (string, error) {
	if !p.IsPlatformOwner() && !p.HasTenant() {
		return "", fmt.Errorf("target tenant: caller has no tenant: %w", core.ErrForbidden)
	}

	tenantID := requested
	if tenantID == "" {
		tenantID = p.TenantID
	}

	if tenantID == "" {
		return "", core.NewValidationError("tenant_id", "is required")
	}

	if !CanAccess(p, tenantID) {
		return "", fmt.Errorf("target tenant: %w", core.ErrForbidden)
	}

	return tenantID, nil
}
