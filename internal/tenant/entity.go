// AngelaMos | 2026
// entity.go

package tenant

import (
	"time"
)

type Plan string

const (
	PlanBasic        Plan = "Basic"
	PlanProfessional Plan = "Professional"
	PlanEnterprise   Plan = "Enterprise"
)

const DefaultMaxUsers = 10

type Tenant struct {
	ID                     string     `db:"id"`
	CompanyName            string     `db:"company_name"`
	Address                string     `db:"address"`
	ContactEmail           string     `db:"contact_email"`
	ContactPhone           string     `db:"contact_phone"`
	MaxUserAccounts        int        `db:"max_user_accounts"`
	SubscriptionPlan       Plan       `db:"subscription_plan"`
	IsActive               bool       `db:"is_active"`
	SubscriptionExpiryDate *time.Time `db:"subscription_expiry_date"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
	DeletedAt              *time.Time `db:"deleted_at"`
	CurrentUserCount       int        `db:"current_user_count"`
}

// Summary is the platform-wide tenant and user census.
type Summary struct {
	TotalTenants  int `db:"total_tenants"  json:"total_tenants"`
	ActiveTenants int `db:"active_tenants" json:"active_tenants"`
	TotalUsers    int `db:"total_users"    json:"total_users"`
	TotalGuards   int `db:"total_guards"   json:"total_guards"`
}

const tenantColumns = `
	t.id, t.company_name, t.address, t.contact_email, t.contact_phone,
	t.max_user_accounts, t.subscription_plan, t.is_active,
	t.subscription_expiry_date, t.created_at, t.updated_at, t.deleted_at,
	(SELECT COUNT(*) FROM users u
	  WHERE u.tenant_id = t.id AND u.deleted_at IS NULL) AS current_user_count`
