// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/guardops/internal/authz"
)

// Account holds login identity. It is stored in the accounts table.
type Account struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// Profile holds the workforce attributes of an account. TenantID is nil
// only for a PlatformOwner.
type Profile struct {
	Role               authz.Role `db:"role"`
	TenantID           *string    `db:"tenant_id"`
	FirstName          string     `db:"first_name"`
	LastName           string     `db:"last_name"`
	EmployeeID         *string    `db:"employee_id"`
	PhoneNumber        *string    `db:"phone_number"`
	LastKnownLatitude  *float64   `db:"last_known_latitude"`
	LastKnownLongitude *float64   `db:"last_known_longitude"`
	LastLocationUpdate *time.Time `db:"last_location_update"`
}

// User is a row of the users view: an Account joined with its Profile
// and the owning tenant's name and state.
type User struct {
	Account
	Profile
	TenantName   *string `db:"tenant_name"`
	TenantActive bool    `db:"tenant_active"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Tenant returns the tenant id or "" for a PlatformOwner.
func (u *User) Tenant() string {
	if u.TenantID == nil {
		return ""
	}
	return *u.TenantID
}

func (u *User) Principal() *authz.Principal {
	return &authz.Principal{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		TenantID: u.Tenant(),
	}
}

const userColumns = `
	id, email, password_hash, is_active, created_at, updated_at, deleted_at,
	role, tenant_id, first_name, last_name, employee_id, phone_number,
	last_known_latitude, last_known_longitude, last_location_update,
	tenant_name, tenant_active`
