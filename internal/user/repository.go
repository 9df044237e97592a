// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, scope authz.Scope, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, scope authz.Scope, id string, active bool) error
	List(ctx context.Context, scope authz.Scope, params ListUsersParams) ([]User, int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// checkCapacity is the user-capacity rule: a tenant holding current
// users may take one more only while current < max.
func checkCapacity(current, maxUsers int) error {
	if current >= maxUsers {
		return &core.CapacityExceededError{Current: current, Max: maxUsers}
	}
	return nil
}

// Create inserts the account and profile in one transaction. For tenant
// users the tenant row is locked first so concurrent registrations into
// the same tenant see each other's counts.
func (r *repository) Create(ctx context.Context, user *User) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if user.TenantID != nil {
			if err := lockAndCheckCapacity(ctx, tx, *user.TenantID); err != nil {
				return err
			}
		}

		err := tx.GetContext(ctx, &user.CreatedAt, `
			INSERT INTO accounts (id, email, password_hash, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.IsActive,
		)
		if err != nil {
			if core.IsDuplicateKey(err, "accounts_email_key") {
				return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create user: %w", err)
		}
		user.UpdatedAt = user.CreatedAt

		_, err = tx.ExecContext(ctx, `
			INSERT INTO profiles (
				account_id, role, tenant_id, first_name, last_name,
				employee_id, phone_number
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			user.ID,
			user.Role,
			user.TenantID,
			user.FirstName,
			user.LastName,
			user.EmployeeID,
			user.PhoneNumber,
		)
		if err != nil {
			if core.IsForeignKeyViolation(err) {
				return fmt.Errorf("create profile: %w", core.ErrTenantNotFound)
			}
			return fmt.Errorf("create profile: %w", err)
		}

		return nil
	})
}

// lockAndCheckCapacity refuses deleted and deactivated tenants, then
// counts live users under the tenant row lock.
func lockAndCheckCapacity(ctx context.Context, tx *sqlx.Tx, tenantID string) error {
	var tenant struct {
		MaxUsers int  `db:"max_user_accounts"`
		IsActive bool `db:"is_active"`
	}
	err := tx.GetContext(ctx, &tenant, `
		SELECT max_user_accounts, is_active
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`,
		tenantID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock tenant: %w", core.ErrTenantNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock tenant: %w", err)
	}
	if !tenant.IsActive {
		return core.NewValidationError("tenant_id", "tenant is not active")
	}

	var current int
	err = tx.GetContext(ctx, &current, `
		SELECT COUNT(*)
		FROM profiles p
		JOIN accounts a ON a.id = p.account_id
		WHERE p.tenant_id = $1 AND a.deleted_at IS NULL`,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("count tenant users: %w", err)
	}

	return checkCapacity(current, tenant.MaxUsers)
}

// GetByID loads a live user and then applies scope, so an absent user is
// ErrNotFound and a user outside scope is ErrForbidden.
func (r *repository) GetByID(
	ctx context.Context,
	scope authz.Scope,
	id string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !scope.Allows(user.Tenant()) {
		return nil, fmt.Errorf("get user: %w", core.ErrForbidden)
	}

	return &user, nil
}

// GetByEmail is the credential lookup used by login, before any principal
// exists.
func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return execOne(ctx, r.db, "update password", query, id, passwordHash)
}

func (r *repository) SetActive(
	ctx context.Context,
	scope authz.Scope,
	id string,
	active bool,
) error {
	where, args := scope.Where("", 3)
	query := fmt.Sprintf(`
		UPDATE accounts
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		  AND id IN (SELECT id FROM users WHERE %s)`,
		where,
	)

	return execOne(ctx, r.db, "set user active",
		query, append([]any{id, active}, args...)...)
}

func (r *repository) List(
	ctx context.Context,
	scope authz.Scope,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where, args := scope.Where("", 1)
	conditions := []string{where}
	argIdx := len(args) + 1

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *params.Active)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM users WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM users
		WHERE %s
		ORDER BY last_name, first_name
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func execOne(
	ctx context.Context,
	db core.DBTX,
	op, query string,
	args ...any,
) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
