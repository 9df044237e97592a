// AngelaMos | 2026
// repository.go

package tenant

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
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, scope authz.Scope, id string) (*Tenant, error)
	List(ctx context.Context, scope authz.Scope, params ListTenantsParams) ([]Tenant, int, error)
	Update(ctx context.Context, scope authz.Scope, t *Tenant) error
	SoftDelete(ctx context.Context, scope authz.Scope, id string) error
	SetUserLimit(ctx context.Context, scope authz.Scope, id string, limit int) (*Tenant, error)
	Summary(ctx context.Context) (*Summary, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const contactEmailKey = "tenants_contact_email_key"

func (r *repository) Create(ctx context.Context, t *Tenant) error {
	query := `
		INSERT INTO tenants (
			id, company_name, address, contact_email, contact_phone,
			max_user_accounts, subscription_plan, is_active,
			subscription_expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		t.ID,
		t.CompanyName,
		t.Address,
		t.ContactEmail,
		t.ContactPhone,
		t.MaxUserAccounts,
		t.SubscriptionPlan,
		t.IsActive,
		t.SubscriptionExpiryDate,
	)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		if core.IsDuplicateKey(err, contactEmailKey) {
			return fmt.Errorf("create tenant: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tenant: %w", err)
	}

	return nil
}

// GetByID loads a live tenant and then applies scope: absent is
// ErrNotFound, outside scope is ErrForbidden.
func (r *repository) GetByID(
	ctx context.Context,
	scope authz.Scope,
	id string,
) (*Tenant, error) {
	t, err := getTenant(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	if !scope.Allows(t.ID) {
		return nil, fmt.Errorf("get tenant: %w", core.ErrForbidden)
	}

	return t, nil
}

func getTenant(
	ctx context.Context,
	db core.DBTX,
	id string,
) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	var t Tenant
	err := db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	return &t, nil
}

func (r *repository) List(
	ctx context.Context,
	scope authz.Scope,
	params ListTenantsParams,
) ([]Tenant, int, error) {
	params.Normalize()

	where, args := scope.WhereColumn("t", "id", 1)
	conditions := []string{where}
	argIdx := len(args) + 1

	if params.Active != nil {
		conditions = append(conditions, fmt.Sprintf("t.is_active = $%d", argIdx))
		args = append(args, *params.Active)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(t.company_name ILIKE $%d OR t.contact_email ILIKE $%d)",
			argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM tenants t WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM tenants t
		WHERE %s
		ORDER BY t.company_name
		LIMIT $%d OFFSET $%d`,
		tenantColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var tenants []Tenant
	if err := r.db.SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}

	return tenants, total, nil
}

func (r *repository) Update(
	ctx context.Context,
	scope authz.Scope,
	t *Tenant,
) error {
	where, args := scope.WhereColumn("", "id", 9)
	query := `
		UPDATE tenants
		SET company_name = $2, address = $3, contact_email = $4,
		    contact_phone = $5, subscription_plan = $6, is_active = $7,
		    subscription_expiry_date = $8, updated_at = NOW()
		WHERE id = $1 AND ` + where + `
		RETURNING updated_at`

	args = append([]any{
		t.ID,
		t.CompanyName,
		t.Address,
		t.ContactEmail,
		t.ContactPhone,
		t.SubscriptionPlan,
		t.IsActive,
		t.SubscriptionExpiryDate,
	}, args...)

	err := r.db.GetContext(ctx, &t.UpdatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKey(err, contactEmailKey) {
			return fmt.Errorf("update tenant: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update tenant: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(
	ctx context.Context,
	scope authz.Scope,
	id string,
) error {
	where, args := scope.WhereColumn("", "id", 2)
	query := `
		UPDATE tenants
		SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND ` + where

	result, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete tenant: %w", core.ErrNotFound)
	}

	return nil
}

// SetUserLimit changes MaxUserAccounts under the same row lock that user
// creation takes, refusing a limit below the live user count.
func (r *repository) SetUserLimit(
	ctx context.Context,
	scope authz.Scope,
	id string,
	limit int,
) (*Tenant, error) {
	var out *Tenant

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked string
		err := tx.GetContext(ctx, &locked, `
			SELECT id FROM tenants
			WHERE id = $1 AND deleted_at IS NULL
			FOR UPDATE`,
			id,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock tenant: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock tenant: %w", err)
		}

		t, err := getTenant(ctx, tx, id)
		if err != nil {
			return err
		}
		if !scope.Allows(t.ID) {
			return fmt.Errorf("set user limit: %w", core.ErrForbidden)
		}

		if limit < t.CurrentUserCount {
			return core.NewValidationError(
				"max_user_accounts",
				fmt.Sprintf(
					"cannot be lower than current user count (%d)",
					t.CurrentUserCount,
				),
			)
		}

		if err := tx.GetContext(ctx, &t.UpdatedAt, `
			UPDATE tenants
			SET max_user_accounts = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			id, limit,
		); err != nil {
			return fmt.Errorf("set user limit: %w", err)
		}

		t.MaxUserAccounts = limit
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.db.GetContext(ctx, &s, `
		SELECT
			COUNT(*) FILTER (WHERE deleted_at IS NULL) AS total_tenants,
			COUNT(*) FILTER (WHERE deleted_at IS NULL AND is_active) AS active_tenants,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS total_users,
			(SELECT COUNT(*) FROM users
			  WHERE deleted_at IS NULL AND role = 'Guard') AS total_guards
		FROM tenants`)
	if err != nil {
		return nil, fmt.Errorf("tenant summary: %w", err)
	}

	return &s, nil
}
