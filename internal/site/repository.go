// AngelaMos | 2026
// repository.go

package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Repository interface {
	CreateSite(ctx context.Context, s *Site) error
	GetSite(ctx context.Context, scope authz.Scope, id string) (*Site, error)
	ListSites(ctx context.Context, scope authz.Scope, activeOnly bool) ([]Site, error)
	CreateCheckpoint(ctx context.Context, c *Checkpoint) error
	ListCheckpoints(ctx context.Context, scope authz.Scope, siteID string) ([]Checkpoint, error)
	GetCheckpointByCode(ctx context.Context, scope authz.Scope, code string) (*Checkpoint, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSite(ctx context.Context, s *Site) error {
	query := `
		INSERT INTO sites (
			id, tenant_id, name, address, description, latitude, longitude,
			geofence_radius, client_contact_name, client_contact_email,
			client_contact_phone, special_instructions, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.TenantID,
		s.Name,
		s.Address,
		s.Description,
		s.Latitude,
		s.Longitude,
		s.GeofenceRadius,
		s.ClientContactName,
		s.ClientContactEmail,
		s.ClientContactPhone,
		s.SpecialInstructions,
		s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create site: %w", core.ErrTenantNotFound)
		}
		return fmt.Errorf("create site: %w", err)
	}

	return nil
}

// GetSite loads a live site; absent is ErrNotFound, outside scope is
// ErrForbidden.
func (r *repository) GetSite(
	ctx context.Context,
	scope authz.Scope,
	id string,
) (*Site, error) {
	query := `SELECT ` + siteColumns + `
		FROM sites
		WHERE id = $1 AND deleted_at IS NULL`

	var s Site
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get site: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get site: %w", err)
	}

	if !scope.Allows(s.TenantID) {
		return nil, fmt.Errorf("get site: %w", core.ErrForbidden)
	}

	return &s, nil
}

func (r *repository) ListSites(
	ctx context.Context,
	scope authz.Scope,
	activeOnly bool,
) ([]Site, error) {
	where, args := scope.Where("", 1)
	if activeOnly {
		where += " AND is_active"
	}

	query := `SELECT ` + siteColumns + `
		FROM sites
		WHERE ` + where + `
		ORDER BY name`

	sites := []Site{}
	if err := r.db.SelectContext(ctx, &sites, query, args...); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}

	return sites, nil
}

func (r *repository) CreateCheckpoint(ctx context.Context, c *Checkpoint) error {
	query := `
		INSERT INTO checkpoints (
			id, tenant_id, site_id, name, description, latitude, longitude,
			checkpoint_code, checkpoint_type, expected_interval_minutes,
			is_mandatory, instructions, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.TenantID,
		c.SiteID,
		c.Name,
		c.Description,
		c.Latitude,
		c.Longitude,
		c.Code,
		c.Type,
		c.ExpectedIntervalMinutes,
		c.IsMandatory,
		c.Instructions,
		c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKey(err, "checkpoints_code_key") {
			return fmt.Errorf("create checkpoint: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create checkpoint: %w", err)
	}

	return nil
}

func (r *repository) ListCheckpoints(
	ctx context.Context,
	scope authz.Scope,
	siteID string,
) ([]Checkpoint, error) {
	where, args := scope.Where("", 2)
	query := `SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE site_id = $1 AND ` + where + `
		ORDER BY name`

	checkpoints := []Checkpoint{}
	err := r.db.SelectContext(ctx, &checkpoints, query, append([]any{siteID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}

	return checkpoints, nil
}

// GetCheckpointByCode resolves a scanned code among active checkpoints
// visible in scope. A code belonging to another tenant is ErrNotFound.
func (r *repository) GetCheckpointByCode(
	ctx context.Context,
	scope authz.Scope,
	code string,
) (*Checkpoint, error) {
	where, args := scope.Where("", 2)
	query := `SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE checkpoint_code = $1 AND is_active AND ` + where

	var c Checkpoint
	err := r.db.GetContext(ctx, &c, query, append([]any{code}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get checkpoint: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get checkpoint: %w", err)
	}

	return &c, nil
}
