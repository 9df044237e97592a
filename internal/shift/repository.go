// AngelaMos | 2026
// repository.go

package shift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Repository interface {
	Start(ctx context.Context, s *Shift) error
	Active(ctx context.Context, scope authz.Scope, guardID string) (*Shift, error)
	End(
		ctx context.Context,
		scope authz.Scope,
		guardID string,
		at time.Time,
		notes *string,
	) (*Shift, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Start inserts an active shift. The partial unique index on
// (guard_id) WHERE actual_end_time IS NULL makes two concurrent starts
// for the same guard resolve to exactly one row.
func (r *repository) Start(ctx context.Context, s *Shift) error {
	query := `
		INSERT INTO shifts (
			id, tenant_id, guard_id, site_id, scheduled_start_time,
			scheduled_end_time, actual_start_time, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.TenantID,
		s.GuardID,
		s.SiteID,
		s.ScheduledStartTime,
		s.ScheduledEndTime,
		s.ActualStartTime,
		s.Status,
		s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKey(err, "shifts_one_active_per_guard") {
			return fmt.Errorf("start shift: %w", core.ErrActiveShiftExists)
		}
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("start shift: %w", core.ErrNotFound)
		}
		return fmt.Errorf("start shift: %w", err)
	}

	return nil
}

func (r *repository) Active(
	ctx context.Context,
	scope authz.Scope,
	guardID string,
) (*Shift, error) {
	where, args := scope.Where("", 2)
	query := `SELECT ` + shiftColumns + `, ` + siteNameColumn + `
		FROM shifts
		WHERE guard_id = $1 AND actual_end_time IS NULL AND ` + where

	var s Shift
	err := r.db.GetContext(ctx, &s, query, append([]any{guardID}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active shift: %w", core.ErrNoActiveShift)
	}
	if err != nil {
		return nil, fmt.Errorf("active shift: %w", err)
	}

	return &s, nil
}

// End closes the guard's active shift in a single statement, so a
// concurrent end sees either the open row or no row at all.
func (r *repository) End(
	ctx context.Context,
	scope authz.Scope,
	guardID string,
	at time.Time,
	notes *string,
) (*Shift, error) {
	where, args := scope.Where("", 5)
	query := `
		UPDATE shifts
		SET actual_end_time = $2,
			status = $3,
			notes = COALESCE($4, notes),
			updated_at = NOW()
		WHERE guard_id = $1 AND actual_end_time IS NULL AND ` + where + `
		RETURNING ` + shiftColumns + `, ` + siteNameColumn

	var s Shift
	err := r.db.GetContext(ctx, &s, query,
		append([]any{guardID, at, StatusCompleted, notes}, args...)...,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("end shift: %w", core.ErrNoActiveShift)
	}
	if err != nil {
		return nil, fmt.Errorf("end shift: %w", err)
	}

	return &s, nil
}
