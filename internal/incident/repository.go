// AngelaMos | 2026
// repository.go

package incident

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type StatusUpdate struct {
	From             Status
	To               Status
	ActionsTaken     *string
	FollowUpRequired *bool
	FollowUpNotes    *string
}

type Repository interface {
	Create(ctx context.Context, r *Report) error
	Get(ctx context.Context, scope authz.Scope, id string) (*Report, error)
	UpdateStatus(ctx context.Context, scope authz.Scope, id string, u StatusUpdate) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create stores the report and its media references in one transaction.
func (r *repository) Create(ctx context.Context, rep *Report) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO incident_reports (
				id, tenant_id, guard_id, site_id, shift_id, title,
				description, incident_type, severity, incident_date_time,
				latitude, longitude, status, actions_taken,
				emergency_services_contacted, emergency_service_details
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16
			)
			RETURNING created_at, updated_at`,
			rep.ID,
			rep.TenantID,
			rep.GuardID,
			rep.SiteID,
			rep.ShiftID,
			rep.Title,
			rep.Description,
			rep.Type,
			rep.Severity,
			rep.IncidentDateTime,
			rep.Latitude,
			rep.Longitude,
			rep.Status,
			rep.ActionsTaken,
			rep.EmergencyServicesContacted,
			rep.EmergencyServiceDetails,
		).Scan(&rep.CreatedAt, &rep.UpdatedAt)
		if err != nil {
			if core.IsForeignKeyViolation(err) {
				return fmt.Errorf("create incident: %w", core.ErrNotFound)
			}
			return fmt.Errorf("create incident: %w", err)
		}

		for i := range rep.Media {
			if err := insertMedia(ctx, tx, &rep.Media[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertMedia(ctx context.Context, db core.DBTX, m *Media) error {
	err := db.QueryRowxContext(ctx, `
		INSERT INTO incident_media (
			id, tenant_id, incident_report_id, media_type, file_name,
			file_path, file_size, mime_type, duration_seconds, description,
			captured_at, capture_latitude, capture_longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at`,
		m.ID,
		m.TenantID,
		m.IncidentReportID,
		m.Type,
		m.FileName,
		m.FilePath,
		m.FileSize,
		m.MimeType,
		m.DurationSeconds,
		m.Description,
		m.CapturedAt,
		m.CaptureLatitude,
		m.CaptureLongitude,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert incident media: %w", err)
	}
	return nil
}

func (r *repository) Get(
	ctx context.Context,
	scope authz.Scope,
	id string,
) (*Report, error) {
	query := `SELECT ` + reportColumns + reportJoins + `
		WHERE r.id = $1 AND r.deleted_at IS NULL`

	var rep Report
	err := r.db.GetContext(ctx, &rep, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get incident: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}

	if !scope.Allows(rep.TenantID) {
		return nil, fmt.Errorf("get incident: %w", core.ErrForbidden)
	}

	where, args := scope.Where("", 2)
	mediaQuery := `SELECT ` + mediaColumns + `
		FROM incident_media
		WHERE incident_report_id = $1 AND ` + where + `
		ORDER BY created_at`

	rep.Media = []Media{}
	err = r.db.SelectContext(ctx, &rep.Media, mediaQuery, append([]any{id}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("get incident media: %w", err)
	}

	return &rep, nil
}

// UpdateStatus applies a transition only if the report still has u.From,
// so two concurrent transitions cannot both land.
func (r *repository) UpdateStatus(
	ctx context.Context,
	scope authz.Scope,
	id string,
	u StatusUpdate,
) error {
	where, args := scope.Where("", 7)
	query := `
		UPDATE incident_reports
		SET status = $3,
			actions_taken = COALESCE($4, actions_taken),
			follow_up_required = COALESCE($5, follow_up_required),
			follow_up_notes = COALESCE($6, follow_up_notes),
			updated_at = NOW()
		WHERE id = $1 AND status = $2 AND ` + where

	result, err := r.db.ExecContext(ctx, query,
		append([]any{id, u.From, u.To, u.ActionsTaken, u.FollowUpRequired, u.FollowUpNotes}, args...)...,
	)
	if err != nil {
		return fmt.Errorf("update incident status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update incident status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update incident status: %w", core.ErrInvalidTransition)
	}

	return nil
}
