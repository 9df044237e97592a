// AngelaMos | 2026
// repository.go

package management

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/authz"
)

// Repository serves read-only aggregates across the operational tables.
// Every query is rendered through the caller's Scope.
type Repository interface {
	Guards(ctx context.Context, scope authz.Scope) ([]GuardInfo, error)
	Patrols(ctx context.Context, scope authz.Scope, from, to time.Time) ([]PatrolRecord, error)
	Incidents(ctx context.Context, scope authz.Scope, from, to time.Time) ([]IncidentRecord, error)
	Stats(ctx context.Context, scope authz.Scope, from, to time.Time) (*Stats, error)
	DashboardStats(
		ctx context.Context,
		scope authz.Scope,
		guardID string,
		from, to time.Time,
	) (*DashboardStats, error)
	RecentCheckIns(ctx context.Context, scope authz.Scope, limit int) ([]Activity, error)
	RecentIncidents(ctx context.Context, scope authz.Scope, limit int) ([]Activity, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const guardName = `COALESCE(u.first_name || ' ' || u.last_name, '')`

func (r *repository) Guards(ctx context.Context, scope authz.Scope) ([]GuardInfo, error) {
	where, args := scope.Where("u", 1)
	query := `
		SELECT u.id, u.tenant_id, ` + guardName + ` AS name, u.email,
			u.employee_id, u.phone_number, u.is_active,
			EXISTS (
				SELECT 1 FROM shifts sh
				WHERE sh.guard_id = u.id
				  AND sh.actual_end_time IS NULL
				  AND sh.deleted_at IS NULL
			) AS on_duty,
			u.last_known_latitude, u.last_known_longitude,
			u.last_location_update, u.created_at
		FROM users u
		WHERE u.role = 'Guard' AND ` + where + `
		ORDER BY u.last_name, u.first_name`

	guards := []GuardInfo{}
	if err := r.db.SelectContext(ctx, &guards, query, args...); err != nil {
		return nil, fmt.Errorf("list guards: %w", err)
	}

	return guards, nil
}

func (r *repository) Patrols(
	ctx context.Context,
	scope authz.Scope,
	from, to time.Time,
) ([]PatrolRecord, error) {
	where, args := scope.Where("c", 3)
	query := `
		SELECT c.id, c.guard_id, ` + guardName + ` AS guard_name,
			c.check_in_time,
			COALESCE(st.name, 'Unknown Location') AS location,
			cp.name AS checkpoint_name,
			c.latitude, c.longitude,
			COALESCE(c.notes, '') AS notes,
			c.is_within_geofence
		FROM check_ins c
		LEFT JOIN users u ON u.id = c.guard_id
		LEFT JOIN shifts sh ON sh.id = c.shift_id
		LEFT JOIN sites st ON st.id = sh.site_id
		LEFT JOIN checkpoints cp ON cp.id = c.checkpoint_id
		WHERE c.check_in_time >= $1 AND c.check_in_time < $2 AND ` + where + `
		ORDER BY c.check_in_time DESC`

	patrols := []PatrolRecord{}
	err := r.db.SelectContext(ctx, &patrols, query, append([]any{from, to}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list patrols: %w", err)
	}

	return patrols, nil
}

func (r *repository) Incidents(
	ctx context.Context,
	scope authz.Scope,
	from, to time.Time,
) ([]IncidentRecord, error) {
	where, args := scope.Where("i", 3)
	query := `
		SELECT i.id, i.guard_id, ` + guardName + ` AS guard_name,
			i.created_at,
			COALESCE(st.name, 'Unknown Location') AS location,
			i.latitude, i.longitude, i.incident_type, i.severity, i.title,
			i.description, i.status,
			(SELECT COUNT(*) FROM incident_media m
			 WHERE m.incident_report_id = i.id AND m.deleted_at IS NULL) AS media_count
		FROM incident_reports i
		LEFT JOIN users u ON u.id = i.guard_id
		LEFT JOIN sites st ON st.id = i.site_id
		WHERE i.created_at >= $1 AND i.created_at < $2 AND ` + where + `
		ORDER BY i.created_at DESC`

	incidents := []IncidentRecord{}
	err := r.db.SelectContext(ctx, &incidents, query, append([]any{from, to}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	return incidents, nil
}

// Stats counts guards, open shifts, check-ins and incidents. Every
// subquery shares the scope placeholder at $3.
func (r *repository) Stats(
	ctx context.Context,
	scope authz.Scope,
	from, to time.Time,
) (*Stats, error) {
	where, args := scope.Where("", 3)
	query := `
		SELECT
			(SELECT COUNT(*) FROM users
			 WHERE role = 'Guard' AND ` + where + `) AS total_guards,
			(SELECT COUNT(*) FROM shifts
			 WHERE actual_end_time IS NULL AND ` + where + `) AS on_duty_guards,
			(SELECT COUNT(*) FROM check_ins
			 WHERE check_in_time >= $1 AND check_in_time < $2
			   AND ` + where + `) AS today_patrols,
			(SELECT COUNT(*) FROM incident_reports
			 WHERE created_at >= $1 AND created_at < $2
			   AND ` + where + `) AS today_incidents,
			(SELECT COUNT(*) FROM incident_reports
			 WHERE status IN ('Open', 'InProgress')
			   AND ` + where + `) AS pending_incidents`

	var s Stats
	err := r.db.GetContext(ctx, &s, query, append([]any{from, to}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("management stats: %w", err)
	}

	return &s, nil
}

// DashboardStats narrows the shift, check-in and incident counts to one
// guard when guardID is set.
func (r *repository) DashboardStats(
	ctx context.Context,
	scope authz.Scope,
	guardID string,
	from, to time.Time,
) (*DashboardStats, error) {
	where, args := scope.Where("", 3)
	args = append([]any{from, to}, args...)

	guardFilter := ""
	if guardID != "" {
		args = append(args, guardID)
		guardFilter = fmt.Sprintf(" AND guard_id = $%d", len(args))
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM shifts
			 WHERE actual_end_time IS NULL AND ` + where + guardFilter + `) AS active_shifts,
			(SELECT COUNT(*) FROM check_ins
			 WHERE check_in_time >= $1 AND check_in_time < $2
			   AND ` + where + guardFilter + `) AS today_check_ins,
			(SELECT COUNT(*) FROM incident_reports
			 WHERE status IN ('Open', 'InProgress')
			   AND ` + where + guardFilter + `) AS pending_incidents,
			(SELECT COUNT(*) FROM sites
			 WHERE ` + where + `) AS total_sites,
			(SELECT COUNT(*) FROM users
			 WHERE role = 'Guard' AND ` + where + `) AS total_guards`

	var s DashboardStats
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return &s, nil
}

func (r *repository) RecentCheckIns(
	ctx context.Context,
	scope authz.Scope,
	limit int,
) ([]Activity, error) {
	where, args := scope.Where("c", 2)
	query := `
		SELECT c.id, 'CheckIn' AS type,
			` + guardName + ` || ' checked in at ' ||
				COALESCE(st.name, 'Unknown Location') AS description,
			c.check_in_time AS timestamp,
			` + guardName + ` AS user_name
		FROM check_ins c
		LEFT JOIN users u ON u.id = c.guard_id
		LEFT JOIN shifts sh ON sh.id = c.shift_id
		LEFT JOIN sites st ON st.id = sh.site_id
		WHERE ` + where + `
		ORDER BY c.check_in_time DESC
		LIMIT $1`

	out := []Activity{}
	err := r.db.SelectContext(ctx, &out, query, append([]any{limit}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("recent check-ins: %w", err)
	}

	return out, nil
}

func (r *repository) RecentIncidents(
	ctx context.Context,
	scope authz.Scope,
	limit int,
) ([]Activity, error) {
	where, args := scope.Where("i", 2)
	query := `
		SELECT i.id, 'Incident' AS type,
			'Incident reported: ' || i.title AS description,
			i.incident_date_time AS timestamp,
			` + guardName + ` AS user_name
		FROM incident_reports i
		LEFT JOIN users u ON u.id = i.guard_id
		WHERE ` + where + `
		ORDER BY i.incident_date_time DESC
		LIMIT $1`

	out := []Activity{}
	err := r.db.SelectContext(ctx, &out, query, append([]any{limit}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("recent incidents: %w", err)
	}

	return out, nil
}
