// AngelaMos | 2026
// repository.go

package patrol

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

type Repository interface {
	CreateCheckIn(ctx context.Context, c *CheckIn) error
	LogLocation(ctx context.Context, l *LocationLog) error
	History(
		ctx context.Context,
		scope authz.Scope,
		guardID string,
		since time.Time,
	) ([]HistoryEntry, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCheckIn(ctx context.Context, c *CheckIn) error {
	query := `
		INSERT INTO check_ins (
			id, tenant_id, guard_id, shift_id, checkpoint_id, check_in_time,
			check_in_type, latitude, longitude, accuracy, notes,
			is_within_geofence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.TenantID,
		c.GuardID,
		c.ShiftID,
		c.CheckpointID,
		c.CheckInTime,
		c.Type,
		c.Latitude,
		c.Longitude,
		c.Accuracy,
		c.Notes,
		c.IsWithinGeofence,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create check-in: %w", err)
	}

	return nil
}

// LogLocation appends a location log and moves the guard's last known
// position in the same transaction.
func (r *repository) LogLocation(ctx context.Context, l *LocationLog) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO location_logs (
				id, tenant_id, guard_id, shift_id, timestamp, latitude,
				longitude, accuracy, speed, battery_level,
				is_within_site_geofence
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			l.ID,
			l.TenantID,
			l.GuardID,
			l.ShiftID,
			l.Timestamp,
			l.Latitude,
			l.Longitude,
			l.Accuracy,
			l.Speed,
			l.BatteryLevel,
			l.IsWithinSiteGeofence,
		)
		if err != nil {
			return fmt.Errorf("insert location log: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE profiles
			SET last_known_latitude = $2,
			    last_known_longitude = $3,
			    last_location_update = $4,
			    updated_at = NOW()
			WHERE account_id = $1`,
			l.GuardID, l.Latitude, l.Longitude, l.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("update last location: %w", err)
		}

		return nil
	})
}

func (r *repository) History(
	ctx context.Context,
	scope authz.Scope,
	guardID string,
	since time.Time,
) ([]HistoryEntry, error) {
	where, args := scope.Where("c", 3)
	query := `
		SELECT c.id, c.check_in_time,
			COALESCE(st.name, 'Unknown Location') AS location,
			cp.name AS checkpoint_name,
			c.latitude, c.longitude,
			COALESCE(c.notes, '') AS notes,
			c.is_within_geofence
		FROM check_ins c
		JOIN shifts sh ON sh.id = c.shift_id
		LEFT JOIN sites st ON st.id = sh.site_id
		LEFT JOIN checkpoints cp ON cp.id = c.checkpoint_id
		WHERE c.guard_id = $1 AND c.check_in_time >= $2 AND ` + where + `
		ORDER BY c.check_in_time DESC`

	entries := []HistoryEntry{}
	err := r.db.SelectContext(ctx, &entries, query,
		append([]any{guardID, since}, args...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("patrol history: %w", err)
	}

	return entries, nil
}
