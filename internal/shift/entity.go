// AngelaMos | 2026
// entity.go

package shift

import (
	"time"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "NoShow"
)

// DefaultLength is the scheduled length of an ad-hoc shift started by a
// guard without a roster entry.
const DefaultLength = 8 * time.Hour

// Shift is a guard's duty period at a site. A shift with no actual end
// time is the guard's active shift; at most one exists per guard.
type Shift struct {
	ID                   string     `db:"id"`
	TenantID             string     `db:"tenant_id"`
	GuardID              string     `db:"guard_id"`
	SiteID               string     `db:"site_id"`
	SiteName             string     `db:"site_name"`
	ScheduledStartTime   time.Time  `db:"scheduled_start_time"`
	ScheduledEndTime     time.Time  `db:"scheduled_end_time"`
	ActualStartTime      *time.Time `db:"actual_start_time"`
	ActualEndTime        *time.Time `db:"actual_end_time"`
	Status               Status     `db:"status"`
	Notes                *string    `db:"notes"`
	BreakDurationMinutes int        `db:"break_duration_minutes"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
	DeletedAt            *time.Time `db:"deleted_at"`
}

func (s *Shift) IsActive() bool {
	return s.ActualEndTime == nil && s.DeletedAt == nil
}

// StartedAt is the actual start, falling back to the scheduled one.
func (s *Shift) StartedAt() time.Time {
	if s.ActualStartTime != nil {
		return *s.ActualStartTime
	}
	return s.ScheduledStartTime
}

const shiftColumns = `
	id, tenant_id, guard_id, site_id, scheduled_start_time,
	scheduled_end_time, actual_start_time, actual_end_time, status, notes,
	break_duration_minutes, created_at, updated_at, deleted_at`

const siteNameColumn = `
	(SELECT name FROM sites WHERE sites.id = shifts.site_id) AS site_name`
