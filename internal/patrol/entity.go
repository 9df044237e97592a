// AngelaMos | 2026
// entity.go

package patrol

import (
	"time"
)

type CheckInType string

const (
	CheckInQR     CheckInType = "QR"
	CheckInNFC    CheckInType = "NFC"
	CheckInManual CheckInType = "Manual"
	CheckInGPS    CheckInType = "GPS"
)

const (
	DefaultHistoryDays = 7
	MaxHistoryDays     = 90
)

type CheckIn struct {
	ID               string      `db:"id"`
	TenantID         string      `db:"tenant_id"`
	GuardID          string      `db:"guard_id"`
	ShiftID          string      `db:"shift_id"`
	CheckpointID     *string     `db:"checkpoint_id"`
	CheckInTime      time.Time   `db:"check_in_time"`
	Type             CheckInType `db:"check_in_type"`
	Latitude         float64     `db:"latitude"`
	Longitude        float64     `db:"longitude"`
	Accuracy         *float64    `db:"accuracy"`
	Notes            *string     `db:"notes"`
	IsWithinGeofence bool        `db:"is_within_geofence"`
	CreatedAt        time.Time   `db:"created_at"`
}

type LocationLog struct {
	ID                   string    `db:"id"`
	TenantID             string    `db:"tenant_id"`
	GuardID              string    `db:"guard_id"`
	ShiftID              string    `db:"shift_id"`
	Timestamp            time.Time `db:"timestamp"`
	Latitude             float64   `db:"latitude"`
	Longitude            float64   `db:"longitude"`
	Accuracy             *float64  `db:"accuracy"`
	Speed                *float64  `db:"speed"`
	BatteryLevel         *float64  `db:"battery_level"`
	IsWithinSiteGeofence bool      `db:"is_within_site_geofence"`
}

// HistoryEntry is one check-in as shown in a guard's patrol history.
type HistoryEntry struct {
	ID               string    `db:"id"`
	Timestamp        time.Time `db:"check_in_time"`
	Location         string    `db:"location"`
	CheckpointName   *string   `db:"checkpoint_name"`
	Latitude         float64   `db:"latitude"`
	Longitude        float64   `db:"longitude"`
	Notes            string    `db:"notes"`
	IsWithinGeofence bool      `db:"is_within_geofence"`
}
