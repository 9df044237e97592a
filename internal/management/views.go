// AngelaMos | 2026
// views.go

package management

import (
	"time"
)

const (
	ActivityCheckIn  = "CheckIn"
	ActivityIncident = "Incident"

	recentCheckIns  = 10
	recentIncidents = 5
	recentTotal     = 15
)

type GuardInfo struct {
	ID                 string     `db:"id"                   json:"id"`
	TenantID           string     `db:"tenant_id"            json:"tenant_id"`
	Name               string     `db:"name"                 json:"name"`
	Email              string     `db:"email"                json:"email"`
	EmployeeID         *string    `db:"employee_id"          json:"employee_id,omitempty"`
	PhoneNumber        *string    `db:"phone_number"         json:"phone_number,omitempty"`
	IsActive           bool       `db:"is_active"            json:"is_active"`
	OnDuty             bool       `db:"on_duty"              json:"on_duty"`
	LastKnownLatitude  *float64   `db:"last_known_latitude"  json:"last_known_latitude,omitempty"`
	LastKnownLongitude *float64   `db:"last_known_longitude" json:"last_known_longitude,omitempty"`
	LastLocationUpdate *time.Time `db:"last_location_update" json:"last_location_update,omitempty"`
	CreatedAt          time.Time  `db:"created_at"           json:"created_at"`
}

type PatrolRecord struct {
	ID               string    `db:"id"                 json:"id"`
	GuardID          string    `db:"guard_id"           json:"guard_id"`
	GuardName        string    `db:"guard_name"         json:"guard_name"`
	Timestamp        time.Time `db:"check_in_time"      json:"timestamp"`
	Location         string    `db:"location"           json:"location"`
	CheckpointName   *string   `db:"checkpoint_name"    json:"checkpoint_name,omitempty"`
	Latitude         float64   `db:"latitude"           json:"latitude"`
	Longitude        float64   `db:"longitude"          json:"longitude"`
	Notes            string    `db:"notes"              json:"notes"`
	IsWithinGeofence bool      `db:"is_within_geofence" json:"is_within_geofence"`
}

type IncidentRecord struct {
	ID          string    `db:"id"            json:"id"`
	GuardID     string    `db:"guard_id"      json:"guard_id"`
	GuardName   string    `db:"guard_name"    json:"guard_name"`
	Timestamp   time.Time `db:"created_at"    json:"timestamp"`
	Location    string    `db:"location"      json:"location"`
	Latitude    float64   `db:"latitude"      json:"latitude"`
	Longitude   float64   `db:"longitude"     json:"longitude"`
	Type        string    `db:"incident_type" json:"type"`
	Severity    string    `db:"severity"      json:"severity"`
	Title       string    `db:"title"         json:"title"`
	Description string    `db:"description"   json:"description"`
	Status      string    `db:"status"        json:"status"`
	MediaCount  int       `db:"media_count"   json:"media_count"`
}

type Stats struct {
	TotalGuards      int `db:"total_guards"      json:"total_guards"`
	OnDutyGuards     int `db:"on_duty_guards"    json:"on_duty_guards"`
	TodayPatrols     int `db:"today_patrols"     json:"today_patrols"`
	TodayIncidents   int `db:"today_incidents"   json:"today_incidents"`
	PendingIncidents int `db:"pending_incidents" json:"pending_incidents"`
}

// DashboardStats is the role-dependent summary. For a guard the shift,
// check-in and incident figures are their own; TotalGuards is omitted.
type DashboardStats struct {
	ActiveShifts     int  `db:"active_shifts"     json:"active_shifts"`
	TodayCheckIns    int  `db:"today_check_ins"   json:"today_check_ins"`
	PendingIncidents int  `db:"pending_incidents" json:"pending_incidents"`
	TotalSites       int  `db:"total_sites"       json:"total_sites"`
	TotalGuards      *int `db:"total_guards"      json:"total_guards,omitempty"`
}

type Activity struct {
	ID          string    `db:"id"          json:"id"`
	Type        string    `db:"type"        json:"type"`
	Description string    `db:"description" json:"description"`
	Timestamp   time.Time `db:"timestamp"   json:"timestamp"`
	UserName    string    `db:"user_name"   json:"user_name"`
}
