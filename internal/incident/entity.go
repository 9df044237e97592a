// AngelaMos | 2026
// entity.go

package incident

import (
	"time"
)

type Type string

const (
	TypeSecurity    Type = "Security"
	TypeSafety      Type = "Safety"
	TypeMaintenance Type = "Maintenance"
	TypeMedical     Type = "Medical"
	TypeOther       Type = "Other"
)

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

var statusRank = map[Status]int{
	StatusOpen:       0,
	StatusInProgress: 1,
	StatusResolved:   2,
	StatusClosed:     3,
}

// CanTransition reports whether a report may move from one status to
// another. The lifecycle only moves forward and Closed is terminal.
func CanTransition(from, to Status) bool {
	f, okFrom := statusRank[from]
	t, okTo := statusRank[to]
	return okFrom && okTo && t > f
}

// IsPending reports whether the incident still needs attention.
func (s Status) IsPending() bool {
	return s == StatusOpen || s == StatusInProgress
}

type MediaType string

const (
	MediaPhoto MediaType = "Photo"
	MediaAudio MediaType = "Audio"
	MediaVideo MediaType = "Video"
)

type Report struct {
	ID                         string     `db:"id"`
	TenantID                   string     `db:"tenant_id"`
	GuardID                    string     `db:"guard_id"`
	GuardName                  string     `db:"guard_name"`
	SiteID                     string     `db:"site_id"`
	SiteName                   string     `db:"site_name"`
	ShiftID                    *string    `db:"shift_id"`
	Title                      string     `db:"title"`
	Description                string     `db:"description"`
	Type                       Type       `db:"incident_type"`
	Severity                   Severity   `db:"severity"`
	IncidentDateTime           time.Time  `db:"incident_date_time"`
	Latitude                   float64    `db:"latitude"`
	Longitude                  float64    `db:"longitude"`
	Status                     Status     `db:"status"`
	ActionsTaken               *string    `db:"actions_taken"`
	EmergencyServicesContacted bool       `db:"emergency_services_contacted"`
	EmergencyServiceDetails    *string    `db:"emergency_service_details"`
	FollowUpRequired           bool       `db:"follow_up_required"`
	FollowUpNotes              *string    `db:"follow_up_notes"`
	CreatedAt                  time.Time  `db:"created_at"`
	UpdatedAt                  time.Time  `db:"updated_at"`
	DeletedAt                  *time.Time `db:"deleted_at"`

	Media []Media `db:"-"`
}

// Media is a reference to an uploaded file. The bytes live in external
// storage; only the path and metadata are kept here.
type Media struct {
	ID               string     `db:"id"`
	TenantID         string     `db:"tenant_id"`
	IncidentReportID string     `db:"incident_report_id"`
	Type             MediaType  `db:"media_type"`
	FileName         string     `db:"file_name"`
	FilePath         string     `db:"file_path"`
	FileSize         int64      `db:"file_size"`
	MimeType         *string    `db:"mime_type"`
	DurationSeconds  *int       `db:"duration_seconds"`
	Description      *string    `db:"description"`
	CapturedAt       *time.Time `db:"captured_at"`
	CaptureLatitude  *float64   `db:"capture_latitude"`
	CaptureLongitude *float64   `db:"capture_longitude"`
	CreatedAt        time.Time  `db:"created_at"`
}

const reportColumns = `
	r.id, r.tenant_id, r.guard_id,
	COALESCE(u.first_name || ' ' || u.last_name, '') AS guard_name,
	r.site_id, COALESCE(s.name, '') AS site_name, r.shift_id, r.title,
	r.description, r.incident_type, r.severity, r.incident_date_time,
	r.latitude, r.longitude, r.status, r.actions_taken,
	r.emergency_services_contacted, r.emergency_service_details,
	r.follow_up_required, r.follow_up_notes, r.created_at, r.updated_at,
	r.deleted_at`

const reportJoins = `
	FROM incident_reports r
	LEFT JOIN users u ON u.id = r.guard_id
	LEFT JOIN sites s ON s.id = r.site_id`

const mediaColumns = `
	id, tenant_id, incident_report_id, media_type, file_name, file_path,
	file_size, mime_type, duration_seconds, description, captured_at,
	capture_latitude, capture_longitude, created_at`
