// AngelaMos | 2026
// dto.go

package incident

import (
	"time"
)

type MediaRequest struct {
	MediaType        string     `json:"media_type"        validate:"required,oneof=Photo Audio Video"`
	FileName         string     `json:"file_name"         validate:"required,max=255"`
	FilePath         string     `json:"file_path"         validate:"required,max=1000"`
	FileSize         int64      `json:"file_size"         validate:"gte=0"`
	MimeType         *string    `json:"mime_type"         validate:"omitempty,max=100"`
	DurationSeconds  *int       `json:"duration_seconds"  validate:"omitempty,gte=0"`
	Description      *string    `json:"description"       validate:"omitempty,max=2000"`
	CapturedAt       *time.Time `json:"captured_at"`
	CaptureLatitude  *float64   `json:"capture_latitude"  validate:"omitempty,latitude"`
	CaptureLongitude *float64   `json:"capture_longitude" validate:"omitempty,longitude"`
}

type CreateRequest struct {
	SiteID                     *string        `json:"site_id"                      validate:"omitempty,uuid"`
	Title                      string         `json:"title"                        validate:"max=200"`
	Description                string         `json:"description"                  validate:"required,max=10000"`
	Type                       string         `json:"incident_type"                validate:"required,oneof=Security Safety Maintenance Medical Other"`
	Severity                   string         `json:"severity"                     validate:"omitempty,oneof=Low Medium High Critical"`
	IncidentDateTime           *time.Time     `json:"incident_date_time"`
	Latitude                   *float64       `json:"latitude"                     validate:"required,latitude"`
	Longitude                  *float64       `json:"longitude"                    validate:"required,longitude"`
	ActionsTaken               *string        `json:"actions_taken"                validate:"omitempty,max=5000"`
	EmergencyServicesContacted bool           `json:"emergency_services_contacted"`
	EmergencyServiceDetails    *string        `json:"emergency_service_details"    validate:"omitempty,max=2000"`
	Media                      []MediaRequest `json:"media"                        validate:"max=20,dive"`
}

type UpdateStatusRequest struct {
	Status           string  `json:"status"             validate:"required,oneof=Open InProgress Resolved Closed"`
	ActionsTaken     *string `json:"actions_taken"      validate:"omitempty,max=5000"`
	FollowUpRequired *bool   `json:"follow_up_required"`
	FollowUpNotes    *string `json:"follow_up_notes"    validate:"omitempty,max=5000"`
}

type MediaResponse struct {
	ID              string     `json:"id"`
	MediaType       string     `json:"media_type"`
	FileName        string     `json:"file_name"`
	FilePath        string     `json:"file_path"`
	FileSize        int64      `json:"file_size"`
	MimeType        *string    `json:"mime_type,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	Description     *string    `json:"description,omitempty"`
	CapturedAt      *time.Time `json:"captured_at,omitempty"`
}

type ReportResponse struct {
	ID                         string          `json:"id"`
	TenantID                   string          `json:"tenant_id"`
	GuardID                    string          `json:"guard_id"`
	GuardName                  string          `json:"guard_name,omitempty"`
	SiteID                     string          `json:"site_id"`
	SiteName                   string          `json:"site_name,omitempty"`
	ShiftID                    *string         `json:"shift_id,omitempty"`
	Title                      string          `json:"title"`
	Description                string          `json:"description"`
	IncidentType               string          `json:"incident_type"`
	Severity                   string          `json:"severity"`
	IncidentDateTime           time.Time       `json:"incident_date_time"`
	Latitude                   float64         `json:"latitude"`
	Longitude                  float64         `json:"longitude"`
	Status                     string          `json:"status"`
	ActionsTaken               *string         `json:"actions_taken,omitempty"`
	EmergencyServicesContacted bool            `json:"emergency_services_contacted"`
	EmergencyServiceDetails    *string         `json:"emergency_service_details,omitempty"`
	FollowUpRequired           bool            `json:"follow_up_required"`
	FollowUpNotes              *string         `json:"follow_up_notes,omitempty"`
	Media                      []MediaResponse `json:"media"`
	CreatedAt                  time.Time       `json:"created_at"`
}

func ToReportResponse(r *Report) ReportResponse {
	media := make([]MediaResponse, 0, len(r.Media))
	for _, m := range r.Media {
		media = append(media, MediaResponse{
			ID:              m.ID,
			MediaType:       string(m.Type),
			FileName:        m.FileName,
			FilePath:        m.FilePath,
			FileSize:        m.FileSize,
			MimeType:        m.MimeType,
			DurationSeconds: m.DurationSeconds,
			Description:     m.Description,
			CapturedAt:      m.CapturedAt,
		})
	}

	return ReportResponse{
		ID:                         r.ID,
		TenantID:                   r.TenantID,
		GuardID:                    r.GuardID,
		GuardName:                  r.GuardName,
		SiteID:                     r.SiteID,
		SiteName:                   r.SiteName,
		ShiftID:                    r.ShiftID,
		Title:                      r.Title,
		Description:                r.Description,
		IncidentType:               string(r.Type),
		Severity:                   string(r.Severity),
		IncidentDateTime:           r.IncidentDateTime,
		Latitude:                   r.Latitude,
		Longitude:                  r.Longitude,
		Status:                     string(r.Status),
		ActionsTaken:               r.ActionsTaken,
		EmergencyServicesContacted: r.EmergencyServicesContacted,
		EmergencyServiceDetails:    r.EmergencyServiceDetails,
		FollowUpRequired:           r.FollowUpRequired,
		FollowUpNotes:              r.FollowUpNotes,
		Media:                      media,
		CreatedAt:                  r.CreatedAt,
	}
}
