// AngelaMos | 2026
// dto.go

package shift

import (
	"time"
)

type StartRequest struct {
	SiteID string  `json:"site_id" validate:"required,uuid"`
	Notes  *string `json:"notes"   validate:"omitempty,max=2000"`
}

type EndRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

type ShiftResponse struct {
	ID                 string     `json:"id"`
	GuardID            string     `json:"guard_id"`
	SiteID             string     `json:"site_id"`
	SiteName           string     `json:"site_name,omitempty"`
	Status             string     `json:"status"`
	ScheduledStartTime time.Time  `json:"scheduled_start_time"`
	ScheduledEndTime   time.Time  `json:"scheduled_end_time"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

type CurrentShiftResponse struct {
	IsOnDuty bool           `json:"is_on_duty"`
	Shift    *ShiftResponse `json:"shift,omitempty"`
}

func ToShiftResponse(s *Shift) ShiftResponse {
	return ShiftResponse{
		ID:                 s.ID,
		GuardID:            s.GuardID,
		SiteID:             s.SiteID,
		SiteName:           s.SiteName,
		Status:             string(s.Status),
		ScheduledStartTime: s.ScheduledStartTime,
		ScheduledEndTime:   s.ScheduledEndTime,
		StartTime:          s.StartedAt(),
		EndTime:            s.ActualEndTime,
		Notes:              s.Notes,
	}
}

func ToCurrentShiftResponse(s *Shift) CurrentShiftResponse {
	if s == nil {
		return CurrentShiftResponse{IsOnDuty: false}
	}
	resp := ToShiftResponse(s)
	return CurrentShiftResponse{IsOnDuty: true, Shift: &resp}
}
