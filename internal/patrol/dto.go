// AngelaMos | 2026
// dto.go

package patrol

import (
	"time"
)

type CheckInRequest struct {
	CheckpointCode *string  `json:"checkpoint_code" validate:"omitempty,min=1,max=100"`
	Latitude       *float64 `json:"latitude"        validate:"required,latitude"`
	Longitude      *float64 `json:"longitude"       validate:"required,longitude"`
	Accuracy       *float64 `json:"accuracy"        validate:"omitempty,gte=0"`
	Notes          *string  `json:"notes"           validate:"omitempty,max=2000"`
}

type LocationRequest struct {
	Latitude     *float64 `json:"latitude"      validate:"required,latitude"`
	Longitude    *float64 `json:"longitude"     validate:"required,longitude"`
	Accuracy     *float64 `json:"accuracy"      validate:"omitempty,gte=0"`
	Speed        *float64 `json:"speed"         validate:"omitempty,gte=0"`
	BatteryLevel *float64 `json:"battery_level" validate:"omitempty,gte=0,lte=100"`
}

type CheckInResponse struct {
	ID               string    `json:"id"`
	ShiftID          string    `json:"shift_id"`
	CheckpointID     *string   `json:"checkpoint_id,omitempty"`
	CheckInTime      time.Time `json:"check_in_time"`
	Type             string    `json:"check_in_type"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	IsWithinGeofence bool      `json:"is_within_geofence"`
	Message          string    `json:"message"`
}

type LocationResponse struct {
	ID                   string    `json:"id"`
	Timestamp            time.Time `json:"timestamp"`
	IsWithinSiteGeofence bool      `json:"is_within_site_geofence"`
}

type HistoryResponse struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Location         string    `json:"location"`
	CheckpointName   *string   `json:"checkpoint_name,omitempty"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Notes            string    `json:"notes"`
	IsWithinGeofence bool      `json:"is_within_geofence"`
	Status           string    `json:"status"`
}

func ToCheckInResponse(c *CheckIn) CheckInResponse {
	msg := "check-in recorded"
	if !c.IsWithinGeofence {
		msg = "check-in recorded outside the site geofence"
	}

	return CheckInResponse{
		ID:               c.ID,
		ShiftID:          c.ShiftID,
		CheckpointID:     c.CheckpointID,
		CheckInTime:      c.CheckInTime,
		Type:             string(c.Type),
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		IsWithinGeofence: c.IsWithinGeofence,
		Message:          msg,
	}
}

func ToHistoryResponseList(entries []HistoryEntry) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			ID:               e.ID,
			Timestamp:        e.Timestamp,
			Location:         e.Location,
			CheckpointName:   e.CheckpointName,
			Latitude:         e.Latitude,
			Longitude:        e.Longitude,
			Notes:            e.Notes,
			IsWithinGeofence: e.IsWithinGeofence,
			Status:           "Completed",
		})
	}
	return out
}
