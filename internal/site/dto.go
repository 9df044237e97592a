// AngelaMos | 2026
// dto.go

package site

import (
	"time"
)

type CreateSiteRequest struct {
	TenantID            *string  `json:"tenant_id"            validate:"omitempty,uuid"`
	Name                string   `json:"name"                 validate:"required,min=1,max=200"`
	Address             string   `json:"address"              validate:"max=500"`
	Description         *string  `json:"description"          validate:"omitempty,max=2000"`
	Latitude            *float64 `json:"latitude"             validate:"required,latitude"`
	Longitude           *float64 `json:"longitude"            validate:"required,longitude"`
	GeofenceRadius      *float64 `json:"geofence_radius"      validate:"omitempty,gt=0,max=100000"`
	ClientContactName   *string  `json:"client_contact_name"  validate:"omitempty,max=200"`
	ClientContactEmail  *string  `json:"client_contact_email" validate:"omitempty,email,max=255"`
	ClientContactPhone  *string  `json:"client_contact_phone" validate:"omitempty,max=50"`
	SpecialInstructions *string  `json:"special_instructions" validate:"omitempty,max=2000"`
}

type CreateCheckpointRequest struct {
	Name                    string   `json:"name"                      validate:"required,min=1,max=200"`
	Description             *string  `json:"description"               validate:"omitempty,max=2000"`
	Latitude                *float64 `json:"latitude"                  validate:"required,latitude"`
	Longitude               *float64 `json:"longitude"                 validate:"required,longitude"`
	Code                    string   `json:"checkpoint_code"           validate:"required,min=1,max=100"`
	Type                    string   `json:"checkpoint_type"           validate:"omitempty,oneof=QR NFC Manual"`
	ExpectedIntervalMinutes *int     `json:"expected_interval_minutes" validate:"omitempty,min=1,max=1440"`
	IsMandatory             *bool    `json:"is_mandatory"`
	Instructions            *string  `json:"instructions"              validate:"omitempty,max=2000"`
}

type SiteResponse struct {
	ID                  string    `json:"id"`
	TenantID            string    `json:"tenant_id"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	Description         *string   `json:"description,omitempty"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	GeofenceRadius      float64   `json:"geofence_radius"`
	ClientContactName   *string   `json:"client_contact_name,omitempty"`
	ClientContactEmail  *string   `json:"client_contact_email,omitempty"`
	ClientContactPhone  *string   `json:"client_contact_phone,omitempty"`
	SpecialInstructions *string   `json:"special_instructions,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

type CheckpointResponse struct {
	ID                      string    `json:"id"`
	SiteID                  string    `json:"site_id"`
	Name                    string    `json:"name"`
	Description             *string   `json:"description,omitempty"`
	Latitude                float64   `json:"latitude"`
	Longitude               float64   `json:"longitude"`
	Code                    string    `json:"checkpoint_code"`
	Type                    string    `json:"checkpoint_type"`
	ExpectedIntervalMinutes int       `json:"expected_interval_minutes"`
	IsMandatory             bool      `json:"is_mandatory"`
	Instructions            *string   `json:"instructions,omitempty"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
}

func ToSiteResponse(s *Site) SiteResponse {
	return SiteResponse{
		ID:                  s.ID,
		TenantID:            s.TenantID,
		Name:                s.Name,
		Address:             s.Address,
		Description:         s.Description,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		GeofenceRadius:      s.GeofenceRadius,
		ClientContactName:   s.ClientContactName,
		ClientContactEmail:  s.ClientContactEmail,
		ClientContactPhone:  s.ClientContactPhone,
		SpecialInstructions: s.SpecialInstructions,
		IsActive:            s.IsActive,
		CreatedAt:           s.CreatedAt,
	}
}

func ToCheckpointResponse(c *Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		ID:                      c.ID,
		SiteID:                  c.SiteID,
		Name:                    c.Name,
		Description:             c.Description,
		Latitude:                c.Latitude,
		Longitude:               c.Longitude,
		Code:                    c.Code,
		Type:                    string(c.Type),
		ExpectedIntervalMinutes: c.ExpectedIntervalMinutes,
		IsMandatory:             c.IsMandatory,
		Instructions:            c.Instructions,
		IsActive:                c.IsActive,
		CreatedAt:               c.CreatedAt,
	}
}
