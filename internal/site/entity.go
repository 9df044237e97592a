// AngelaMos | 2026
// entity.go

package site

import (
	"time"

	"github.com/carterperez-dev/guardops/internal/geo"
)

const DefaultGeofenceRadius = 100.0

type Site struct {
	ID                  string     `db:"id"`
	TenantID            string     `db:"tenant_id"`
	Name                string     `db:"name"`
	Address             string     `db:"address"`
	Description         *string    `db:"description"`
	Latitude            float64    `db:"latitude"`
	Longitude           float64    `db:"longitude"`
	GeofenceRadius      float64    `db:"geofence_radius"`
	ClientContactName   *string    `db:"client_contact_name"`
	ClientContactEmail  *string    `db:"client_contact_email"`
	ClientContactPhone  *string    `db:"client_contact_phone"`
	SpecialInstructions *string    `db:"special_instructions"`
	IsActive            bool       `db:"is_active"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

func (s *Site) Center() geo.Point {
	return geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Contains reports whether p is inside the site's geofence.
func (s *Site) Contains(p geo.Point) bool {
	return geo.Within(p, s.Center(), s.GeofenceRadius)
}

type CheckpointType string

const (
	CheckpointQR     CheckpointType = "QR"
	CheckpointNFC    CheckpointType = "NFC"
	CheckpointManual CheckpointType = "Manual"
)

type Checkpoint struct {
	ID                      string         `db:"id"`
	TenantID                string         `db:"tenant_id"`
	SiteID                  string         `db:"site_id"`
	Name                    string         `db:"name"`
	Description             *string        `db:"description"`
	Latitude                float64        `db:"latitude"`
	Longitude               float64        `db:"longitude"`
	Code                    string         `db:"checkpoint_code"`
	Type                    CheckpointType `db:"checkpoint_type"`
	ExpectedIntervalMinutes int            `db:"expected_interval_minutes"`
	IsMandatory             bool           `db:"is_mandatory"`
	Instructions            *string        `db:"instructions"`
	IsActive                bool           `db:"is_active"`
	CreatedAt               time.Time      `db:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at"`
	DeletedAt               *time.Time     `db:"deleted_at"`
}

const siteColumns = `
	id, tenant_id, name, address, description, latitude, longitude,
	geofence_radius, client_contact_name, client_contact_email,
	client_contact_phone, special_instructions, is_active,
	created_at, updated_at, deleted_at`

const checkpointColumns = `
	id, tenant_id, site_id, name, description, latitude, longitude,
	checkpoint_code, checkpoint_type, expected_interval_minutes,
	is_mandatory, instructions, is_active, created_at, updated_at, deleted_at`
