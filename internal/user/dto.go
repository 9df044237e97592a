// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type RegisterRequest struct {
	Email       string  `json:"email"        validate:"required,email,max=255"`
	Password    string  `json:"password"     validate:"required,min=8,max=128,password"`
	FirstName   string  `json:"first_name"   validate:"required,min=1,max=100"`
	LastName    string  `json:"last_name"    validate:"required,min=1,max=100"`
	Role        string  `json:"role"         validate:"required,oneof=PlatformOwner CompanyAdmin Supervisor Guard"`
	TenantID    *string `json:"tenant_id"    validate:"omitempty,uuid"`
	EmployeeID  *string `json:"employee_id"  validate:"omitempty,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=50"`
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Role               string     `json:"role"`
	TenantID           *string    `json:"tenant_id"`
	TenantName         *string    `json:"tenant_name,omitempty"`
	EmployeeID         *string    `json:"employee_id,omitempty"`
	PhoneNumber        *string    `json:"phone_number,omitempty"`
	IsActive           bool       `json:"is_active"`
	LastKnownLatitude  *float64   `json:"last_known_latitude,omitempty"`
	LastKnownLongitude *float64   `json:"last_known_longitude,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Role     string
	Search   string
	Active   *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               string(u.Role),
		TenantID:           u.TenantID,
		TenantName:         u.TenantName,
		EmployeeID:         u.EmployeeID,
		PhoneNumber:        u.PhoneNumber,
		IsActive:           u.IsActive,
		LastKnownLatitude:  u.LastKnownLatitude,
		LastKnownLongitude: u.LastKnownLongitude,
		LastLocationUpdate: u.LastLocationUpdate,
		CreatedAt:          u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
