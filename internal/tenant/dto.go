// AngelaMos | 2026
// dto.go

package tenant

import (
	"time"
)

type CreateTenantRequest struct {
	CompanyName            string     `json:"company_name"             validate:"required,min=1,max=200"`
	Address                string     `json:"address"                  validate:"max=500"`
	ContactEmail           string     `json:"contact_email"            validate:"required,email,max=255"`
	ContactPhone           string     `json:"contact_phone"            validate:"max=50"`
	MaxUserAccounts        *int       `json:"max_user_accounts"        validate:"omitempty,min=1,max=10000"`
	SubscriptionPlan       string     `json:"subscription_plan"        validate:"omitempty,oneof=Basic Professional Enterprise"`
	SubscriptionExpiryDate *time.Time `json:"subscription_expiry_date"`
}

type UpdateTenantRequest struct {
	CompanyName            *string    `json:"company_name"             validate:"omitempty,min=1,max=200"`
	Address                *string    `json:"address"                  validate:"omitempty,max=500"`
	ContactEmail           *string    `json:"contact_email"            validate:"omitempty,email,max=255"`
	ContactPhone           *string    `json:"contact_phone"            validate:"omitempty,max=50"`
	SubscriptionPlan       *string    `json:"subscription_plan"        validate:"omitempty,oneof=Basic Professional Enterprise"`
	IsActive               *bool      `json:"is_active"`
	SubscriptionExpiryDate *time.Time `json:"subscription_expiry_date"`
}

type UpdateUserLimitRequest struct {
	MaxUserAccounts int `json:"max_user_accounts" validate:"required,min=1,max=10000"`
}

type TenantResponse struct {
	ID                     string     `json:"id"`
	CompanyName            string     `json:"company_name"`
	Address                string     `json:"address"`
	ContactEmail           string     `json:"contact_email"`
	ContactPhone           string     `json:"contact_phone"`
	MaxUserAccounts        int        `json:"max_user_accounts"`
	CurrentUserCount       int        `json:"current_user_count"`
	SubscriptionPlan       string     `json:"subscription_plan"`
	IsActive               bool       `json:"is_active"`
	SubscriptionExpiryDate *time.Time `json:"subscription_expiry_date,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type ListTenantsParams struct {
	Page     int
	PageSize int
	Search   string
	Active   *bool
}

func (p *ListTenantsParams) Normalize() {
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

func (p *ListTenantsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToTenantResponse(t *Tenant) TenantResponse {
	return TenantResponse{
		ID:                     t.ID,
		CompanyName:            t.CompanyName,
		Address:                t.Address,
		ContactEmail:           t.ContactEmail,
		ContactPhone:           t.ContactPhone,
		MaxUserAccounts:        t.MaxUserAccounts,
		CurrentUserCount:       t.CurrentUserCount,
		SubscriptionPlan:       string(t.SubscriptionPlan),
		IsActive:               t.IsActive,
		SubscriptionExpiryDate: t.SubscriptionExpiryDate,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

func ToTenantResponseList(tenants []Tenant) []TenantResponse {
	out := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		out = append(out, ToTenantResponse(&tenants[i]))
	}
	return out
}
