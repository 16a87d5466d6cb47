package dto

import (
	"time"

	"github.com/google/uuid"
)

type StationPremiumResponse struct {
	StationId           uuid.UUID  `json:"station_id"`
	VendorId            uuid.UUID  `json:"vendor_id"`
	IsActive            bool       `json:"is_active"`
	IsPremiumActive     bool       `json:"is_premium_active"` // active and not past end_date
	Type                *string    `json:"type"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	DaysUntilExpiration int        `json:"days_until_expiration"`
	Version             int        `json:"version"`
}

type StationResponse struct {
	Id        uuid.UUID              `json:"id"`
	VendorId  uuid.UUID              `json:"vendor_id"`
	Name      string                 `json:"name"`
	Premium   StationPremiumResponse `json:"premium"`
	CreatedAt time.Time              `json:"created_at"`
}

type CreateStationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type StationPremiumRequest struct {
	PlanType        string `json:"plan_type" validate:"required,oneof=monthly yearly"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}

type DeactivatePremiumRequest struct {
	Reason          string `json:"reason"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}
