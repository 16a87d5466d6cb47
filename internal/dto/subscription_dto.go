package dto

import (
	"time"

	"github.com/google/uuid"
)

type VendorSubscriptionResponse struct {
	Id                  uuid.UUID `json:"id"`
	VendorId            uuid.UUID `json:"vendor_id"`
	Type                string    `json:"type"`
	Status              string    `json:"status"`          // stored status
	EffectiveStatus     string    `json:"effective_status"` // expired once end_date has passed
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	AutoRenew           bool      `json:"auto_renew"`
	MaxStations         int       `json:"max_stations"`
	FeaturesEnabled     []string  `json:"features_enabled"`
	DaysUntilExpiration int       `json:"days_until_expiration"`
	IsExpired           bool      `json:"is_expired"`
	IsExpiringSoon      bool      `json:"is_expiring_soon"`
	Version             int       `json:"version"`
	UpdatedBy           string    `json:"updated_by,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ExtendVendorSubscriptionRequest adds whole days to the stored end date.
// Months count as 30 days and years as 365. Each part is capped at ten years.
type ExtendVendorSubscriptionRequest struct {
	Days            int    `json:"days" validate:"gte=0,lte=3650"`
	Months          int    `json:"months" validate:"gte=0,lte=120"`
	Years           int    `json:"years" validate:"gte=0,lte=10"`
	Reason          string `json:"reason"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}

type ModifyVendorSubscriptionRequest struct {
	Type            *string    `json:"type,omitempty" validate:"omitempty,oneof=trial yearly"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,oneof=active expired suspended"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	MaxStations     *int       `json:"max_stations,omitempty" validate:"omitempty,min=1"`
	AutoRenew       *bool      `json:"auto_renew,omitempty"`
	Reason          string     `json:"reason"`
	ExpectedVersion *int       `json:"expected_version,omitempty"`
}

type UpgradeSubscriptionRequest struct {
	Reason          string `json:"reason"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}
