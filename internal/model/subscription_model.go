package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VendorSubscription struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	VendorId    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex"`
	Type        string                      `gorm:"type:varchar(20);not null"`   // trial, yearly
	Status      string                      `gorm:"type:varchar(20);not null;index"` // active, expired, suspended
	StartDate   time.Time                   `gorm:"not null"`
	EndDate     time.Time                   `gorm:"not null;index"`
	AutoRenew   bool                        `gorm:"not null;default:false"`
	MaxStations int                         `gorm:"not null"`
	Features    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Version     int                         `gorm:"not null;default:1"`
	UpdatedBy   string                      `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Vendor Vendor `gorm:"foreignKey:VendorId"`
}

func (VendorSubscription) TableName() string {
	return "vendor_subscriptions"
}
