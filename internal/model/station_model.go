package model

import (
	"time"

	"github.com/google/uuid"
)

type Station struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	PremiumActive    bool      `gorm:"not null;default:false"`
	PremiumType      *string   `gorm:"type:varchar(20)"` // monthly, yearly
	PremiumStartDate *time.Time
	PremiumEndDate   *time.Time
	Version          int `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Vendor Vendor `gorm:"foreignKey:VendorId"`
}

func (Station) TableName() string {
	return "stations"
}
