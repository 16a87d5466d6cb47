package model

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessName      string    `gorm:"type:varchar(255);not null"`
	Email             string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	IsVerified        bool      `gorm:"not null;default:false"`
	VerifiedAt        *time.Time
	VerifiedBy        string `gorm:"type:varchar(255)"`
	BankAccountName   string `gorm:"type:varchar(255)"`
	BankAccountNumber string `gorm:"type:varchar(64)"`
	BankName          string `gorm:"type:varchar(255)"`
	BankBranchName    string `gorm:"type:varchar(255)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Vendor) TableName() string {
	return "vendors"
}
