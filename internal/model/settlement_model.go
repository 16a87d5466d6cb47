package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type DailySettlement struct {
	Id                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendorId            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_daily_settlements_vendor_date"`
	SettlementDate      datatypes.Date  `gorm:"not null;uniqueIndex:ux_daily_settlements_vendor_date"`
	TotalToBeReceived   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PendingSettlement   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	InSettlementProcess decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PaymentSettled      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (DailySettlement) TableName() string {
	return "daily_settlements"
}

// SettlementRequest rows are constrained by the partial unique index
// ux_settlement_requests_open (vendor_id, settlement_date) WHERE status = 'processing',
// created in cmd/migrate.
type SettlementRequest struct {
	Id               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference        string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	VendorId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SettlementDate   datatypes.Date  `gorm:"not null;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status           string          `gorm:"type:varchar(20);not null;default:'processing'"` // processing, completed
	RequestType      string          `gorm:"type:varchar(20);not null;default:'regular'"`    // regular, urgent
	PaymentReference string          `gorm:"type:varchar(255)"`
	ProcessingNotes  string          `gorm:"type:text"`
	InitiatedBy      string          `gorm:"type:varchar(255)"`
	CompletedBy      string          `gorm:"type:varchar(255)"`
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SettlementRequest) TableName() string {
	return "settlement_requests"
}

type LedgerEntry struct {
	BookingId      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendorId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SettlementDate datatypes.Date  `gorm:"not null"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	RecordedAt     time.Time       `gorm:"not null"`
}

func (LedgerEntry) TableName() string {
	return "settlement_ledger_entries"
}
