package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundRequest struct {
	Id                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserId              uuid.UUID       `gorm:"type:uuid;not null;index"`
	BookingId           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OriginalAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status              string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_refunds_queue,priority:1"` // pending, processing, completed, failed, rejected
	PlatformFeeDeducted decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SlotOccupancyFee    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	FinalRefundAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TransactionId       string          `gorm:"type:varchar(255)"`
	Remarks             string          `gorm:"type:text"`
	Reason              string          `gorm:"type:text"`
	ProcessedBy         string          `gorm:"type:varchar(255)"`
	ProcessedAt         *time.Time
	CreatedAt           time.Time `gorm:"index:idx_refunds_queue,priority:2"`
	UpdatedAt           time.Time
}

func (RefundRequest) TableName() string {
	return "refund_requests"
}
