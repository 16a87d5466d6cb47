package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus represents the status of a refund request
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"
	RefundStatusRejected   RefundStatus = "rejected"
)

func (s RefundStatus) Valid() bool {
	switch s {
	case RefundStatusPending, RefundStatusProcessing, RefundStatusCompleted, RefundStatusFailed, RefundStatusRejected:
		return true
	}
	return false
}

// Terminal states never reopen.
func (s RefundStatus) Terminal() bool {
	return s == RefundStatusCompleted || s == RefundStatusFailed || s == RefundStatusRejected
}

type RefundCalculation struct {
	PlatformFeeDeducted decimal.Decimal
	SlotOccupancyFee    decimal.Decimal
	FinalRefundAmount   decimal.Decimal
}

type RefundRequest struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	BookingId      uuid.UUID
	OriginalAmount decimal.Decimal
	Status         RefundStatus
	Calculation    RefundCalculation
	TransactionId  string
	Remarks        string
	Reason         string
	ProcessedBy    string
	CreatedAt      time.Time
	ProcessedAt    *time.Time
	UpdatedAt      time.Time
}

func (r *RefundRequest) Clone() *RefundRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.ProcessedAt != nil {
		t := *r.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}

// QueuedBefore is the FIFO order of the refund queue: oldest first, ties by id.
func (r *RefundRequest) QueuedBefore(o *RefundRequest) bool {
	if r.CreatedAt.Equal(o.CreatedAt) {
		return r.Id.String() < o.Id.String()
	}
	return r.CreatedAt.Before(o.CreatedAt)
}
