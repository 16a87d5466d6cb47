package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundCalculationResponse struct {
	PlatformFeeDeducted decimal.Decimal `json:"platform_fee_deducted"`
	SlotOccupancyFee    decimal.Decimal `json:"slot_occupancy_fee"`
	FinalRefundAmount   decimal.Decimal `json:"final_refund_amount"`
}

type RefundResponse struct {
	Id                uuid.UUID                 `json:"id"`
	UserId            uuid.UUID                 `json:"user_id"`
	BookingId         uuid.UUID                 `json:"booking_id"`
	OriginalAmount    decimal.Decimal           `json:"original_amount"`
	RefundStatus      string                    `json:"refund_status"`
	RefundCalculation RefundCalculationResponse `json:"refund_calculation"`
	TransactionId     string                    `json:"transaction_id,omitempty"`
	Remarks           string                    `json:"remarks,omitempty"`
	Reason            string                    `json:"reason,omitempty"`
	ProcessedBy       string                    `json:"processed_by,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	ProcessedAt       *time.Time                `json:"processed_at,omitempty"`
}

type SubmitRefundRequest struct {
	UserId         uuid.UUID       `json:"user_id" validate:"required"`
	BookingId      uuid.UUID       `json:"booking_id" validate:"required"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
}

type ProcessRefundRequest struct {
	TransactionId string `json:"transaction_id"`
	Remarks       string `json:"remarks"`
}

type RefundReasonRequest struct {
	Reason string `json:"reason"`
}

type RefundListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending processing completed failed rejected"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}
