package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DailySettlementResponse struct {
	VendorId            uuid.UUID                  `json:"vendor_id"`
	Date                string                     `json:"date"`
	State               string                     `json:"state"`
	TotalToBeReceived   decimal.Decimal            `json:"total_to_be_received"`
	PendingSettlement   decimal.Decimal            `json:"pending_settlement"`
	InSettlementProcess decimal.Decimal            `json:"in_settlement_process"`
	PaymentSettled      decimal.Decimal            `json:"payment_settled"`
	OpenRequest         *SettlementRequestResponse `json:"open_request,omitempty"`
}

type SettlementRequestResponse struct {
	Id               uuid.UUID       `json:"id"`
	Reference        string          `json:"reference"`
	VendorId         uuid.UUID       `json:"vendor_id"`
	Date             string          `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	RequestType      string          `json:"request_type"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	ProcessingNotes  string          `json:"processing_notes,omitempty"`
	InitiatedBy      string          `json:"initiated_by,omitempty"`
	CompletedBy      string          `json:"completed_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// SettlementResultResponse returns the request together with the ledger row it moved.
type SettlementResultResponse struct {
	Request SettlementRequestResponse `json:"request"`
	Ledger  DailySettlementResponse   `json:"ledger"`
}

type InitiateSettlementRequest struct {
	VendorId    uuid.UUID       `json:"vendor_id" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
	RequestType string          `json:"request_type" validate:"omitempty,oneof=regular urgent"`
}

// CompleteSettlementRequest leaves payment_reference unchecked here so the
// ledger reports INVALID_REFERENCE itself.
type CompleteSettlementRequest struct {
	PaymentReference string `json:"payment_reference"`
	ProcessingNotes  string `json:"processing_notes"`
}

type RecordBookingRequest struct {
	BookingId   uuid.UUID       `json:"booking_id" validate:"required"`
	VendorId    uuid.UUID       `json:"vendor_id" validate:"required"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	CompletedAt time.Time       `json:"completed_at" validate:"required"`
}

type SettlementListRequest struct {
	VendorId string `query:"vendor_id"`
	Status   string `query:"status" validate:"omitempty,oneof=processing completed"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}
