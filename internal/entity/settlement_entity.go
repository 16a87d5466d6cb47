package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementStatus string
type SettlementRequestType string
type LedgerState string

const (
	SettlementStatusProcessing SettlementStatus = "processing"
	SettlementStatusCompleted  SettlementStatus = "completed"

	SettlementRequestRegular SettlementRequestType = "regular"
	SettlementRequestUrgent  SettlementRequestType = "urgent"

	LedgerStateNoTransactions      LedgerState = "NO_TRANSACTIONS"
	LedgerStatePendingSettlement   LedgerState = "PENDING_SETTLEMENT"
	LedgerStateInSettlementProcess LedgerState = "IN_SETTLEMENT_PROCESS"
	LedgerStatePaymentSettled      LedgerState = "PAYMENT_SETTLED"
)

const DateLayout = "2006-01-02"

// CalendarDate truncates t to midnight UTC, the ledger's day granularity.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDate parses a YYYY-MM-DD ledger key.
func ParseCalendarDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}

// DailySettlement holds one vendor's revenue for one calendar day split into
// three buckets. Total always equals the sum of the buckets.
type DailySettlement struct {
	Id                  uuid.UUID
	VendorId            uuid.UUID
	Date                time.Time
	TotalToBeReceived   decimal.Decimal
	PendingSettlement   decimal.Decimal
	InSettlementProcess decimal.Decimal
	PaymentSettled      decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func NewDailySettlement(vendorId uuid.UUID, date time.Time) *DailySettlement {
	return &DailySettlement{
		Id:                  uuid.New(),
		VendorId:            vendorId,
		Date:                CalendarDate(date),
		TotalToBeReceived:   decimal.Zero,
		PendingSettlement:   decimal.Zero,
		InSettlementProcess: decimal.Zero,
		PaymentSettled:      decimal.Zero,
	}
}

func (d *DailySettlement) Balanced() bool {
	return d.TotalToBeReceived.Equal(d.PendingSettlement.Add(d.InSettlementProcess).Add(d.PaymentSettled))
}

// State reports the ledger row's position in the settlement workflow.
func (d *DailySettlement) State() LedgerState {
	switch {
	case d == nil || d.TotalToBeReceived.IsZero():
		return LedgerStateNoTransactions
	case d.PendingSettlement.IsPositive():
		return LedgerStatePendingSettlement
	case d.InSettlementProcess.IsPositive():
		return LedgerStateInSettlementProcess
	default:
		return LedgerStatePaymentSettled
	}
}

func (d *DailySettlement) Clone() *DailySettlement {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

type SettlementRequest struct {
	Id               uuid.UUID
	Reference        string
	VendorId         uuid.UUID
	Date             time.Time
	Amount           decimal.Decimal
	Status           SettlementStatus
	RequestType      SettlementRequestType
	PaymentReference string
	ProcessingNotes  string
	InitiatedBy      string
	CompletedBy      string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

func (r *SettlementRequest) Clone() *SettlementRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// LedgerEntry records that a completed booking was credited to a day.
type LedgerEntry struct {
	BookingId   uuid.UUID
	VendorId    uuid.UUID
	Date        time.Time
	FinalAmount decimal.Decimal
	RecordedAt  time.Time
}
