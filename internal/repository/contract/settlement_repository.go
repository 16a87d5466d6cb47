package contract

import (
	"context"
	"time"

	"evcharge-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementRequestFilter struct {
	VendorId *uuid.UUID
	Status   *entity.SettlementStatus
	ListOptions
}

type SettlementTotals struct {
	TotalToBeReceived   decimal.Decimal
	PendingSettlement   decimal.Decimal
	InSettlementProcess decimal.Decimal
	PaymentSettled      decimal.Decimal
}

type SettlementRepository interface {
	FindDaily(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.DailySettlement, error)
	// FindDailyForUpdate locks the row for the rest of the transaction.
	FindDailyForUpdate(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.DailySettlement, error)
	// EnsureDaily inserts the zero row for (vendor, date) when missing so it can be locked.
	EnsureDaily(ctx context.Context, vendorId uuid.UUID, date time.Time) error
	SaveDaily(ctx context.Context, daily *entity.DailySettlement) error

	// CreateLedgerEntry fails with BOOKING_ALREADY_RECORDED when the booking was already credited.
	CreateLedgerEntry(ctx context.Context, entry *entity.LedgerEntry) error

	// CreateRequest fails with SETTLEMENT_ALREADY_IN_PROGRESS when an open
	// request exists for the same vendor and date.
	CreateRequest(ctx context.Context, req *entity.SettlementRequest) error
	FindRequestById(ctx context.Context, id uuid.UUID) (*entity.SettlementRequest, error)
	FindRequestByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.SettlementRequest, error)
	FindOpenRequest(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.SettlementRequest, error)
	UpdateRequest(ctx context.Context, req *entity.SettlementRequest) error
	ListRequests(ctx context.Context, filter SettlementRequestFilter) ([]*entity.SettlementRequest, error)
	CountRequestsByStatus(ctx context.Context, status entity.SettlementStatus) (int64, error)

	Totals(ctx context.Context) (*SettlementTotals, error)
}
