package settlement

import (
	"context"
	"strings"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/unitofwork"
	adminEvents "evcharge-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Result is a settlement request together with the ledger row it moved.
type Result struct {
	Request *entity.SettlementRequest
	Ledger  *entity.DailySettlement
}

// DailyView is the ledger row for one vendor and day plus its open request, if any.
type DailyView struct {
	Ledger      *entity.DailySettlement
	OpenRequest *entity.SettlementRequest
}

// Processor runs the settlement workflow against the unit of work
type Processor struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
	now       func() time.Time
}

func NewProcessor(logger logger.ILogger, publisher adminEvents.Publisher) *Processor {
	return &Processor{
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// RecordCompletedBooking credits a completed booking to the vendor's day.
// Each booking is credited at most once.
func (p *Processor) RecordCompletedBooking(ctx context.Context, uow unitofwork.UnitOfWork, req dto.RecordBookingRequest) (*entity.DailySettlement, error) {
	const op = "RecordCompletedBooking"
	if !req.FinalAmount.IsPositive() {
		return nil, xerrors.E(op, xerrors.ErrInvalidAmount)
	}
	date := entity.CalendarDate(req.CompletedAt)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	vendor, err := uow.VendorRepository().FindById(ctx, req.VendorId)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "vendor not found")
	}

	repo := uow.SettlementRepository()
	if err := repo.CreateLedgerEntry(ctx, &entity.LedgerEntry{
		BookingId:   req.BookingId,
		VendorId:    req.VendorId,
		Date:        date,
		FinalAmount: req.FinalAmount.Round(2),
		RecordedAt:  p.now(),
	}); err != nil {
		return nil, err
	}
	if err := repo.EnsureDaily(ctx, req.VendorId, date); err != nil {
		return nil, err
	}
	daily, err := repo.FindDailyForUpdate(ctx, req.VendorId, date)
	if err != nil {
		return nil, err
	}

	next, err := Credit(daily, req.FinalAmount)
	if err != nil {
		return nil, err
	}
	if err := repo.SaveDaily(ctx, next); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("SETTLEMENT", "Recorded Completed Booking", map[string]interface{}{
		"vendorId":  req.VendorId.String(),
		"bookingId": req.BookingId.String(),
		"date":      date.Format(entity.DateLayout),
		"amount":    req.FinalAmount.StringFixed(2),
		"pending":   next.PendingSettlement.StringFixed(2),
	})
	return next, nil
}

// InitiateSettlement opens a settlement request for the full pending amount
// of one vendor day. Concurrent callers for the same day are serialized by
// the row lock and the open-request unique index.
func (p *Processor) InitiateSettlement(ctx context.Context, uow unitofwork.UnitOfWork, req dto.InitiateSettlementRequest, actor string) (*Result, error) {
	const op = "InitiateSettlement"
	date, err := entity.ParseCalendarDate(req.Date)
	if err != nil {
		return nil, xerrors.New(xerrors.KindValidation, op, "date must be YYYY-MM-DD")
	}
	requestType := entity.SettlementRequestRegular
	if req.RequestType != "" {
		requestType = entity.SettlementRequestType(req.RequestType)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	vendor, err := uow.VendorRepository().FindById(ctx, req.VendorId)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "vendor not found")
	}

	repo := uow.SettlementRepository()
	daily, err := repo.FindDailyForUpdate(ctx, req.VendorId, date)
	if err != nil {
		return nil, err
	}
	open, err := repo.FindOpenRequest(ctx, req.VendorId, date)
	if err != nil {
		return nil, err
	}

	next, err := Initiate(daily, open, vendor.BankDetails, req.Amount)
	if err != nil {
		return nil, err
	}

	now := p.now()
	settlement := &entity.SettlementRequest{
		Id:          uuid.New(),
		Reference:   NewReference(now),
		VendorId:    req.VendorId,
		Date:        date,
		Amount:      req.Amount,
		Status:      entity.SettlementStatusProcessing,
		RequestType: requestType,
		InitiatedBy: actor,
		CreatedAt:   now,
	}
	if err := repo.CreateRequest(ctx, settlement); err != nil {
		return nil, err
	}
	if err := repo.SaveDaily(ctx, next); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("SETTLEMENT", "Initiated Settlement", map[string]interface{}{
		"settlementId": settlement.Id.String(),
		"reference":    settlement.Reference,
		"vendorId":     settlement.VendorId.String(),
		"date":         req.Date,
		"amount":       settlement.Amount.StringFixed(2),
		"requestType":  string(requestType),
		"actor":        actor,
	})
	return &Result{Request: settlement, Ledger: next}, nil
}

// CompleteSettlement closes a processing request and settles its amount.
func (p *Processor) CompleteSettlement(ctx context.Context, uow unitofwork.UnitOfWork, settlementId uuid.UUID, req dto.CompleteSettlementRequest, actor string) (*Result, error) {
	const op = "CompleteSettlement"
	if err := CheckReference(req.PaymentReference); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.SettlementRepository()
	settlement, err := repo.FindRequestByIdForUpdate(ctx, settlementId)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "settlement request not found")
	}
	if settlement.Status == entity.SettlementStatusCompleted {
		return nil, xerrors.E(op, xerrors.ErrAlreadyCompleted)
	}

	daily, err := repo.FindDailyForUpdate(ctx, settlement.VendorId, settlement.Date)
	if err != nil {
		return nil, err
	}
	next, err := Complete(daily, settlement, req.PaymentReference)
	if err != nil {
		return nil, err
	}

	now := p.now()
	settlement.Status = entity.SettlementStatusCompleted
	settlement.PaymentReference = strings.TrimSpace(req.PaymentReference)
	settlement.ProcessingNotes = strings.TrimSpace(req.ProcessingNotes)
	settlement.CompletedBy = actor
	settlement.CompletedAt = &now

	if err := repo.UpdateRequest(ctx, settlement); err != nil {
		return nil, err
	}
	if err := repo.SaveDaily(ctx, next); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("SETTLEMENT", "Completed Settlement", map[string]interface{}{
		"settlementId":     settlement.Id.String(),
		"reference":        settlement.Reference,
		"vendorId":         settlement.VendorId.String(),
		"amount":           settlement.Amount.StringFixed(2),
		"paymentReference": settlement.PaymentReference,
		"actor":            actor,
	})
	p.publisher.PublishSettlementCompleted(ctx, settlement)
	return &Result{Request: settlement, Ledger: next}, nil
}

// GetDailySettlement returns a zero-valued row when the day has no bookings.
func (p *Processor) GetDailySettlement(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, date string) (*DailyView, error) {
	const op = "GetDailySettlement"
	day, err := entity.ParseCalendarDate(date)
	if err != nil {
		return nil, xerrors.New(xerrors.KindValidation, op, "date must be YYYY-MM-DD")
	}

	vendor, err := uow.VendorRepository().FindById(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "vendor not found")
	}

	repo := uow.SettlementRepository()
	daily, err := repo.FindDaily(ctx, vendorId, day)
	if err != nil {
		return nil, err
	}
	if daily == nil {
		daily = entity.NewDailySettlement(vendorId, day)
		daily.Id = uuid.Nil
	}
	open, err := repo.FindOpenRequest(ctx, vendorId, day)
	if err != nil {
		return nil, err
	}
	return &DailyView{Ledger: daily, OpenRequest: open}, nil
}

// ListRequests returns settlement requests newest first.
func (p *Processor) ListRequests(ctx context.Context, uow unitofwork.UnitOfWork, req dto.SettlementListRequest) ([]*entity.SettlementRequest, error) {
	filter := contract.SettlementRequestFilter{ListOptions: contract.Page(req.Page, req.Limit)}
	if req.VendorId != "" {
		vendorId, err := uuid.Parse(req.VendorId)
		if err != nil {
			return nil, xerrors.New(xerrors.KindValidation, "ListSettlementRequests", "vendor_id must be a UUID")
		}
		filter.VendorId = &vendorId
	}
	if req.Status != "" {
		status := entity.SettlementStatus(req.Status)
		filter.Status = &status
	}
	return uow.SettlementRepository().ListRequests(ctx, filter)
}
