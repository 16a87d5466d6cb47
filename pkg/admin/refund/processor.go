package refund

import (
	"context"
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

// Processor handles the refund queue workflow
type Processor struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
	now       func() time.Time
}

// NewProcessor creates a new refund processor
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

// Submit queues a refund for a booking. A booking gets at most one refund.
func (p *Processor) Submit(ctx context.Context, uow unitofwork.UnitOfWork, req dto.SubmitRefundRequest) (*entity.RefundRequest, error) {
	const op = "SubmitRefund"
	if !req.OriginalAmount.IsPositive() {
		return nil, xerrors.E(op, xerrors.ErrInvalidAmount)
	}
	if req.PlatformFee.IsNegative() {
		return nil, xerrors.New(xerrors.KindValidation, op, "platform fee must not be negative")
	}

	now := p.now()
	refund := &entity.RefundRequest{
		Id:             uuid.New(),
		UserId:         req.UserId,
		BookingId:      req.BookingId,
		OriginalAmount: req.OriginalAmount.Round(2),
		Status:         entity.RefundStatusPending,
		Calculation:    Calculate(req.OriginalAmount, req.PlatformFee),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.RefundRepository().Create(ctx, refund); err != nil {
		return nil, err
	}

	p.logger.Info("REFUND", "Refund Submitted", map[string]interface{}{
		"refundId":    refund.Id.String(),
		"bookingId":   refund.BookingId.String(),
		"finalAmount": refund.Calculation.FinalRefundAmount.StringFixed(2),
	})
	return refund, nil
}

// List returns refunds of one status in queue order. Pending is the default.
func (p *Processor) List(ctx context.Context, uow unitofwork.UnitOfWork, req dto.RefundListRequest) ([]*entity.RefundRequest, error) {
	status := entity.RefundStatusPending
	if req.Status != "" {
		status = entity.RefundStatus(req.Status)
		if !status.Valid() {
			return nil, xerrors.New(xerrors.KindValidation, "ListRefunds", "unknown refund status")
		}
	}
	return uow.RefundRepository().FindByStatus(ctx, status, contract.Page(req.Page, req.Limit))
}

// NextPending returns the oldest pending refund.
func (p *Processor) NextPending(ctx context.Context, uow unitofwork.UnitOfWork) (*entity.RefundRequest, error) {
	refunds, err := uow.RefundRepository().FindByStatus(ctx, entity.RefundStatusPending, contract.ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(refunds) == 0 {
		return nil, xerrors.New(xerrors.KindNotFound, "NextPendingRefund", "refund queue is empty")
	}
	return refunds[0], nil
}

func (p *Processor) Get(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.RefundRequest, error) {
	refund, err := uow.RefundRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, xerrors.New(xerrors.KindNotFound, "GetRefund", "refund not found")
	}
	return refund, nil
}

type transition func(r *entity.RefundRequest, now time.Time) (*entity.RefundRequest, error)

func (p *Processor) mutate(ctx context.Context, uow unitofwork.UnitOfWork, op string, id uuid.UUID, apply transition) (*entity.RefundRequest, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	current, err := uow.RefundRepository().FindByIdForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "refund not found")
	}

	now := p.now()
	next, err := apply(current, now)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = now
	if err := uow.RefundRepository().Update(ctx, next); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}

func (p *Processor) audit(message string, refund *entity.RefundRequest) {
	details := map[string]interface{}{
		"refundId": refund.Id.String(),
		"status":   string(refund.Status),
		"actor":    refund.ProcessedBy,
	}
	if refund.Reason != "" {
		details["reason"] = refund.Reason
	}
	if refund.TransactionId != "" {
		details["transactionId"] = refund.TransactionId
		details["amount"] = refund.Calculation.FinalRefundAmount.StringFixed(2)
	}
	p.logger.Info("REFUND", message, details)
}

func (p *Processor) Claim(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, actor string) (*entity.RefundRequest, error) {
	refund, err := p.mutate(ctx, uow, "ClaimRefund", id, func(r *entity.RefundRequest, _ time.Time) (*entity.RefundRequest, error) {
		return Claim(r, actor)
	})
	if err != nil {
		return nil, err
	}
	p.audit("Refund Claimed", refund)
	return refund, nil
}

// Process marks a refund paid out and notifies downstream consumers.
func (p *Processor) Process(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.ProcessRefundRequest, actor string) (*entity.RefundRequest, error) {
	if err := CheckTransactionId(req.TransactionId); err != nil {
		return nil, err
	}
	refund, err := p.mutate(ctx, uow, "ProcessRefund", id, func(r *entity.RefundRequest, now time.Time) (*entity.RefundRequest, error) {
		return Process(r, req.TransactionId, req.Remarks, actor, now)
	})
	if err != nil {
		return nil, err
	}
	p.audit("Refund Processed", refund)
	p.publisher.PublishRefundProcessed(ctx, refund)
	return refund, nil
}

func (p *Processor) Release(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, actor string) (*entity.RefundRequest, error) {
	refund, err := p.mutate(ctx, uow, "ReleaseRefund", id, func(r *entity.RefundRequest, _ time.Time) (*entity.RefundRequest, error) {
		return Release(r)
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("REFUND", "Refund Released", map[string]interface{}{
		"refundId": refund.Id.String(),
		"actor":    actor,
	})
	return refund, nil
}

func (p *Processor) Reject(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.RefundReasonRequest, actor string) (*entity.RefundRequest, error) {
	return p.close(ctx, uow, "RejectRefund", id, entity.RefundStatusRejected, req.Reason, actor)
}

func (p *Processor) Fail(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.RefundReasonRequest, actor string) (*entity.RefundRequest, error) {
	return p.close(ctx, uow, "FailRefund", id, entity.RefundStatusFailed, req.Reason, actor)
}

func (p *Processor) close(ctx context.Context, uow unitofwork.UnitOfWork, op string, id uuid.UUID, status entity.RefundStatus, reason, actor string) (*entity.RefundRequest, error) {
	refund, err := p.mutate(ctx, uow, op, id, func(r *entity.RefundRequest, now time.Time) (*entity.RefundRequest, error) {
		return Close(r, status, reason, actor, now)
	})
	if err != nil {
		return nil, err
	}
	p.audit("Refund Closed", refund)
	return refund, nil
}
