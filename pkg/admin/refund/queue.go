package refund

import (
	"strings"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// SlotOccupancyRate is the share of the original amount kept for the
// reserved charging slot.
var SlotOccupancyRate = decimal.RequireFromString("0.05")

// Calculate derives the payable refund. The final amount never goes negative.
func Calculate(original, platformFee decimal.Decimal) entity.RefundCalculation {
	fee := platformFee.Round(2)
	slot := original.Mul(SlotOccupancyRate).Round(2)
	final := original.Sub(fee).Sub(slot).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return entity.RefundCalculation{
		PlatformFeeDeducted: fee,
		SlotOccupancyFee:    slot,
		FinalRefundAmount:   final,
	}
}

func requireOpen(op string, r *entity.RefundRequest) error {
	if r.Status.Terminal() {
		return xerrors.New(xerrors.KindInvalidState, op, "refund is already "+string(r.Status))
	}
	return nil
}

// Claim takes a pending refund off the queue for one admin.
func Claim(r *entity.RefundRequest, actor string) (*entity.RefundRequest, error) {
	if r.Status != entity.RefundStatusPending {
		return nil, xerrors.New(xerrors.KindInvalidState, "ClaimRefund", "only pending refunds can be claimed")
	}
	next := r.Clone()
	next.Status = entity.RefundStatusProcessing
	next.ProcessedBy = actor
	return next, nil
}

func CheckTransactionId(transactionId string) error {
	if strings.TrimSpace(transactionId) == "" {
		return xerrors.E("ProcessRefund", xerrors.ErrMissingTransactionId)
	}
	return nil
}

// Process completes a pending or claimed refund with the payout transaction.
func Process(r *entity.RefundRequest, transactionId, remarks, actor string, now time.Time) (*entity.RefundRequest, error) {
	if err := CheckTransactionId(transactionId); err != nil {
		return nil, err
	}
	if err := requireOpen("ProcessRefund", r); err != nil {
		return nil, err
	}
	next := r.Clone()
	next.Status = entity.RefundStatusCompleted
	next.TransactionId = strings.TrimSpace(transactionId)
	next.Remarks = strings.TrimSpace(remarks)
	next.ProcessedBy = actor
	next.ProcessedAt = &now
	return next, nil
}

// Release puts a claimed refund back in the queue at its original position.
func Release(r *entity.RefundRequest) (*entity.RefundRequest, error) {
	if r.Status != entity.RefundStatusProcessing {
		return nil, xerrors.New(xerrors.KindInvalidState, "ReleaseRefund", "only processing refunds can be released")
	}
	next := r.Clone()
	next.Status = entity.RefundStatusPending
	next.ProcessedBy = ""
	return next, nil
}

// Close ends a refund as rejected or failed. A reason is mandatory.
func Close(r *entity.RefundRequest, status entity.RefundStatus, reason, actor string, now time.Time) (*entity.RefundRequest, error) {
	const op = "CloseRefund"
	if status != entity.RefundStatusRejected && status != entity.RefundStatusFailed {
		return nil, xerrors.New(xerrors.KindValidation, op, "refunds close as rejected or failed")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, xerrors.E(op, xerrors.ErrReasonRequired)
	}
	if err := requireOpen(op, r); err != nil {
		return nil, err
	}
	next := r.Clone()
	next.Status = status
	next.Reason = reason
	next.ProcessedBy = actor
	next.ProcessedAt = &now
	return next, nil
}
