package settlement

import (
	"strings"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const minReferenceLength = 3

// Credit books a completed booking into the pending bucket of its day.
func Credit(daily *entity.DailySettlement, amount decimal.Decimal) (*entity.DailySettlement, error) {
	if !amount.IsPositive() {
		return nil, xerrors.E("Credit", xerrors.ErrInvalidAmount)
	}
	amount = amount.Round(2)

	next := daily.Clone()
	next.TotalToBeReceived = next.TotalToBeReceived.Add(amount)
	next.PendingSettlement = next.PendingSettlement.Add(amount)
	return next, nil
}

// Initiate moves the whole pending bucket into settlement. An open request
// is reported before the bucket checks since it is what drained the bucket.
func Initiate(daily *entity.DailySettlement, open *entity.SettlementRequest, bank *entity.BankDetails, amount decimal.Decimal) (*entity.DailySettlement, error) {
	const op = "InitiateSettlement"
	if open != nil {
		return nil, xerrors.E(op, xerrors.ErrSettlementAlreadyInProgress)
	}
	if daily == nil || !daily.PendingSettlement.IsPositive() {
		return nil, xerrors.E(op, xerrors.ErrNothingToSettle)
	}
	if !amount.Equal(daily.PendingSettlement) {
		return nil, xerrors.New(xerrors.KindAmountMismatch, op,
			"amount "+amount.StringFixed(2)+" does not match pending settlement "+daily.PendingSettlement.StringFixed(2))
	}
	if !bank.Complete() {
		return nil, xerrors.E(op, xerrors.ErrMissingBankDetails)
	}

	next := daily.Clone()
	next.PendingSettlement = next.PendingSettlement.Sub(amount)
	next.InSettlementProcess = next.InSettlementProcess.Add(amount)
	return next, nil
}

// CheckReference validates a payment reference before any lookup happens.
func CheckReference(paymentReference string) error {
	if len(strings.TrimSpace(paymentReference)) < minReferenceLength {
		return xerrors.E("CompleteSettlement", xerrors.ErrInvalidReference)
	}
	return nil
}

// Complete moves the request amount from in-process to settled.
func Complete(daily *entity.DailySettlement, req *entity.SettlementRequest, paymentReference string) (*entity.DailySettlement, error) {
	const op = "CompleteSettlement"
	if err := CheckReference(paymentReference); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "settlement request not found")
	}
	if req.Status == entity.SettlementStatusCompleted {
		return nil, xerrors.E(op, xerrors.ErrAlreadyCompleted)
	}
	if daily == nil || daily.InSettlementProcess.LessThan(req.Amount) {
		return nil, xerrors.New(xerrors.KindInvalidState, op, "ledger holds less in settlement than the request amount")
	}

	next := daily.Clone()
	next.InSettlementProcess = next.InSettlementProcess.Sub(req.Amount)
	next.PaymentSettled = next.PaymentSettled.Add(req.Amount)
	return next, nil
}

// NewReference returns a sortable human-facing settlement reference.
func NewReference(now time.Time) string {
	return "STL-" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}
