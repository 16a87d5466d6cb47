package refund

import (
	"testing"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name                string
		original, fee       string
		wantSlot, wantFinal string
	}{
		{"standard booking", "1000", "100", "50", "850"},
		{"rounds slot fee", "333.33", "10", "16.67", "306.66"},
		{"fees exceed amount", "100", "98", "5", "0"},
		{"no platform fee", "200", "0", "10", "190"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc := Calculate(money(tc.original), money(tc.fee))
			assert.True(t, money(tc.fee).Equal(calc.PlatformFeeDeducted))
			assert.True(t, money(tc.wantSlot).Equal(calc.SlotOccupancyFee), calc.SlotOccupancyFee.String())
			assert.True(t, money(tc.wantFinal).Equal(calc.FinalRefundAmount), calc.FinalRefundAmount.String())
		})
	}
}

func pending() *entity.RefundRequest {
	return &entity.RefundRequest{Status: entity.RefundStatusPending}
}

func TestClaimAndRelease(t *testing.T) {
	claimed, err := Claim(pending(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusProcessing, claimed.Status)
	assert.Equal(t, "admin-1", claimed.ProcessedBy)

	_, err = Claim(claimed, "admin-2")
	assert.Equal(t, xerrors.KindInvalidState, xerrors.KindOf(err))

	released, err := Release(claimed)
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusPending, released.Status)
	assert.Empty(t, released.ProcessedBy)

	_, err = Release(released)
	assert.Equal(t, xerrors.KindInvalidState, xerrors.KindOf(err))
}

func TestProcess(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	_, err := Process(pending(), "   ", "", "admin-1", now)
	assert.ErrorIs(t, err, xerrors.ErrMissingTransactionId)

	done, err := Process(pending(), " TXN-77 ", "bank transfer", "admin-1", now)
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusCompleted, done.Status)
	assert.Equal(t, "TXN-77", done.TransactionId)
	require.NotNil(t, done.ProcessedAt)
	assert.True(t, now.Equal(*done.ProcessedAt))

	claimed, err := Claim(pending(), "admin-1")
	require.NoError(t, err)
	_, err = Process(claimed, "TXN-78", "", "admin-1", now)
	assert.NoError(t, err)

	_, err = Process(done, "TXN-79", "", "admin-1", now)
	assert.ErrorIs(t, err, xerrors.ErrInvalidState)
}

func TestCloseNeverReopens(t *testing.T) {
	now := time.Now()
	_, err := Close(pending(), entity.RefundStatusRejected, "", "admin-1", now)
	assert.ErrorIs(t, err, xerrors.ErrReasonRequired)

	_, err = Close(pending(), entity.RefundStatusCompleted, "x", "admin-1", now)
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))

	rejected, err := Close(pending(), entity.RefundStatusRejected, "duplicate booking", "admin-1", now)
	require.NoError(t, err)
	assert.Equal(t, "duplicate booking", rejected.Reason)

	for _, status := range []entity.RefundStatus{entity.RefundStatusRejected, entity.RefundStatusFailed, entity.RefundStatusCompleted} {
		closed := &entity.RefundRequest{Status: status}
		_, err := Close(closed, entity.RefundStatusFailed, "again", "admin-1", now)
		assert.ErrorIs(t, err, xerrors.ErrInvalidState, string(status))
		_, err = Claim(closed, "admin-1")
		assert.ErrorIs(t, err, xerrors.ErrInvalidState, string(status))
	}
}
