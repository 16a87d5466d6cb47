package settlement

import (
	"strings"
	"testing"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bank = &entity.BankDetails{AccountName: "Volt Hub Pvt", AccountNumber: "0012345678", BankName: "Everest Bank"}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s", want, got.StringFixed(2))
}

func pendingDay(amount string) *entity.DailySettlement {
	d := entity.NewDailySettlement(uuid.New(), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	d.TotalToBeReceived = money(amount)
	d.PendingSettlement = money(amount)
	return d
}

func TestCredit(t *testing.T) {
	d := entity.NewDailySettlement(uuid.New(), time.Now())
	assert.Equal(t, entity.LedgerStateNoTransactions, d.State())

	next, err := Credit(d, money("1200.50"))
	require.NoError(t, err)
	next, err = Credit(next, money("99.494"))
	require.NoError(t, err)

	assertMoney(t, "1299.99", next.TotalToBeReceived)
	assertMoney(t, "1299.99", next.PendingSettlement)
	assert.True(t, next.Balanced())
	assert.Equal(t, entity.LedgerStatePendingSettlement, next.State())
	assert.True(t, d.TotalToBeReceived.IsZero(), "input untouched")

	_, err = Credit(d, decimal.Zero)
	assert.ErrorIs(t, err, xerrors.ErrInvalidAmount)
}

func TestInitiateMovesPendingToInProcess(t *testing.T) {
	d := pendingDay("5000")
	next, err := Initiate(d, nil, bank, money("5000.00"))
	require.NoError(t, err)
	assertMoney(t, "0", next.PendingSettlement)
	assertMoney(t, "5000", next.InSettlementProcess)
	assert.True(t, next.Balanced())
	assert.Equal(t, entity.LedgerStateInSettlementProcess, next.State())
}

func TestInitiateGuards(t *testing.T) {
	open := &entity.SettlementRequest{Status: entity.SettlementStatusProcessing}

	cases := []struct {
		name  string
		daily *entity.DailySettlement
		open  *entity.SettlementRequest
		bank  *entity.BankDetails
		amt   string
		want  *xerrors.Error
	}{
		{"no row", nil, nil, bank, "10", xerrors.ErrNothingToSettle},
		{"empty pending", entity.NewDailySettlement(uuid.New(), time.Now()), nil, bank, "0", xerrors.ErrNothingToSettle},
		{"partial amount", pendingDay("5000"), nil, bank, "4000", xerrors.ErrAmountMismatch},
		{"open request", pendingDay("5000"), open, bank, "5000", xerrors.ErrSettlementAlreadyInProgress},
		{"no bank details", pendingDay("5000"), nil, nil, "5000", xerrors.ErrMissingBankDetails},
		{"incomplete bank details", pendingDay("5000"), nil, &entity.BankDetails{AccountName: "x"}, "5000", xerrors.ErrMissingBankDetails},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Initiate(tc.daily, tc.open, tc.bank, money(tc.amt))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComplete(t *testing.T) {
	d := pendingDay("5000")
	d, err := Initiate(d, nil, bank, money("5000"))
	require.NoError(t, err)
	req := &entity.SettlementRequest{Amount: money("5000"), Status: entity.SettlementStatusProcessing}

	_, err = Complete(d, req, "  ab ")
	assert.ErrorIs(t, err, xerrors.ErrInvalidReference)

	next, err := Complete(d, req, "TXN123")
	require.NoError(t, err)
	assertMoney(t, "0", next.InSettlementProcess)
	assertMoney(t, "5000", next.PaymentSettled)
	assert.True(t, next.Balanced())
	assert.Equal(t, entity.LedgerStatePaymentSettled, next.State())

	req.Status = entity.SettlementStatusCompleted
	_, err = Complete(next, req, "TXN123")
	assert.ErrorIs(t, err, xerrors.ErrAlreadyCompleted)

	_, err = Complete(next, nil, "TXN123")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestNewReferenceIsUniqueAndPrefixed(t *testing.T) {
	now := time.Now()
	a, b := NewReference(now), NewReference(now)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "STL-"))
	assert.Len(t, a, 4+26)
}
