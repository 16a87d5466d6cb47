package mapper

import (
	"testing"
	"time"

	"evcharge-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAccountNumber(t *testing.T) {
	assert.Equal(t, "******5678", MaskAccountNumber("0012345678"))
	assert.Equal(t, "123", MaskAccountNumber("123"))
}

func TestSubscriptionToResponseDerivesStatus(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	sub := entity.NewTrialSubscription(uuid.New(), now.Add(-6*entity.Day))

	res := SubscriptionToResponse(sub, now)
	assert.Equal(t, "active", res.EffectiveStatus)
	assert.Equal(t, 1, res.DaysUntilExpiration)
	assert.True(t, res.IsExpiringSoon)
	assert.Equal(t, []string{"basicDashboard"}, res.FeaturesEnabled)

	res = SubscriptionToResponse(sub, now.Add(2*entity.Day))
	assert.Equal(t, "active", res.Status)
	assert.Equal(t, "expired", res.EffectiveStatus)
	assert.True(t, res.IsExpired)
	assert.False(t, res.IsExpiringSoon)
}

func TestPremiumToResponseTreatsLapsedAsInactive(t *testing.T) {
	now := time.Now()
	monthly := entity.PremiumTypeMonthly
	start, end := now.Add(-40*entity.Day), now.Add(-10*entity.Day)
	st := &entity.Station{Id: uuid.New(), Premium: entity.StationPremium{IsActive: true, Type: &monthly, StartDate: &start, EndDate: &end}}

	res := PremiumToResponse(st, now)
	assert.True(t, res.IsActive)
	assert.False(t, res.IsPremiumActive)
	require.NotNil(t, res.Type)
	assert.Equal(t, "monthly", *res.Type)
	assert.Zero(t, res.DaysUntilExpiration)
}

func TestSettlementResultCarriesOpenRequest(t *testing.T) {
	d := entity.NewDailySettlement(uuid.New(), time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	d.TotalToBeReceived = decimal.NewFromInt(5000)
	d.InSettlementProcess = decimal.NewFromInt(5000)
	req := &entity.SettlementRequest{Id: uuid.New(), Date: d.Date, Amount: d.InSettlementProcess, Status: entity.SettlementStatusProcessing}

	res := SettlementResultToResponse(req, d)
	assert.Equal(t, "2024-01-10", res.Ledger.Date)
	assert.Equal(t, "IN_SETTLEMENT_PROCESS", res.Ledger.State)
	require.NotNil(t, res.Ledger.OpenRequest)
	assert.Equal(t, req.Id, res.Ledger.OpenRequest.Id)

	req.Status = entity.SettlementStatusCompleted
	assert.Nil(t, SettlementResultToResponse(req, d).Ledger.OpenRequest)
}
