package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func TestDaysUntilExpiration(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{name: "exactly one day", end: now.Add(Day), want: 1},
		{name: "partial day rounds up", end: now.Add(25 * time.Hour), want: 2},
		{name: "one second left", end: now.Add(time.Second), want: 1},
		{name: "now", end: now, want: 0},
		{name: "past clamps to zero", end: now.Add(-3 * Day), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilExpiration(tt.end, now))
		})
	}
}

func TestVendorSubscriptionExpiry(t *testing.T) {
	sub := NewTrialSubscription(uuid.New(), now)

	assert.False(t, sub.IsExpired(now))
	assert.True(t, sub.IsExpiringSoon(now, ExpiringSoonDays))
	assert.Equal(t, SubscriptionStatusActive, sub.ComputeStatus(now))

	later := now.Add(TrialPeriod)
	assert.True(t, sub.IsExpired(later), "end date equal to now counts as expired")
	assert.False(t, sub.IsExpiringSoon(later, ExpiringSoonDays))
	assert.Equal(t, SubscriptionStatusExpired, sub.ComputeStatus(later))

	sub.Status = SubscriptionStatusExpired
	assert.True(t, sub.IsExpired(now), "stored expired status wins even before end date")
}

func TestExpiringSoonThreshold(t *testing.T) {
	sub := &VendorSubscription{Status: SubscriptionStatusActive, StartDate: now, EndDate: now.Add(8 * Day)}
	assert.False(t, sub.IsExpiringSoon(now, 7))
	assert.True(t, sub.IsExpiringSoon(now, 8))
}

func TestSuspendedIsNotOperational(t *testing.T) {
	sub := NewTrialSubscription(uuid.New(), now)
	sub.Status = SubscriptionStatusSuspended
	assert.False(t, sub.IsOperational(now))
	assert.Equal(t, SubscriptionStatusSuspended, sub.ComputeStatus(now))
}

func TestTrialDefaults(t *testing.T) {
	sub := NewTrialSubscription(uuid.New(), now)

	assert.Equal(t, SubscriptionTypeTrial, sub.Type)
	assert.Equal(t, now.Add(7*Day), sub.EndDate)
	assert.Equal(t, 5, sub.MaxStations)
	assert.Equal(t, []Feature{FeatureBasicDashboard}, sub.Features.List())
	assert.Equal(t, AllFeatures, FeaturesFor(SubscriptionTypeYearly).List())
	assert.Equal(t, 50, MaxStationsFor(SubscriptionTypeYearly))
}

func TestCloneDoesNotShareFeatures(t *testing.T) {
	sub := NewTrialSubscription(uuid.New(), now)
	c := sub.Clone()
	c.Features[FeatureApiAccess] = true
	assert.False(t, sub.Features.Enabled(FeatureApiAccess))
}

func TestDurationTotalDays(t *testing.T) {
	assert.True(t, Duration{}.IsZero())
	assert.True(t, Duration{Days: -1}.IsZero())
	assert.Equal(t, 3+2*30+365, Duration{Days: 3, Months: 2, Years: 1}.TotalDays())
}

func TestStationPremiumActivePredicate(t *testing.T) {
	end := now.Add(Day)
	p := StationPremium{IsActive: true, EndDate: &end}
	assert.True(t, p.IsPremiumActive(now))
	assert.False(t, p.IsPremiumActive(end), "lapsed premium is treated as standard")
	assert.False(t, StationPremium{}.IsPremiumActive(now))
	assert.Equal(t, 30*Day, PeriodFor(PremiumTypeMonthly))
	assert.Equal(t, 365*Day, PeriodFor(PremiumTypeYearly))
}

func TestDailySettlementState(t *testing.T) {
	d := NewDailySettlement(uuid.New(), now)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Equal(t, LedgerStateNoTransactions, d.State())

	d.TotalToBeReceived = decimal.NewFromInt(100)
	d.PendingSettlement = decimal.NewFromInt(100)
	assert.Equal(t, LedgerStatePendingSettlement, d.State())
	assert.True(t, d.Balanced())

	d.PendingSettlement = decimal.Zero
	d.InSettlementProcess = decimal.NewFromInt(100)
	assert.Equal(t, LedgerStateInSettlementProcess, d.State())

	d.InSettlementProcess = decimal.Zero
	d.PaymentSettled = decimal.NewFromInt(100)
	assert.Equal(t, LedgerStatePaymentSettled, d.State())
	assert.True(t, d.Balanced())
}

func TestParseCalendarDate(t *testing.T) {
	d, err := ParseCalendarDate("2024-01-10")
	assert.NoError(t, err)
	assert.Equal(t, CalendarDate(now), d)

	_, err = ParseCalendarDate("10/01/2024")
	assert.Error(t, err)
}

func TestRefundStatusTerminal(t *testing.T) {
	assert.False(t, RefundStatusPending.Terminal())
	assert.False(t, RefundStatusProcessing.Terminal())
	assert.True(t, RefundStatusCompleted.Terminal())
	assert.True(t, RefundStatusFailed.Terminal())
	assert.True(t, RefundStatusRejected.Terminal())
	assert.False(t, RefundStatus("approved").Valid())
}
