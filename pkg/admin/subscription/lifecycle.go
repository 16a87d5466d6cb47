package subscription

import (
	"strings"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
)

// Pure transitions. Each returns a new value and leaves its input untouched,
// so a failed call never leaves a partial update behind.

func ActivateStationPremium(p entity.StationPremium, planType entity.PremiumType, now time.Time) (entity.StationPremium, error) {
	const op = "ActivateStationPremium"
	if !planType.Valid() {
		return p, xerrors.New(xerrors.KindValidation, op, "plan type must be monthly or yearly")
	}
	// A stored flag whose end date has passed counts as inactive.
	if p.IsPremiumActive(now) {
		return p, xerrors.E(op, xerrors.ErrAlreadyActive)
	}

	start := now
	end := now.Add(entity.PeriodFor(planType))
	t := planType
	return entity.StationPremium{IsActive: true, Type: &t, StartDate: &start, EndDate: &end}, nil
}

// ExtendStationPremium adds a period to the later of now and the current
// expiry, so remaining paid time is never lost.
func ExtendStationPremium(p entity.StationPremium, planType entity.PremiumType, now time.Time) (entity.StationPremium, error) {
	const op = "ExtendStationPremium"
	if !planType.Valid() {
		return p, xerrors.New(xerrors.KindValidation, op, "plan type must be monthly or yearly")
	}
	if !p.IsPremiumActive(now) {
		return p, xerrors.E(op, xerrors.ErrNotActive)
	}

	next := p.Clone()
	base := *p.EndDate
	if now.After(base) {
		base = now
	}
	end := base.Add(entity.PeriodFor(planType))
	t := planType
	next.EndDate = &end
	next.Type = &t
	return next, nil
}

func DeactivateStationPremium(p entity.StationPremium, reason string) (entity.StationPremium, error) {
	if strings.TrimSpace(reason) == "" {
		return p, xerrors.E("DeactivateStationPremium", xerrors.ErrReasonRequired)
	}
	return entity.StationPremium{}, nil
}

// ExtendVendorSubscription always counts forward from the stored end date,
// even when it already lies in the past.
func ExtendVendorSubscription(sub *entity.VendorSubscription, d entity.Duration, reason string, now time.Time) (*entity.VendorSubscription, error) {
	const op = "ExtendVendorSubscription"
	if d.Days < 0 || d.Months < 0 || d.Years < 0 {
		return nil, xerrors.New(xerrors.KindValidation, op, "duration parts must not be negative")
	}
	if d.IsZero() {
		return nil, xerrors.E(op, xerrors.ErrNoDurationSpecified)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, xerrors.E(op, xerrors.ErrReasonRequired)
	}

	next := sub.Clone()
	next.EndDate = sub.EndDate.AddDate(0, 0, d.TotalDays())
	if !next.EndDate.After(next.StartDate) {
		return nil, xerrors.E(op, xerrors.ErrInvalidDateRange)
	}
	// Extension revives a lapsed plan. Suspension is lifted only through modify.
	if next.Status == entity.SubscriptionStatusExpired && next.EndDate.After(now) {
		next.Status = entity.SubscriptionStatusActive
	}
	return next, nil
}

// Modification is a partial update; nil fields keep their prior value.
type Modification struct {
	Type        *entity.SubscriptionType
	Status      *entity.SubscriptionStatus
	StartDate   *time.Time
	EndDate     *time.Time
	MaxStations *int
	AutoRenew   *bool
}

func ModifyVendorSubscription(sub *entity.VendorSubscription, m Modification, reason string, now time.Time) (*entity.VendorSubscription, error) {
	const op = "ModifyVendorSubscription"
	if strings.TrimSpace(reason) == "" {
		return nil, xerrors.E(op, xerrors.ErrReasonRequired)
	}
	if m.Type != nil && !m.Type.Valid() {
		return nil, xerrors.New(xerrors.KindValidation, op, "unknown subscription type")
	}
	if m.Status != nil && !m.Status.Valid() {
		return nil, xerrors.New(xerrors.KindValidation, op, "unknown subscription status")
	}
	if m.MaxStations != nil && *m.MaxStations < 1 {
		return nil, xerrors.New(xerrors.KindValidation, op, "max stations must be at least 1")
	}

	next := sub.Clone()
	if m.Type != nil && *m.Type != sub.Type {
		next.Type = *m.Type
		next.Features = entity.FeaturesFor(*m.Type)
		next.MaxStations = entity.MaxStationsFor(*m.Type)
	}
	if m.MaxStations != nil {
		next.MaxStations = *m.MaxStations
	}
	if m.Status != nil {
		next.Status = *m.Status
	}
	if m.StartDate != nil {
		next.StartDate = *m.StartDate
	}
	if m.EndDate != nil {
		next.EndDate = *m.EndDate
	}
	if m.AutoRenew != nil {
		next.AutoRenew = *m.AutoRenew
	}

	if !next.EndDate.After(next.StartDate) {
		return nil, xerrors.E(op, xerrors.ErrInvalidDateRange)
	}
	return next, nil
}

// UpgradeTrialToYearly restarts the plan at now with the full yearly
// entitlement. It is the only path that guarantees every feature flag.
func UpgradeTrialToYearly(sub *entity.VendorSubscription, reason string, now time.Time) (*entity.VendorSubscription, error) {
	if sub.Type == entity.SubscriptionTypeYearly {
		return nil, xerrors.E("UpgradeTrialToYearly", xerrors.ErrAlreadyYearly)
	}

	next := sub.Clone()
	next.Type = entity.SubscriptionTypeYearly
	next.Status = entity.SubscriptionStatusActive
	next.StartDate = now
	next.EndDate = now.Add(entity.YearlyPeriod)
	next.MaxStations = entity.YearlyMaxStations
	next.Features = entity.FeaturesFor(entity.SubscriptionTypeYearly)
	return next, nil
}

// ExpireLapsed persists the computed expired status. It fails INVALID_STATE
// when the subscription is still running or already marked.
func ExpireLapsed(sub *entity.VendorSubscription, now time.Time) (*entity.VendorSubscription, error) {
	if sub.Status != entity.SubscriptionStatusActive || sub.EndDate.After(now) {
		return nil, xerrors.New(xerrors.KindInvalidState, "ExpireLapsed", "subscription has not lapsed")
	}
	next := sub.Clone()
	next.Status = entity.SubscriptionStatusExpired
	return next, nil
}

// EnsureOperational rejects station work for vendors whose plan is expired or suspended.
func EnsureOperational(sub *entity.VendorSubscription, now time.Time) error {
	if sub == nil || !sub.IsOperational(now) {
		return xerrors.E("EnsureOperational", xerrors.ErrSubscriptionExpired)
	}
	return nil
}
