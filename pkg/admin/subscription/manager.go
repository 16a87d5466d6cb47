package subscription

import (
	"context"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/repository/unitofwork"
	adminEvents "evcharge-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager applies lifecycle transitions to stored vendor subscriptions and
// station premiums. Every mutation is one transaction guarded by the row
// version; events go out only after commit.
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
	now       func() time.Time
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Tests use it to pin now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) GetVendorSubscription(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID) (*entity.VendorSubscription, error) {
	sub, err := uow.SubscriptionRepository().FindByVendorId(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, xerrors.New(xerrors.KindNotFound, "GetVendorSubscription", "vendor subscription not found")
	}
	return sub, nil
}

func (m *Manager) GetStation(ctx context.Context, uow unitofwork.UnitOfWork, stationId uuid.UUID) (*entity.Station, error) {
	station, err := uow.StationRepository().FindById(ctx, stationId)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, xerrors.New(xerrors.KindNotFound, "GetStation", "station not found")
	}
	return station, nil
}

type subscriptionTransition func(sub *entity.VendorSubscription, now time.Time) (*entity.VendorSubscription, error)

func (m *Manager) mutateSubscription(ctx context.Context, uow unitofwork.UnitOfWork, op string, vendorId uuid.UUID, expectedVersion *int, actor string, apply subscriptionTransition) (*entity.VendorSubscription, *entity.VendorSubscription, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	current, err := uow.SubscriptionRepository().FindByVendorId(ctx, vendorId)
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		return nil, nil, xerrors.New(xerrors.KindNotFound, op, "vendor subscription not found")
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return nil, nil, xerrors.E(op, xerrors.ErrConcurrentModification)
	}

	now := m.now()
	next, err := apply(current, now)
	if err != nil {
		return nil, nil, err
	}
	next.UpdatedBy = actor
	next.UpdatedAt = now

	if err := uow.SubscriptionRepository().Update(ctx, next, current.Version); err != nil {
		return nil, nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}
	return current, next, nil
}

func (m *Manager) audit(message, actor, reason string, before, after *entity.VendorSubscription) {
	m.logger.Info("SUBSCRIPTION", message, map[string]interface{}{
		"vendorId":     after.VendorId.String(),
		"actor":        actor,
		"reason":       reason,
		"previousType": string(before.Type),
		"type":         string(after.Type),
		"previousEnd":  before.EndDate,
		"endDate":      after.EndDate,
		"status":       string(after.Status),
		"maxStations":  after.MaxStations,
		"version":      after.Version,
	})
}

// Extend adds the requested duration to the stored end date.
func (m *Manager) Extend(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, req dto.ExtendVendorSubscriptionRequest, actor string) (*entity.VendorSubscription, error) {
	d := entity.Duration{Days: req.Days, Months: req.Months, Years: req.Years}
	before, after, err := m.mutateSubscription(ctx, uow, "ExtendVendorSubscription", vendorId, req.ExpectedVersion, actor,
		func(sub *entity.VendorSubscription, now time.Time) (*entity.VendorSubscription, error) {
			return ExtendVendorSubscription(sub, d, req.Reason, now)
		})
	if err != nil {
		return nil, err
	}

	m.audit("Extended Vendor Subscription", actor, req.Reason, before, after)
	m.publisher.PublishSubscriptionChanged(ctx, adminEvents.SubscriptionExtended, after, actor, req.Reason)
	return after, nil
}

func (m *Manager) Modify(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, req dto.ModifyVendorSubscriptionRequest, actor string) (*entity.VendorSubscription, error) {
	mod := Modification{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxStations: req.MaxStations,
		AutoRenew:   req.AutoRenew,
	}
	if req.Type != nil {
		t := entity.SubscriptionType(*req.Type)
		mod.Type = &t
	}
	if req.Status != nil {
		s := entity.SubscriptionStatus(*req.Status)
		mod.Status = &s
	}

	before, after, err := m.mutateSubscription(ctx, uow, "ModifyVendorSubscription", vendorId, req.ExpectedVersion, actor,
		func(sub *entity.VendorSubscription, now time.Time) (*entity.VendorSubscription, error) {
			return ModifyVendorSubscription(sub, mod, req.Reason, now)
		})
	if err != nil {
		return nil, err
	}

	m.audit("Modified Vendor Subscription", actor, req.Reason, before, after)
	m.publisher.PublishSubscriptionChanged(ctx, adminEvents.SubscriptionModified, after, actor, req.Reason)
	return after, nil
}

func (m *Manager) Upgrade(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, req dto.UpgradeSubscriptionRequest, actor string) (*entity.VendorSubscription, error) {
	before, after, err := m.mutateSubscription(ctx, uow, "UpgradeTrialToYearly", vendorId, req.ExpectedVersion, actor,
		func(sub *entity.VendorSubscription, now time.Time) (*entity.VendorSubscription, error) {
			return UpgradeTrialToYearly(sub, req.Reason, now)
		})
	if err != nil {
		return nil, err
	}

	m.audit("Upgraded Vendor Subscription", actor, req.Reason, before, after)
	m.publisher.PublishSubscriptionChanged(ctx, adminEvents.SubscriptionUpgraded, after, actor, req.Reason)
	return after, nil
}

// Expire persists the expired status of one lapsed subscription. A concurrent
// edit wins: the stale version surfaces as CONCURRENT_MODIFICATION.
func (m *Manager) Expire(ctx context.Context, uow unitofwork.UnitOfWork, lapsed *entity.VendorSubscription) (*entity.VendorSubscription, error) {
	_, after, err := m.mutateSubscription(ctx, uow, "ExpireLapsed", lapsed.VendorId, &lapsed.Version, "system",
		ExpireLapsed)
	if err != nil {
		return nil, err
	}

	m.logger.Info("SUBSCRIPTION", "Marked Vendor Subscription Expired", map[string]interface{}{
		"vendorId": after.VendorId.String(),
		"endDate":  after.EndDate,
	})
	m.publisher.PublishSubscriptionChanged(ctx, adminEvents.SubscriptionExpired, after, "system", "end date passed")
	return after, nil
}

type premiumTransition func(station *entity.Station, now time.Time) (entity.StationPremium, error)

func (m *Manager) mutateStation(ctx context.Context, uow unitofwork.UnitOfWork, op string, stationId uuid.UUID, expectedVersion *int, requireOperational bool, apply premiumTransition) (*entity.Station, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	station, err := uow.StationRepository().FindById(ctx, stationId)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "station not found")
	}
	if expectedVersion != nil && *expectedVersion != station.Version {
		return nil, xerrors.E(op, xerrors.ErrConcurrentModification)
	}

	now := m.now()
	if requireOperational {
		sub, err := uow.SubscriptionRepository().FindByVendorId(ctx, station.VendorId)
		if err != nil {
			return nil, err
		}
		if err := EnsureOperational(sub, now); err != nil {
			return nil, xerrors.New(xerrors.KindSubscriptionExpired, op, "vendor subscription is expired or suspended")
		}
	}

	premium, err := apply(station, now)
	if err != nil {
		return nil, err
	}

	next := station.Clone()
	next.Premium = premium
	next.UpdatedAt = now
	if err := uow.StationRepository().Update(ctx, next, station.Version); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}

func (m *Manager) auditPremium(message, actor, reason string, station *entity.Station) {
	details := map[string]interface{}{
		"stationId": station.Id.String(),
		"vendorId":  station.VendorId.String(),
		"actor":     actor,
		"isActive":  station.Premium.IsActive,
		"version":   station.Version,
	}
	if reason != "" {
		details["reason"] = reason
	}
	if station.Premium.EndDate != nil {
		details["endDate"] = *station.Premium.EndDate
	}
	m.logger.Info("SUBSCRIPTION", message, details)
}

func (m *Manager) ActivatePremium(ctx context.Context, uow unitofwork.UnitOfWork, stationId uuid.UUID, req dto.StationPremiumRequest, actor string) (*entity.Station, error) {
	planType := entity.PremiumType(req.PlanType)
	station, err := m.mutateStation(ctx, uow, "ActivateStationPremium", stationId, req.ExpectedVersion, true,
		func(s *entity.Station, now time.Time) (entity.StationPremium, error) {
			return ActivateStationPremium(s.Premium, planType, now)
		})
	if err != nil {
		return nil, err
	}

	m.auditPremium("Activated Station Premium", actor, "", station)
	m.publisher.PublishStationPremiumChanged(ctx, adminEvents.StationPremiumActivated, station, actor, "")
	return station, nil
}

func (m *Manager) ExtendPremium(ctx context.Context, uow unitofwork.UnitOfWork, stationId uuid.UUID, req dto.StationPremiumRequest, actor string) (*entity.Station, error) {
	planType := entity.PremiumType(req.PlanType)
	station, err := m.mutateStation(ctx, uow, "ExtendStationPremium", stationId, req.ExpectedVersion, true,
		func(s *entity.Station, now time.Time) (entity.StationPremium, error) {
			return ExtendStationPremium(s.Premium, planType, now)
		})
	if err != nil {
		return nil, err
	}

	m.auditPremium("Extended Station Premium", actor, "", station)
	m.publisher.PublishStationPremiumChanged(ctx, adminEvents.StationPremiumExtended, station, actor, "")
	return station, nil
}

// DeactivatePremium is allowed on dead vendor plans so premiums can be cleaned up.
func (m *Manager) DeactivatePremium(ctx context.Context, uow unitofwork.UnitOfWork, stationId uuid.UUID, req dto.DeactivatePremiumRequest, actor string) (*entity.Station, error) {
	station, err := m.mutateStation(ctx, uow, "DeactivateStationPremium", stationId, req.ExpectedVersion, false,
		func(s *entity.Station, now time.Time) (entity.StationPremium, error) {
			return DeactivateStationPremium(s.Premium, req.Reason)
		})
	if err != nil {
		return nil, err
	}

	m.auditPremium("Deactivated Station Premium", actor, req.Reason, station)
	m.publisher.PublishStationPremiumChanged(ctx, adminEvents.StationPremiumDeactivated, station, actor, req.Reason)
	return station, nil
}
