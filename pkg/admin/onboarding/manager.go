package onboarding

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
	"evcharge-be/pkg/admin/subscription"

	"github.com/google/uuid"
)

// Manager handles vendor onboarding and station registration
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
	now       func() time.Time
}

// NewManager creates a new vendor manager
func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Register creates the vendor together with its trial subscription.
func (m *Manager) Register(ctx context.Context, uow unitofwork.UnitOfWork, req dto.RegisterVendorRequest) (*entity.Vendor, *entity.VendorSubscription, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	existing, err := uow.VendorRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, xerrors.E("RegisterVendor", xerrors.ErrAlreadyRegistered)
	}

	now := m.now()
	vendor := &entity.Vendor{
		Id:           uuid.New(),
		BusinessName: strings.TrimSpace(req.BusinessName),
		Email:        email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.VendorRepository().Create(ctx, vendor); err != nil {
		return nil, nil, err
	}
	sub := entity.NewTrialSubscription(vendor.Id, now)
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}

	m.logger.Info("VENDOR", "Vendor Registered", map[string]interface{}{
		"vendorId": vendor.Id.String(),
		"email":    vendor.Email,
		"trialEnd": sub.EndDate,
	})
	return vendor, sub, nil
}

func (m *Manager) Get(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID) (*entity.Vendor, error) {
	vendor, err := uow.VendorRepository().FindById(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, xerrors.New(xerrors.KindNotFound, "GetVendor", "vendor not found")
	}
	return vendor, nil
}

// List returns a page of vendors and the total count
func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, req dto.VendorListRequest) ([]*entity.Vendor, int64, error) {
	vendors, err := uow.VendorRepository().FindAll(ctx, contract.Page(req.Page, req.Limit))
	if err != nil {
		return nil, 0, err
	}
	total, err := uow.VendorRepository().Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

func (m *Manager) mutate(ctx context.Context, uow unitofwork.UnitOfWork, op string, vendorId uuid.UUID, apply func(v *entity.Vendor, now time.Time) error) (*entity.Vendor, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	vendor, err := uow.VendorRepository().FindById(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "vendor not found")
	}

	now := m.now()
	if err := apply(vendor, now); err != nil {
		return nil, err
	}
	vendor.UpdatedAt = now
	if err := uow.VendorRepository().Update(ctx, vendor); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Verify marks the vendor as vetted by an admin. Verifying twice is rejected.
func (m *Manager) Verify(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, actor string) (*entity.Vendor, error) {
	vendor, err := m.mutate(ctx, uow, "VerifyVendor", vendorId, func(v *entity.Vendor, now time.Time) error {
		if v.IsVerified {
			return xerrors.E("VerifyVendor", xerrors.ErrAlreadyVerified)
		}
		v.IsVerified = true
		v.VerifiedAt = &now
		v.VerifiedBy = actor
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("VENDOR", "Vendor Verified", map[string]interface{}{
		"vendorId": vendor.Id.String(),
		"actor":    actor,
	})
	m.publisher.PublishVendorVerified(ctx, vendor, actor)
	return vendor, nil
}

// UpdateBankDetails replaces the payout account used by settlements.
func (m *Manager) UpdateBankDetails(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, req dto.BankDetailsRequest, actor string) (*entity.Vendor, error) {
	details := &entity.BankDetails{
		AccountName:   strings.TrimSpace(req.AccountName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		BankName:      strings.TrimSpace(req.BankName),
		BranchName:    strings.TrimSpace(req.BranchName),
	}
	if !details.Complete() {
		return nil, xerrors.New(xerrors.KindValidation, "UpdateBankDetails", "account name, account number and bank name are required")
	}

	vendor, err := m.mutate(ctx, uow, "UpdateBankDetails", vendorId, func(v *entity.Vendor, _ time.Time) error {
		v.BankDetails = details
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("VENDOR", "Bank Details Updated", map[string]interface{}{
		"vendorId": vendor.Id.String(),
		"bankName": details.BankName,
		"actor":    actor,
	})
	return vendor, nil
}

// RegisterStation adds a station within the plan's station allowance. The
// subscription row stays locked until commit so parallel registrations
// cannot both take the last slot.
func (m *Manager) RegisterStation(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID, req dto.CreateStationRequest, actor string) (*entity.Station, error) {
	const op = "RegisterStation"
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindByVendorIdForUpdate(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, xerrors.New(xerrors.KindNotFound, op, "vendor subscription not found")
	}
	now := m.now()
	if err := subscription.EnsureOperational(sub, now); err != nil {
		return nil, xerrors.New(xerrors.KindSubscriptionExpired, op, "")
	}

	count, err := uow.StationRepository().CountByVendorId(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if count >= int64(sub.MaxStations) {
		return nil, xerrors.E(op, xerrors.ErrStationLimitReached)
	}

	station := &entity.Station{
		Id:        uuid.New(),
		VendorId:  vendorId,
		Name:      strings.TrimSpace(req.Name),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.StationRepository().Create(ctx, station); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	m.logger.Info("VENDOR", "Station Registered", map[string]interface{}{
		"vendorId":  vendorId.String(),
		"stationId": station.Id.String(),
		"count":     count + 1,
		"limit":     sub.MaxStations,
		"actor":     actor,
	})
	return station, nil
}

func (m *Manager) ListStations(ctx context.Context, uow unitofwork.UnitOfWork, vendorId uuid.UUID) ([]*entity.Station, error) {
	if _, err := m.Get(ctx, uow, vendorId); err != nil {
		return nil, err
	}
	return uow.StationRepository().FindByVendorId(ctx, vendorId)
}
