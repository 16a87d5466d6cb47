package onboarding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/repository/memory"
	"evcharge-be/internal/repository/unitofwork"
	adminEvents "evcharge-be/pkg/admin/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ManagerSuite struct {
	suite.Suite
	ctx      context.Context
	factory  unitofwork.RepositoryFactory
	recorder *adminEvents.Recorder
	manager  *Manager
	now      time.Time
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.factory = memory.NewStore().RepositoryFactory()
	s.recorder = adminEvents.NewRecorder()
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.manager = NewManager(logger.NewNopLogger(), s.recorder).WithClock(func() time.Time { return s.now })
}

func (s *ManagerSuite) uow() unitofwork.UnitOfWork {
	return s.factory.NewUnitOfWork(s.ctx)
}

func (s *ManagerSuite) register(email string) *entity.Vendor {
	v, _, err := s.manager.Register(s.ctx, s.uow(), dto.RegisterVendorRequest{BusinessName: "Volt Hub", Email: email})
	s.Require().NoError(err)
	return v
}

func (s *ManagerSuite) TestRegisterStartsTrial() {
	vendor, sub, err := s.manager.Register(s.ctx, s.uow(), dto.RegisterVendorRequest{BusinessName: " Volt Hub ", Email: " Ops@VoltHub.test"})
	s.Require().NoError(err)
	s.Equal("ops@volthub.test", vendor.Email)
	s.Equal("Volt Hub", vendor.BusinessName)

	s.Equal(entity.SubscriptionTypeTrial, sub.Type)
	s.Equal(entity.SubscriptionStatusActive, sub.Status)
	s.True(s.now.Add(7 * 24 * time.Hour).Equal(sub.EndDate))
	s.Equal(5, sub.MaxStations)
	s.True(sub.Features.Enabled(entity.FeatureBasicDashboard))
	s.False(sub.Features.Enabled(entity.FeatureAdvancedAnalytics))

	_, _, err = s.manager.Register(s.ctx, s.uow(), dto.RegisterVendorRequest{BusinessName: "Copy", Email: "ops@volthub.test"})
	s.ErrorIs(err, xerrors.ErrAlreadyRegistered)
}

func (s *ManagerSuite) TestVerifyOnce() {
	vendor := s.register("a@test")

	verified, err := s.manager.Verify(s.ctx, s.uow(), vendor.Id, "admin-1")
	s.Require().NoError(err)
	s.True(verified.IsVerified)
	s.Equal("admin-1", verified.VerifiedBy)

	_, err = s.manager.Verify(s.ctx, s.uow(), vendor.Id, "admin-2")
	s.ErrorIs(err, xerrors.ErrAlreadyVerified)
	s.Equal([]string{adminEvents.VendorVerified}, s.recorder.Types())

	_, err = s.manager.Verify(s.ctx, s.uow(), uuid.New(), "admin-1")
	s.ErrorIs(err, xerrors.ErrNotFound)
}

func (s *ManagerSuite) TestUpdateBankDetails() {
	vendor := s.register("b@test")

	_, err := s.manager.UpdateBankDetails(s.ctx, s.uow(), vendor.Id, dto.BankDetailsRequest{AccountName: "Volt"}, "vendor")
	s.Equal(xerrors.KindValidation, xerrors.KindOf(err))

	_, err = s.manager.UpdateBankDetails(s.ctx, s.uow(), vendor.Id, dto.BankDetailsRequest{
		AccountName: "Volt Hub Pvt", AccountNumber: "001234567", BankName: "Everest Bank",
	}, "vendor")
	s.Require().NoError(err)

	stored, err := s.manager.Get(s.ctx, s.uow(), vendor.Id)
	s.Require().NoError(err)
	s.True(stored.BankDetails.Complete())
}

func (s *ManagerSuite) TestStationLimit() {
	vendor := s.register("c@test")
	for i := 0; i < 5; i++ {
		_, err := s.manager.RegisterStation(s.ctx, s.uow(), vendor.Id, dto.CreateStationRequest{Name: fmt.Sprintf("Bay %d", i+1)}, "vendor")
		s.Require().NoError(err)
	}
	_, err := s.manager.RegisterStation(s.ctx, s.uow(), vendor.Id, dto.CreateStationRequest{Name: "Bay 6"}, "vendor")
	s.ErrorIs(err, xerrors.ErrStationLimitReached)

	stations, err := s.manager.ListStations(s.ctx, s.uow(), vendor.Id)
	s.Require().NoError(err)
	s.Len(stations, 5)
}

func (s *ManagerSuite) TestStationRefusedAfterTrialEnds() {
	vendor := s.register("d@test")
	s.now = s.now.Add(8 * 24 * time.Hour)
	_, err := s.manager.RegisterStation(s.ctx, s.uow(), vendor.Id, dto.CreateStationRequest{Name: "Late"}, "vendor")
	s.ErrorIs(err, xerrors.ErrSubscriptionExpired)
}

func (s *ManagerSuite) TestListVendors() {
	s.register("e@test")
	s.register("f@test")
	vendors, total, err := s.manager.List(s.ctx, s.uow(), dto.VendorListRequest{Page: 1, Limit: 1})
	s.Require().NoError(err)
	s.Len(vendors, 1)
	s.EqualValues(2, total)
}
