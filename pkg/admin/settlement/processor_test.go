package settlement

import (
	"context"
	"sync"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProcessorSuite struct {
	suite.Suite
	ctx       context.Context
	factory   unitofwork.RepositoryFactory
	recorder  *adminEvents.Recorder
	processor *Processor
	vendorId  uuid.UUID
	now       time.Time
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorSuite))
}

func (s *ProcessorSuite) SetupTest() {
	s.ctx = context.Background()
	s.factory = memory.NewStore().RepositoryFactory()
	s.recorder = adminEvents.NewRecorder()
	s.now = time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	s.processor = NewProcessor(logger.NewNopLogger(), s.recorder).WithClock(func() time.Time { return s.now })
	s.vendorId = uuid.New()
	s.Require().NoError(s.uow().VendorRepository().Create(s.ctx, &entity.Vendor{
		Id:           s.vendorId,
		BusinessName: "Volt Hub",
		Email:        "ops@volthub.test",
		BankDetails:  bank,
	}))
}

func (s *ProcessorSuite) uow() unitofwork.UnitOfWork {
	return s.factory.NewUnitOfWork(s.ctx)
}

func (s *ProcessorSuite) book(amount string) {
	_, err := s.processor.RecordCompletedBooking(s.ctx, s.uow(), dto.RecordBookingRequest{
		BookingId:   uuid.New(),
		VendorId:    s.vendorId,
		FinalAmount: money(amount),
		CompletedAt: time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
}

func (s *ProcessorSuite) day() *entity.DailySettlement {
	view, err := s.processor.GetDailySettlement(s.ctx, s.uow(), s.vendorId, "2024-01-10")
	s.Require().NoError(err)
	s.True(view.Ledger.Balanced())
	return view.Ledger
}

func (s *ProcessorSuite) initiate(amount string) (*Result, error) {
	return s.processor.InitiateSettlement(s.ctx, s.uow(), dto.InitiateSettlementRequest{
		VendorId: s.vendorId,
		Date:     "2024-01-10",
		Amount:   money(amount),
	}, "admin-1")
}

func (s *ProcessorSuite) TestBookingsFillPendingBucket() {
	s.book("3000")
	s.book("2000")
	d := s.day()
	assertMoney(s.T(), "5000", d.PendingSettlement)
	assertMoney(s.T(), "5000", d.TotalToBeReceived)
}

func (s *ProcessorSuite) TestBookingCreditedOnce() {
	req := dto.RecordBookingRequest{BookingId: uuid.New(), VendorId: s.vendorId, FinalAmount: money("700"), CompletedAt: s.now}
	_, err := s.processor.RecordCompletedBooking(s.ctx, s.uow(), req)
	s.Require().NoError(err)
	_, err = s.processor.RecordCompletedBooking(s.ctx, s.uow(), req)
	s.ErrorIs(err, xerrors.ErrBookingAlreadyRecorded)

	view, err := s.processor.GetDailySettlement(s.ctx, s.uow(), s.vendorId, "2024-01-11")
	s.Require().NoError(err)
	assertMoney(s.T(), "700", view.Ledger.TotalToBeReceived)
}

func (s *ProcessorSuite) TestBookingForUnknownVendor() {
	_, err := s.processor.RecordCompletedBooking(s.ctx, s.uow(), dto.RecordBookingRequest{
		BookingId: uuid.New(), VendorId: uuid.New(), FinalAmount: money("10"), CompletedAt: s.now,
	})
	s.ErrorIs(err, xerrors.ErrNotFound)
}

func (s *ProcessorSuite) TestEmptyDayView() {
	view, err := s.processor.GetDailySettlement(s.ctx, s.uow(), s.vendorId, "2023-12-31")
	s.Require().NoError(err)
	s.Equal(entity.LedgerStateNoTransactions, view.Ledger.State())
	s.Nil(view.OpenRequest)

	_, err = s.processor.GetDailySettlement(s.ctx, s.uow(), s.vendorId, "10/01/2024")
	s.Equal(xerrors.KindValidation, xerrors.KindOf(err))
}

// Scenario A then B: initiate, refuse a second initiate, complete.
func (s *ProcessorSuite) TestSettlementRoundTrip() {
	s.book("5000")

	res, err := s.initiate("5000")
	s.Require().NoError(err)
	s.Equal(entity.SettlementStatusProcessing, res.Request.Status)
	s.Equal(entity.SettlementRequestRegular, res.Request.RequestType)
	assertMoney(s.T(), "0", res.Ledger.PendingSettlement)
	assertMoney(s.T(), "5000", res.Ledger.InSettlementProcess)

	_, err = s.initiate("5000")
	s.ErrorIs(err, xerrors.ErrSettlementAlreadyInProgress)

	view, err := s.processor.GetDailySettlement(s.ctx, s.uow(), s.vendorId, "2024-01-10")
	s.Require().NoError(err)
	s.Require().NotNil(view.OpenRequest)
	s.Equal(res.Request.Id, view.OpenRequest.Id)

	_, err = s.processor.CompleteSettlement(s.ctx, s.uow(), res.Request.Id, dto.CompleteSettlementRequest{}, "admin-1")
	s.ErrorIs(err, xerrors.ErrInvalidReference)

	done, err := s.processor.CompleteSettlement(s.ctx, s.uow(), res.Request.Id,
		dto.CompleteSettlementRequest{PaymentReference: "TXN123", ProcessingNotes: "paid via NEFT"}, "admin-1")
	s.Require().NoError(err)
	s.Equal(entity.SettlementStatusCompleted, done.Request.Status)
	s.Equal("TXN123", done.Request.PaymentReference)
	s.Require().NotNil(done.Request.CompletedAt)

	d := s.day()
	assertMoney(s.T(), "0", d.InSettlementProcess)
	assertMoney(s.T(), "5000", d.PaymentSettled)
	s.Equal(entity.LedgerStatePaymentSettled, d.State())
	s.Equal([]string{adminEvents.SettlementCompleted}, s.recorder.Types())
}

func (s *ProcessorSuite) TestCompleteTwiceLeavesBucketsUnchanged() {
	s.book("1500")
	res, err := s.initiate("1500")
	s.Require().NoError(err)

	complete := dto.CompleteSettlementRequest{PaymentReference: "TXN-1"}
	_, err = s.processor.CompleteSettlement(s.ctx, s.uow(), res.Request.Id, complete, "admin-1")
	s.Require().NoError(err)
	before := s.day()

	_, err = s.processor.CompleteSettlement(s.ctx, s.uow(), res.Request.Id, complete, "admin-2")
	s.ErrorIs(err, xerrors.ErrAlreadyCompleted)

	after := s.day()
	s.True(before.PaymentSettled.Equal(after.PaymentSettled))
	s.True(before.InSettlementProcess.Equal(after.InSettlementProcess))
	s.Len(s.recorder.Events(), 1)
}

func (s *ProcessorSuite) TestCompleteUnknownRequest() {
	_, err := s.processor.CompleteSettlement(s.ctx, s.uow(), uuid.New(), dto.CompleteSettlementRequest{PaymentReference: "TXN123"}, "admin-1")
	s.ErrorIs(err, xerrors.ErrNotFound)
}

func (s *ProcessorSuite) TestInitiateGuardsLeaveLedgerUntouched() {
	_, err := s.initiate("100")
	s.ErrorIs(err, xerrors.ErrNothingToSettle)

	s.book("900")
	_, err = s.initiate("899.99")
	s.ErrorIs(err, xerrors.ErrAmountMismatch)

	assertMoney(s.T(), "900", s.day().PendingSettlement)
}

func (s *ProcessorSuite) TestInitiateWithoutBankDetails() {
	vendorId := uuid.New()
	s.Require().NoError(s.uow().VendorRepository().Create(s.ctx, &entity.Vendor{Id: vendorId, BusinessName: "No Bank", Email: "nobank@test"}))
	_, err := s.processor.RecordCompletedBooking(s.ctx, s.uow(), dto.RecordBookingRequest{
		BookingId: uuid.New(), VendorId: vendorId, FinalAmount: money("50"), CompletedAt: s.now,
	})
	s.Require().NoError(err)

	_, err = s.processor.InitiateSettlement(s.ctx, s.uow(), dto.InitiateSettlementRequest{
		VendorId: vendorId, Date: "2024-01-11", Amount: money("50"),
	}, "admin-1")
	s.ErrorIs(err, xerrors.ErrMissingBankDetails)

	requests, err := s.processor.ListRequests(s.ctx, s.uow(), dto.SettlementListRequest{VendorId: vendorId.String()})
	s.Require().NoError(err)
	s.Empty(requests)
}

func (s *ProcessorSuite) TestListRequestsFilters() {
	s.book("100")
	res, err := s.initiate("100")
	s.Require().NoError(err)

	all, err := s.processor.ListRequests(s.ctx, s.uow(), dto.SettlementListRequest{})
	s.Require().NoError(err)
	s.Len(all, 1)

	completed, err := s.processor.ListRequests(s.ctx, s.uow(), dto.SettlementListRequest{Status: "completed"})
	s.Require().NoError(err)
	s.Empty(completed)

	mine, err := s.processor.ListRequests(s.ctx, s.uow(), dto.SettlementListRequest{VendorId: s.vendorId.String(), Status: "processing"})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(res.Request.Reference, mine[0].Reference)

	_, err = s.processor.ListRequests(s.ctx, s.uow(), dto.SettlementListRequest{VendorId: "nope"})
	s.Equal(xerrors.KindValidation, xerrors.KindOf(err))
}

func TestConcurrentInitiateOpensOneRequest(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewStore().RepositoryFactory()
	p := NewProcessor(logger.NewNopLogger(), adminEvents.NewRecorder())

	vendorId := uuid.New()
	require.NoError(t, factory.NewUnitOfWork(ctx).VendorRepository().Create(ctx, &entity.Vendor{Id: vendorId, BusinessName: "Race", Email: "race@test", BankDetails: bank}))
	_, err := p.RecordCompletedBooking(ctx, factory.NewUnitOfWork(ctx), dto.RecordBookingRequest{
		BookingId: uuid.New(), VendorId: vendorId, FinalAmount: money("5000"),
		CompletedAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.InitiateSettlement(ctx, factory.NewUnitOfWork(ctx), dto.InitiateSettlementRequest{
				VendorId: vendorId, Date: "2024-01-10", Amount: money("5000"),
			}, "admin")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, xerrors.ErrSettlementAlreadyInProgress)
	}
	assert.Equal(t, 1, succeeded)

	view, err := p.GetDailySettlement(ctx, factory.NewUnitOfWork(ctx), vendorId, "2024-01-10")
	require.NoError(t, err)
	assertMoney(t, "5000", view.Ledger.InSettlementProcess)
	assert.True(t, view.Ledger.Balanced())
}
