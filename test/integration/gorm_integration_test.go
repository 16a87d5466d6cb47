package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"evcharge-be/internal/dto"
	"evcharge-be/internal/model"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/repository/implementation"
	"evcharge-be/internal/repository/unitofwork"
	"evcharge-be/internal/service"
	"evcharge-be/pkg/admin/dashboard"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/admin/onboarding"
	"evcharge-be/pkg/admin/refund"
	"evcharge-be/pkg/admin/settlement"
	"evcharge-be/pkg/admin/subscription"
	"evcharge-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func connect(t *testing.T) *gorm.DB {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	require.NoError(t, gormDB.AutoMigrate(
		&model.Vendor{},
		&model.Station{},
		&model.VendorSubscription{},
		&model.DailySettlement{},
		&model.SettlementRequest{},
		&model.LedgerEntry{},
		&model.RefundRequest{},
	))
	require.NoError(t, gormDB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS `+implementation.OpenRequestIndex+`
		ON settlement_requests (vendor_id, settlement_date) WHERE status = 'processing'`).Error)
	return gormDB
}

func newAdminService(db *gorm.DB) service.IAdminService {
	log := logger.NewNopLogger()
	publisher := adminEvents.NewRecorder()
	return service.NewAdminService(
		unitofwork.NewRepositoryFactory(db),
		log,
		onboarding.NewManager(log, publisher),
		subscription.NewManager(log, publisher),
		settlement.NewProcessor(log, publisher),
		refund.NewProcessor(log, publisher),
		dashboard.NewAggregator(log, 7),
	)
}

func TestGormConnection(t *testing.T) {
	gormDB := connect(t)

	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(context.Background())
	assert.NotNil(t, uow.VendorRepository())
	assert.NotNil(t, uow.SettlementRepository())

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestSettlementLifecycleOnPostgres(t *testing.T) {
	admin := newAdminService(connect(t))
	ctx := context.Background()

	reg, err := admin.RegisterVendor(ctx, dto.RegisterVendorRequest{
		BusinessName: "Integration Charging",
		Email:        "it-" + uuid.NewString() + "@example.com",
	})
	require.NoError(t, err)
	vendorId := reg.Vendor.Id
	assert.Equal(t, "trial", reg.Subscription.Type)

	_, err = admin.UpdateBankDetails(ctx, vendorId, dto.BankDetailsRequest{
		AccountName:   "Integration Charging",
		AccountNumber: "12345678",
		BankName:      "Test Bank",
	}, "it")
	require.NoError(t, err)

	bookingId := uuid.New()
	booking := dto.RecordBookingRequest{
		BookingId:   bookingId,
		VendorId:    vendorId,
		FinalAmount: decimal.RequireFromString("120.40"),
		CompletedAt: time.Now().UTC().Add(-time.Hour),
	}
	daily, err := admin.RecordCompletedBooking(ctx, booking)
	require.NoError(t, err)
	assert.True(t, daily.PendingSettlement.Equal(decimal.RequireFromString("120.40")))

	_, err = admin.RecordCompletedBooking(ctx, booking)
	assert.Equal(t, xerrors.KindBookingAlreadyRecorded, xerrors.KindOf(err))

	initiate := dto.InitiateSettlementRequest{
		VendorId: vendorId,
		Date:     daily.Date,
		Amount:   decimal.RequireFromString("120.40"),
	}
	started, err := admin.InitiateSettlement(ctx, initiate, "it")
	require.NoError(t, err)
	assert.True(t, started.Ledger.InSettlementProcess.Equal(decimal.RequireFromString("120.40")))

	_, err = admin.InitiateSettlement(ctx, initiate, "it")
	assert.Equal(t, xerrors.KindSettlementAlreadyInProgress, xerrors.KindOf(err))

	done, err := admin.CompleteSettlement(ctx, started.Request.Id, dto.CompleteSettlementRequest{
		PaymentReference: "TRX-INTEGRATION-0001",
	}, "it")
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Request.Status)
	assert.True(t, done.Ledger.PaymentSettled.Equal(decimal.RequireFromString("120.40")))
	assert.True(t, done.Ledger.InSettlementProcess.IsZero())
}
