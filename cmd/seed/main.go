package main

import (
	"context"
	"log"
	"time"

	"evcharge-be/internal/config"
	"evcharge-be/internal/dto"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/serverutils"
	"evcharge-be/internal/repository/unitofwork"
	"evcharge-be/internal/service"
	"evcharge-be/pkg/admin/dashboard"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/admin/onboarding"
	"evcharge-be/pkg/admin/refund"
	"evcharge-be/pkg/admin/settlement"
	"evcharge-be/pkg/admin/subscription"
	"evcharge-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const seedActor = "seed"

// Seeds a verified demo vendor with two stations and a day of completed
// bookings, then prints admin and vendor tokens for local testing.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	publisher := adminEvents.NewBusPublisher(nil, sysLogger)
	admin := service.NewAdminService(
		unitofwork.NewRepositoryFactory(db),
		sysLogger,
		onboarding.NewManager(sysLogger, publisher),
		subscription.NewManager(sysLogger, publisher),
		settlement.NewProcessor(sysLogger, publisher),
		refund.NewProcessor(sysLogger, publisher),
		dashboard.NewAggregator(sysLogger, cfg.Ledger.ExpiringSoonDays),
	)
	ctx := context.Background()

	color.Cyan("Seeding demo vendor...")
	reg, err := admin.RegisterVendor(ctx, dto.RegisterVendorRequest{
		BusinessName: "Demo Charging Co",
		Email:        "ops+" + uuid.NewString()[:8] + "@demo-charging.test",
	})
	if err != nil {
		log.Fatalf("Error: RegisterVendor failed: %v", err)
	}
	vendorId := reg.Vendor.Id

	if _, err := admin.UpdateBankDetails(ctx, vendorId, dto.BankDetailsRequest{
		AccountName:   "Demo Charging Co",
		AccountNumber: "00112233445566",
		BankName:      "Demo Bank",
	}, seedActor); err != nil {
		log.Fatalf("Error: UpdateBankDetails failed: %v", err)
	}
	if _, err := admin.VerifyVendor(ctx, vendorId, seedActor); err != nil {
		log.Fatalf("Error: VerifyVendor failed: %v", err)
	}

	for _, name := range []string{"Downtown Hub", "Airport P3"} {
		station, err := admin.RegisterStation(ctx, vendorId, dto.CreateStationRequest{Name: name}, seedActor)
		if err != nil {
			log.Fatalf("Error: RegisterStation %q failed: %v", name, err)
		}
		color.Green("  station %s (%s)", station.Name, station.Id)
	}

	color.Cyan("Seeding completed bookings...")
	completedAt := time.Now().UTC().Add(-2 * time.Hour)
	for _, amount := range []string{"42.50", "18.75", "63.00"} {
		daily, err := admin.RecordCompletedBooking(ctx, dto.RecordBookingRequest{
			BookingId:   uuid.New(),
			VendorId:    vendorId,
			FinalAmount: decimal.RequireFromString(amount),
			CompletedAt: completedAt,
		})
		if err != nil {
			log.Fatalf("Error: RecordCompletedBooking failed: %v", err)
		}
		color.Green("  pending for %s: %s", daily.Date, daily.PendingSettlement)
	}

	adminToken, err := serverutils.IssueToken(cfg.Auth.JwtSecret, serverutils.Actor{Id: "admin@local", Role: serverutils.RoleAdmin}, 24*time.Hour)
	if err != nil {
		log.Fatalf("Error: IssueToken failed: %v", err)
	}
	vendorToken, err := serverutils.IssueToken(cfg.Auth.JwtSecret, serverutils.Actor{Id: "vendor@local", Role: serverutils.RoleVendor, VendorId: vendorId}, 24*time.Hour)
	if err != nil {
		log.Fatalf("Error: IssueToken failed: %v", err)
	}

	color.Green("✅ Seed completed for vendor %s", vendorId)
	color.Yellow("Admin token:  %s", adminToken)
	color.Yellow("Vendor token: %s", vendorToken)
}
