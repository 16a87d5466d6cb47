package main

import (
	"log"
	"os"

	"evcharge-be/internal/model"
	"evcharge-be/internal/repository/implementation"
	"evcharge-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting ledger migration...")

	// 3. Extensions
	color.Yellow("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	models := []interface{}{
		&model.Vendor{},
		&model.Station{},
		&model.VendorSubscription{},
		&model.DailySettlement{},
		&model.SettlementRequest{},
		&model.LedgerEntry{},
		&model.RefundRequest{},
	}
	color.Yellow("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Constraints GORM tags cannot express
	color.Yellow("Step 3: Creating partial indexes...")
	postMigrationSQL := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + implementation.OpenRequestIndex + `
		 ON settlement_requests (vendor_id, settlement_date) WHERE status = 'processing';`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Error: Post-migration SQL failed: %v", err)
			os.Exit(1)
		}
	}

	color.Green("✅ Migration completed successfully")
}
