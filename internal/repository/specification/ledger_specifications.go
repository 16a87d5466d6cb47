package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ByVendor struct {
	VendorID uuid.UUID
}

func (s ByVendor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vendor_id = ?", s.VendorID)
}

// ByVendorDate selects a vendor's ledger key for one calendar day.
type ByVendorDate struct {
	VendorID uuid.UUID
	Date     time.Time
}

func (s ByVendorDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vendor_id = ? AND settlement_date = ?", s.VendorID, datatypes.Date(s.Date))
}

// FIFO orders oldest first with a stable tiebreak.
type FIFO struct{}

func (s FIFO) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
