package entity

import (
	"time"

	"github.com/google/uuid"
)

type BankDetails struct {
	AccountName   string
	AccountNumber string
	BankName      string
	BranchName    string
}

// Complete reports whether a payout can be addressed with these details.
func (b *BankDetails) Complete() bool {
	return b != nil && b.AccountName != "" && b.AccountNumber != "" && b.BankName != ""
}

type Vendor struct {
	Id           uuid.UUID
	BusinessName string
	Email        string
	IsVerified   bool
	VerifiedAt   *time.Time
	VerifiedBy   string
	BankDetails  *BankDetails
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
