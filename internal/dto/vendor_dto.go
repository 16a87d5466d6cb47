package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterVendorRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
}

type BankDetailsRequest struct {
	AccountName   string `json:"account_name" validate:"required,max=255"`
	AccountNumber string `json:"account_number" validate:"required,alphanum,min=6,max=34"`
	BankName      string `json:"bank_name" validate:"required,max=255"`
	BranchName    string `json:"branch_name" validate:"omitempty,max=255"`
}

type BankDetailsResponse struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"` // masked
	BankName      string `json:"bank_name"`
	BranchName    string `json:"branch_name,omitempty"`
}

type VendorResponse struct {
	Id           uuid.UUID            `json:"id"`
	BusinessName string               `json:"business_name"`
	Email        string               `json:"email"`
	IsVerified   bool                 `json:"is_verified"`
	VerifiedAt   *time.Time           `json:"verified_at,omitempty"`
	BankDetails  *BankDetailsResponse `json:"bank_details,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

type VendorRegistrationResponse struct {
	Vendor       VendorResponse             `json:"vendor"`
	Subscription VendorSubscriptionResponse `json:"subscription"`
}

type VendorListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}
