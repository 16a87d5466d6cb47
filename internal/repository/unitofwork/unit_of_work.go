package unitofwork

import (
	"context"

	"evcharge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	VendorRepository() contract.VendorRepository
	SubscriptionRepository() contract.SubscriptionRepository
	StationRepository() contract.StationRepository
	SettlementRepository() contract.SettlementRepository
	RefundRepository() contract.RefundRepository
}
