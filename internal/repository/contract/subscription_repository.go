package contract

import (
	"context"
	"time"

	"evcharge-be/internal/entity"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.VendorSubscription) error
	FindByVendorId(ctx context.Context, vendorId uuid.UUID) (*entity.VendorSubscription, error)
	// FindByVendorIdForUpdate locks the row for the rest of the transaction.
	FindByVendorIdForUpdate(ctx context.Context, vendorId uuid.UUID) (*entity.VendorSubscription, error)
	// Update persists sub only if the stored version still equals
	// expectedVersion, then advances sub.Version. A stale version yields
	// CONCURRENT_MODIFICATION.
	Update(ctx context.Context, sub *entity.VendorSubscription, expectedVersion int) error
	// FindLapsed returns subscriptions still stored as active whose end date is before now.
	FindLapsed(ctx context.Context, now time.Time) ([]*entity.VendorSubscription, error)
	CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int64, error)
	// CountEndingBetween counts active subscriptions ending inside [from, to].
	CountEndingBetween(ctx context.Context, from, to time.Time) (int64, error)
}
