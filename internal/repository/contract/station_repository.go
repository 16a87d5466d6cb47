package contract

import (
	"context"
	"time"

	"evcharge-be/internal/entity"

	"github.com/google/uuid"
)

type StationRepository interface {
	Create(ctx context.Context, station *entity.Station) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Station, error)
	FindByVendorId(ctx context.Context, vendorId uuid.UUID) ([]*entity.Station, error)
	CountByVendorId(ctx context.Context, vendorId uuid.UUID) (int64, error)
	// Update follows the same optimistic versioning as SubscriptionRepository.Update.
	Update(ctx context.Context, station *entity.Station, expectedVersion int) error
	// CountPremiumActive counts premiums that are flagged active and not yet past their end date.
	CountPremiumActive(ctx context.Context, now time.Time) (int64, error)
}
