package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"evcharge-be/internal/entity"
	xerrors "evcharge-be/internal/pkg/errors"
	"evcharge-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type settlementRepository struct {
	u *unitOfWork
}

func (r *settlementRepository) FindDaily(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.DailySettlement, error) {
	var out *entity.DailySettlement
	r.u.read(func(s *state) {
		out = s.dailies[keyOf(vendorId, date)].Clone()
	})
	return out, nil
}

// FindDailyForUpdate needs no extra locking: a begun unit already holds the store lock.
func (r *settlementRepository) FindDailyForUpdate(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.DailySettlement, error) {
	return r.FindDaily(ctx, vendorId, date)
}

func (r *settlementRepository) EnsureDaily(ctx context.Context, vendorId uuid.UUID, date time.Time) error {
	return r.u.write(func(s *state) error {
		k := keyOf(vendorId, date)
		if _, ok := s.dailies[k]; ok {
			return nil
		}
		daily := entity.NewDailySettlement(vendorId, date)
		daily.CreatedAt = r.u.store.now()
		daily.UpdatedAt = daily.CreatedAt
		s.dailies[k] = daily
		return nil
	})
}

func (r *settlementRepository) SaveDaily(ctx context.Context, daily *entity.DailySettlement) error {
	return r.u.write(func(s *state) error {
		k := keyOf(daily.VendorId, daily.Date)
		now := r.u.store.now()
		if existing, ok := s.dailies[k]; ok {
			daily.Id = existing.Id
			daily.CreatedAt = existing.CreatedAt
		} else if daily.CreatedAt.IsZero() {
			daily.CreatedAt = now
		}
		daily.UpdatedAt = now
		s.dailies[k] = daily.Clone()
		return nil
	})
}

func (r *settlementRepository) CreateLedgerEntry(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.ledger[entry.BookingId]; ok {
			return xerrors.E("SettlementRepository.CreateLedgerEntry", xerrors.ErrBookingAlreadyRecorded)
		}
		e := *entry
		s.ledger[entry.BookingId] = &e
		return nil
	})
}

func (r *settlementRepository) CreateRequest(ctx context.Context, req *entity.SettlementRequest) error {
	return r.u.write(func(s *state) error {
		k := keyOf(req.VendorId, req.Date)
		for _, existing := range s.requests {
			if existing.Reference == req.Reference {
				return fmt.Errorf("settlement reference %s already used", req.Reference)
			}
			if req.Status == entity.SettlementStatusProcessing &&
				existing.Status == entity.SettlementStatusProcessing &&
				keyOf(existing.VendorId, existing.Date) == k {
				return xerrors.E("SettlementRepository.CreateRequest", xerrors.ErrSettlementAlreadyInProgress)
			}
		}
		if req.CreatedAt.IsZero() {
			req.CreatedAt = r.u.store.now()
		}
		s.requests[req.Id] = req.Clone()
		return nil
	})
}

func (r *settlementRepository) FindRequestById(ctx context.Context, id uuid.UUID) (*entity.SettlementRequest, error) {
	var out *entity.SettlementRequest
	r.u.read(func(s *state) {
		out = s.requests[id].Clone()
	})
	return out, nil
}

func (r *settlementRepository) FindRequestByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.SettlementRequest, error) {
	return r.FindRequestById(ctx, id)
}

func (r *settlementRepository) FindOpenRequest(ctx context.Context, vendorId uuid.UUID, date time.Time) (*entity.SettlementRequest, error) {
	var out *entity.SettlementRequest
	k := keyOf(vendorId, date)
	r.u.read(func(s *state) {
		for _, req := range s.requests {
			if req.Status == entity.SettlementStatusProcessing && keyOf(req.VendorId, req.Date) == k {
				out = req.Clone()
				return
			}
		}
	})
	return out, nil
}

func (r *settlementRepository) UpdateRequest(ctx context.Context, req *entity.SettlementRequest) error {
	return r.u.write(func(s *state) error {
		if _, ok := s.requests[req.Id]; !ok {
			return nil
		}
		s.requests[req.Id] = req.Clone()
		return nil
	})
}

func (r *settlementRepository) ListRequests(ctx context.Context, filter contract.SettlementRequestFilter) ([]*entity.SettlementRequest, error) {
	out := []*entity.SettlementRequest{}
	r.u.read(func(s *state) {
		for _, req := range s.requests {
			if filter.VendorId != nil && req.VendorId != *filter.VendorId {
				continue
			}
			if filter.Status != nil && req.Status != *filter.Status {
				continue
			}
			out = append(out, req.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.ListOptions), nil
}

func (r *settlementRepository) CountRequestsByStatus(ctx context.Context, status entity.SettlementStatus) (int64, error) {
	var n int64
	r.u.read(func(s *state) {
		for _, req := range s.requests {
			if req.Status == status {
				n++
			}
		}
	})
	return n, nil
}

func (r *settlementRepository) Totals(ctx context.Context) (*contract.SettlementTotals, error) {
	totals := &contract.SettlementTotals{
		TotalToBeReceived:   decimal.Zero,
		PendingSettlement:   decimal.Zero,
		InSettlementProcess: decimal.Zero,
		PaymentSettled:      decimal.Zero,
	}
	r.u.read(func(s *state) {
		for _, d := range s.dailies {
			totals.TotalToBeReceived = totals.TotalToBeReceived.Add(d.TotalToBeReceived)
			totals.PendingSettlement = totals.PendingSettlement.Add(d.PendingSettlement)
			totals.InSettlementProcess = totals.InSettlementProcess.Add(d.InSettlementProcess)
			totals.PaymentSettled = totals.PaymentSettled.Add(d.PaymentSettled)
		}
	})
	return totals, nil
}
