// Package memory is an in-process implementation of the unit of work and its
// repositories. It enforces the same uniqueness and version constraints as the
// postgres schema and backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"evcharge-be/internal/entity"
	"evcharge-be/internal/repository/contract"
	"evcharge-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type dailyKey struct {
	vendorId uuid.UUID
	date     string
}

func keyOf(vendorId uuid.UUID, date time.Time) dailyKey {
	return dailyKey{vendorId: vendorId, date: entity.CalendarDate(date).Format(entity.DateLayout)}
}

type state struct {
	vendors       map[uuid.UUID]*entity.Vendor
	subscriptions map[uuid.UUID]*entity.VendorSubscription // by vendor id
	stations      map[uuid.UUID]*entity.Station
	dailies       map[dailyKey]*entity.DailySettlement
	requests      map[uuid.UUID]*entity.SettlementRequest
	ledger        map[uuid.UUID]*entity.LedgerEntry // by booking id
	refunds       map[uuid.UUID]*entity.RefundRequest
}

func newState() *state {
	return &state{
		vendors:       map[uuid.UUID]*entity.Vendor{},
		subscriptions: map[uuid.UUID]*entity.VendorSubscription{},
		stations:      map[uuid.UUID]*entity.Station{},
		dailies:       map[dailyKey]*entity.DailySettlement{},
		requests:      map[uuid.UUID]*entity.SettlementRequest{},
		ledger:        map[uuid.UUID]*entity.LedgerEntry{},
		refunds:       map[uuid.UUID]*entity.RefundRequest{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.vendors {
		c.vendors[k] = cloneVendor(v)
	}
	for k, v := range s.subscriptions {
		c.subscriptions[k] = v.Clone()
	}
	for k, v := range s.stations {
		c.stations[k] = v.Clone()
	}
	for k, v := range s.dailies {
		c.dailies[k] = v.Clone()
	}
	for k, v := range s.requests {
		c.requests[k] = v.Clone()
	}
	for k, v := range s.ledger {
		e := *v
		c.ledger[k] = &e
	}
	for k, v := range s.refunds {
		c.refunds[k] = v.Clone()
	}
	return c
}

func cloneVendor(v *entity.Vendor) *entity.Vendor {
	if v == nil {
		return nil
	}
	c := *v
	if v.BankDetails != nil {
		b := *v.BankDetails
		c.BankDetails = &b
	}
	if v.VerifiedAt != nil {
		t := *v.VerifiedAt
		c.VerifiedAt = &t
	}
	return &c
}

// Store holds all tables behind one lock. A unit of work that has begun
// holds the write lock until Commit or Rollback, so transactions are serial.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// RepositoryFactory returns a factory whose units of work share this store.
func (s *Store) RepositoryFactory() unitofwork.RepositoryFactory {
	return &repositoryFactory{store: s}
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

func paginate[T any](items []T, opts contract.ListOptions) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return []T{}
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
