package memory

import (
	"context"
	"fmt"

	"evcharge-be/internal/repository/contract"
)

type unitOfWork struct {
	store    *Store
	inTx     bool
	snapshot *state
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	u.snapshot = u.store.st.clone()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.snapshot = nil
	u.inTx = false
	u.store.mu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return nil
	}
	u.store.st = u.snapshot
	u.snapshot = nil
	u.inTx = false
	u.store.mu.Unlock()
	return nil
}

// read runs fn against the current state, taking a read lock unless the
// unit already holds the write lock.
func (u *unitOfWork) read(fn func(s *state)) {
	if !u.inTx {
		u.store.mu.RLock()
		defer u.store.mu.RUnlock()
	}
	fn(u.store.st)
}

func (u *unitOfWork) write(fn func(s *state) error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn(u.store.st)
}

func (u *unitOfWork) VendorRepository() contract.VendorRepository {
	return &vendorRepository{u: u}
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &subscriptionRepository{u: u}
}

func (u *unitOfWork) StationRepository() contract.StationRepository {
	return &stationRepository{u: u}
}

func (u *unitOfWork) SettlementRepository() contract.SettlementRepository {
	return &settlementRepository{u: u}
}

func (u *unitOfWork) RefundRepository() contract.RefundRepository {
	return &refundRepository{u: u}
}
