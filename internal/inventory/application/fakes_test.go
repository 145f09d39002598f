package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

type stockKey struct {
	storeID   int64
	productID int64
}

// fakeStock keeps quantities in memory and mirrors the ledger's contract:
// reserve is all-or-nothing per item, release restores by product id.
type fakeStock struct {
	mu         sync.Mutex
	quantities map[stockKey]int
	releaseErr error
}

func newFakeStock() *fakeStock {
	return &fakeStock{quantities: map[stockKey]int{}}
}

func (f *fakeStock) set(storeID, productID int64, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities[stockKey{storeID, productID}] = qty
}

func (f *fakeStock) get(storeID, productID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quantities[stockKey{storeID, productID}]
}

func (f *fakeStock) TryReserve(_ context.Context, storeID, productID int64, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := stockKey{storeID, productID}
	available, ok := f.quantities[k]
	if !ok || available < quantity {
		return false, nil
	}
	f.quantities[k] = available - quantity
	return true, nil
}

func (f *fakeStock) Release(_ context.Context, storeID, productID int64, quantity int) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := stockKey{storeID, productID}
	if _, ok := f.quantities[k]; !ok {
		return domain.ErrStockRowMissing
	}
	f.quantities[k] += quantity
	return nil
}

// fakeReservations is an in-memory ledger whose CancelAndRestore flips the
// stored row and restores the paired fakeStock, matching the persistent
// implementation's single-transaction semantics.
type fakeReservations struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]domain.Reservation
	stock     *fakeStock
	appendErr map[int64]error
}

func newFakeReservations(stock *fakeStock) *fakeReservations {
	return &fakeReservations{
		rows:      map[int64]domain.Reservation{},
		stock:     stock,
		appendErr: map[int64]error{},
	}
}

func (f *fakeReservations) failAppendFor(productID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendErr[productID] = errors.New("append rejected")
}

func (f *fakeReservations) Append(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.appendErr[r.ProductID]; err != nil {
		return domain.Reservation{}, err
	}
	f.nextID++
	r.ID = f.nextID
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeReservations) FindByOrder(_ context.Context, orderID int64) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.rows[id]; ok && r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) CancelAndRestore(_ context.Context, r domain.Reservation) (bool, error) {
	f.mu.Lock()
	stored, ok := f.rows[r.ID]
	if !ok || stored.Status != domain.StatusReserved {
		f.mu.Unlock()
		return false, nil
	}
	stored.Status = domain.StatusCanceled
	f.rows[r.ID] = stored
	f.mu.Unlock()

	if err := f.stock.Release(context.Background(), stored.StoreID, stored.ProductID, stored.ReservedQuantity); err != nil {
		f.mu.Lock()
		stored.Status = domain.StatusReserved
		f.rows[r.ID] = stored
		f.mu.Unlock()
		return false, fmt.Errorf("restore stock: %w", err)
	}
	return true, nil
}

func (f *fakeReservations) statuses(orderID int64) []domain.ReservationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ReservationStatus
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.rows[id]; ok && r.OrderID == orderID {
			out = append(out, r.Status)
		}
	}
	return out
}

// fakeEgress records every published event in order.
type fakeEgress struct {
	mu          sync.Mutex
	updated     []domain.StoreUpdated
	canceled    []domain.OrderCanceled
	updatedErr  error
	canceledErr error
}

func (f *fakeEgress) PublishStoreUpdated(_ context.Context, e domain.StoreUpdated) error {
	if f.updatedErr != nil {
		return f.updatedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, e)
	return nil
}

func (f *fakeEgress) PublishOrderCanceled(_ context.Context, e domain.OrderCanceled) error {
	if f.canceledErr != nil {
		return f.canceledErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = append(f.canceled, e)
	return nil
}
