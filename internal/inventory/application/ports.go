package application

import (
	"context"

	"github.com/Fawry-Intern/store-api/internal/inventory/domain"
)

// StockLedger is the durable per-(store, product) quantity counter.
type StockLedger interface {
	// TryReserve atomically checks availability and decrements in one
	// row-locked transaction. It reports false without mutating when the
	// row is missing or holds less than quantity.
	TryReserve(ctx context.Context, storeID, productID int64, quantity int) (bool, error)

	// Release unconditionally adds quantity back to the product's stock row.
	Release(ctx context.Context, storeID, productID int64, quantity int) error
}

// ReservationLedger is the durable log of per-item reservations.
type ReservationLedger interface {
	// Append stores a new RESERVED row and returns it with its assigned id.
	Append(ctx context.Context, r domain.Reservation) (domain.Reservation, error)

	FindByOrder(ctx context.Context, orderID int64) ([]domain.Reservation, error)

	// CancelAndRestore flips one reservation RESERVED -> CANCELED and adds
	// its quantity back to stock, atomically. It reports false when the
	// row was already CANCELED, in which case nothing is restored.
	CancelAndRestore(ctx context.Context, r domain.Reservation) (bool, error)
}

// Egress publishes the saga's outbound events.
type Egress interface {
	// PublishStoreUpdated routes by order id onto the ordered
	// store-updated-events partitions.
	PublishStoreUpdated(ctx context.Context, event domain.StoreUpdated) error

	// PublishOrderCanceled uses default distribution; cancellation acks
	// carry no ordering requirement.
	PublishOrderCanceled(ctx context.Context, event domain.OrderCanceled) error
}
