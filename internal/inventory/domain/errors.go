package domain

import "errors"

var (
	// ErrNoReservations is returned by the cancellation path when an order
	// has no reservation rows at all. The consumer treats it as a warning,
	// not a retryable failure.
	ErrNoReservations = errors.New("no reservations for order")

	// ErrStockRowMissing marks a release against a product with no stock
	// row. Compensation rolls back rather than losing the increment.
	ErrStockRowMissing = errors.New("stock row missing")
)
