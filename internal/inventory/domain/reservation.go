package domain

import "time"

type ReservationStatus string

// A reservation is created RESERVED and may only move to CANCELED, which
// is terminal.
const (
	StatusReserved ReservationStatus = "RESERVED"
	StatusCanceled ReservationStatus = "CANCELED"
)

// Reservation records that ReservedQuantity units of a product are held
// for an order. One row per successfully reserved order item. StoreID pins
// the stock row the quantity came from, so compensation restores exactly
// that row even when several stores carry the same product.
type Reservation struct {
	ID               int64
	OrderID          int64
	StoreID          int64
	ProductID        int64
	ReservedQuantity int
	Status           ReservationStatus
	LastUpdated      time.Time
}

func NewReservation(orderID, storeID, productID int64, quantity int) Reservation {
	return Reservation{
		OrderID:          orderID,
		StoreID:          storeID,
		ProductID:        productID,
		ReservedQuantity: quantity,
		Status:           StatusReserved,
		LastUpdated:      time.Now().UTC(),
	}
}
