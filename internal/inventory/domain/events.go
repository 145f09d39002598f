package domain

import (
	"errors"
	"fmt"
)

// Event type names as they appear in outbox rows and Kafka headers.
const (
	EventTypeStoreUpdated  = "StoreUpdated"
	EventTypeOrderCanceled = "OrderCanceled"
)

var ErrInvalidEvent = errors.New("invalid event")

type OrderItem struct {
	StoreID   int64   `json:"storeId"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type AddressDetails struct {
	Governorate string `json:"governorate"`
	City        string `json:"city"`
	Address     string `json:"address"`
}

type PaymentDetails struct {
	Number string `json:"number"`
	CVV    string `json:"cvv"`
	Expiry string `json:"expiry"`
}

type PaymentMethod struct {
	Details PaymentDetails `json:"details"`
}

// OrderCreated is consumed from the order-events topic and starts the
// reservation saga.
type OrderCreated struct {
	OrderID         int64          `json:"orderId"`
	UserID          int64          `json:"userId"`
	SagaEventType   string         `json:"sagaEventType"`
	Status          string         `json:"status"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerName    string         `json:"customerName"`
	CustomerContact string         `json:"customerContact"`
	AddressDetails  AddressDetails `json:"addressDetails"`
	PaymentAmount   float64        `json:"paymentAmount"`
	OrderItems      []OrderItem    `json:"orderItems"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
}

// Validate rejects events the saga cannot act on. Failing events are
// dead-lettered, never retried.
func (e OrderCreated) Validate() error {
	if e.OrderID <= 0 {
		return fmt.Errorf("%w: missing orderId", ErrInvalidEvent)
	}
	if len(e.OrderItems) == 0 {
		return fmt.Errorf("%w: order %d has no items", ErrInvalidEvent, e.OrderID)
	}
	for _, item := range e.OrderItems {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: order %d item without productId", ErrInvalidEvent, e.OrderID)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: order %d product %d has non-positive quantity", ErrInvalidEvent, e.OrderID, item.ProductID)
		}
	}
	return nil
}

// OrderCanceled is consumed from payment-canceled-events and republished
// on store-events as the compensation acknowledgement.
type OrderCanceled struct {
	OrderID       int64  `json:"orderId"`
	Reason        string `json:"reason"`
	CustomerEmail string `json:"customerEmail"`
}

func (e OrderCanceled) Validate() error {
	if e.OrderID <= 0 {
		return fmt.Errorf("%w: missing orderId", ErrInvalidEvent)
	}
	return nil
}

// StoreUpdated is published on store-updated-events once every item of an
// order is reserved. Consumers downstream rely on per-order ordering, so
// it is routed to a deterministic partition keyed by OrderID.
type StoreUpdated struct {
	OrderID         int64          `json:"orderId"`
	UserID          int64          `json:"userId"`
	Status          string         `json:"status"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerName    string         `json:"customerName"`
	CustomerContact string         `json:"customerContact"`
	AddressDetails  AddressDetails `json:"addressDetails"`
	PaymentAmount   float64        `json:"paymentAmount"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	MerchantEmail   string         `json:"merchantEmail"`
}
