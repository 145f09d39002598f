package domain

import "errors"

var (
	ErrStoreNotFound       = errors.New("store not found")
	ErrStoreExists         = errors.New("store already exists")
	ErrStockNotFound       = errors.New("stock not found")
	ErrConsumptionNotFound = errors.New("consumption not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNegativeQuantity    = errors.New("quantity must not be negative")
)
