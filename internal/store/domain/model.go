package domain

import "time"

type Store struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Stock struct {
	ID                int64     `json:"id"`
	ProductID         int64     `json:"productId"`
	StoreID           int64     `json:"storeId"`
	AvailableQuantity int       `json:"availableQuantity"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// ProductConsumption records a sale against a store's stock, denormalizing
// the product name and price at the time of consumption.
type ProductConsumption struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	StoreID      int64     `json:"storeId"`
	ProductName  string    `json:"productName"`
	ProductPrice float64   `json:"productPrice"`
	Quantity     int       `json:"quantity"`
	ConsumedAt   time.Time `json:"consumedAt"`
}

// Product mirrors the catalog service's representation.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// StoreStats summarizes one store's inventory footprint.
type StoreStats struct {
	ProductCount  int `json:"productCount"`
	TotalQuantity int `json:"totalQuantity"`
}
