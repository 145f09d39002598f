package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type memStores struct {
	nextID int64
	byID   map[int64]domain.Store
}

func newMemStores() *memStores {
	return &memStores{byID: map[int64]domain.Store{}}
}

func (m *memStores) Create(_ context.Context, s domain.Store) (domain.Store, error) {
	m.nextID++
	s.ID = m.nextID
	m.byID[s.ID] = s
	return s, nil
}

func (m *memStores) FindByID(_ context.Context, id int64) (domain.Store, error) {
	s, ok := m.byID[id]
	if !ok {
		return domain.Store{}, fmt.Errorf("store %d: %w", id, domain.ErrStoreNotFound)
	}
	return s, nil
}

func (m *memStores) FindByName(_ context.Context, name string) (domain.Store, error) {
	for _, s := range m.byID {
		if s.Name == name {
			return s, nil
		}
	}
	return domain.Store{}, fmt.Errorf("store %q: %w", name, domain.ErrStoreNotFound)
}

func (m *memStores) FindAll(_ context.Context) ([]domain.Store, error) {
	var out []domain.Store
	for id := int64(1); id <= m.nextID; id++ {
		if s, ok := m.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStores) Update(_ context.Context, s domain.Store) (domain.Store, error) {
	if _, ok := m.byID[s.ID]; !ok {
		return domain.Store{}, fmt.Errorf("store %d: %w", s.ID, domain.ErrStoreNotFound)
	}
	m.byID[s.ID] = s
	return s, nil
}

func (m *memStores) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("store %d: %w", id, domain.ErrStoreNotFound)
	}
	delete(m.byID, id)
	return nil
}

type memStock struct {
	nextID int64
	rows   map[int64]domain.Stock
}

func newMemStock() *memStock {
	return &memStock{rows: map[int64]domain.Stock{}}
}

func (m *memStock) find(storeID, productID int64) (int64, bool) {
	for id, s := range m.rows {
		if s.StoreID == storeID && s.ProductID == productID {
			return id, true
		}
	}
	return 0, false
}

func (m *memStock) Upsert(_ context.Context, s domain.Stock) (domain.Stock, error) {
	if id, ok := m.find(s.StoreID, s.ProductID); ok {
		existing := m.rows[id]
		existing.AvailableQuantity += s.AvailableQuantity
		existing.LastUpdated = time.Now()
		m.rows[id] = existing
		return existing, nil
	}
	m.nextID++
	s.ID = m.nextID
	s.LastUpdated = time.Now()
	m.rows[s.ID] = s
	return s, nil
}

func (m *memStock) FindByStoreAndProduct(_ context.Context, storeID, productID int64) (domain.Stock, error) {
	if id, ok := m.find(storeID, productID); ok {
		return m.rows[id], nil
	}
	return domain.Stock{}, fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockNotFound)
}

func (m *memStock) FindByStore(_ context.Context, storeID int64) ([]domain.Stock, error) {
	var out []domain.Stock
	for id := int64(1); id <= m.nextID; id++ {
		if s, ok := m.rows[id]; ok && s.StoreID == storeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStock) FindAll(_ context.Context) ([]domain.Stock, error) {
	var out []domain.Stock
	for id := int64(1); id <= m.nextID; id++ {
		if s, ok := m.rows[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStock) SetQuantity(_ context.Context, storeID, productID int64, quantity int) (domain.Stock, error) {
	id, ok := m.find(storeID, productID)
	if !ok {
		return domain.Stock{}, fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockNotFound)
	}
	s := m.rows[id]
	s.AvailableQuantity = quantity
	s.LastUpdated = time.Now()
	m.rows[id] = s
	return s, nil
}

func (m *memStock) Delete(_ context.Context, storeID, productID int64) error {
	id, ok := m.find(storeID, productID)
	if !ok {
		return fmt.Errorf("store %d product %d: %w", storeID, productID, domain.ErrStockNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memStock) ProductIDsByStore(_ context.Context, storeID int64, offset, limit int) ([]int64, error) {
	var ids []int64
	for id := int64(1); id <= m.nextID; id++ {
		if s, ok := m.rows[id]; ok && s.StoreID == storeID {
			ids = append(ids, s.ProductID)
		}
	}
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memStock) StatsByStore(_ context.Context, storeID int64) (domain.StoreStats, error) {
	var stats domain.StoreStats
	for _, s := range m.rows {
		if s.StoreID == storeID {
			stats.ProductCount++
			stats.TotalQuantity += s.AvailableQuantity
		}
	}
	return stats, nil
}

type memConsumptions struct {
	nextID int64
	rows   map[int64]domain.ProductConsumption
	stock  *memStock
}

func newMemConsumptions(stock *memStock) *memConsumptions {
	return &memConsumptions{rows: map[int64]domain.ProductConsumption{}, stock: stock}
}

func (m *memConsumptions) Record(_ context.Context, c domain.ProductConsumption) (domain.ProductConsumption, error) {
	id, ok := m.stock.find(c.StoreID, c.ProductID)
	if !ok {
		return domain.ProductConsumption{}, fmt.Errorf("store %d product %d: %w", c.StoreID, c.ProductID, domain.ErrStockNotFound)
	}
	s := m.stock.rows[id]
	if s.AvailableQuantity < c.Quantity {
		return domain.ProductConsumption{}, fmt.Errorf("store %d product %d has %d: %w",
			c.StoreID, c.ProductID, s.AvailableQuantity, domain.ErrInsufficientStock)
	}
	s.AvailableQuantity -= c.Quantity
	m.stock.rows[id] = s

	m.nextID++
	c.ID = m.nextID
	c.ConsumedAt = time.Now()
	m.rows[c.ID] = c
	return c, nil
}

func (m *memConsumptions) FindByID(_ context.Context, id int64) (domain.ProductConsumption, error) {
	c, ok := m.rows[id]
	if !ok {
		return domain.ProductConsumption{}, fmt.Errorf("consumption %d: %w", id, domain.ErrConsumptionNotFound)
	}
	return c, nil
}

func (m *memConsumptions) FindByStore(_ context.Context, storeID int64) ([]domain.ProductConsumption, error) {
	var out []domain.ProductConsumption
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.rows[id]; ok && c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memConsumptions) FindAll(_ context.Context) ([]domain.ProductConsumption, error) {
	var out []domain.ProductConsumption
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.rows[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memConsumptions) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("consumption %d: %w", id, domain.ErrConsumptionNotFound)
	}
	delete(m.rows, id)
	return nil
}

type memCatalog struct {
	products map[int64]domain.Product
}

func newMemCatalog(products ...domain.Product) *memCatalog {
	m := &memCatalog{products: map[int64]domain.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memCatalog) Lookup(_ context.Context, id int64) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return p, nil
}

func (m *memCatalog) List(_ context.Context, ids []int64) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
