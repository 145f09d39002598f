package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type StockService struct {
	log     *slog.Logger
	stores  StoreRepository
	stock   StockRepository
	catalog ProductCatalog
}

func NewStockService(log *slog.Logger, stores StoreRepository, stock StockRepository, catalog ProductCatalog) *StockService {
	return &StockService{log: log, stores: stores, stock: stock, catalog: catalog}
}

// Add creates the stock row for (store, product) or tops up an existing
// one. Both the store and the product must exist.
func (s *StockService) Add(ctx context.Context, stock domain.Stock) (domain.Stock, error) {
	if stock.AvailableQuantity < 0 {
		return domain.Stock{}, fmt.Errorf("product %d: %w", stock.ProductID, domain.ErrNegativeQuantity)
	}
	if _, err := s.stores.FindByID(ctx, stock.StoreID); err != nil {
		return domain.Stock{}, err
	}
	if _, err := s.catalog.Lookup(ctx, stock.ProductID); err != nil {
		return domain.Stock{}, err
	}

	saved, err := s.stock.Upsert(ctx, stock)
	if err != nil {
		return domain.Stock{}, err
	}
	s.log.Info("stock added", "store_id", saved.StoreID, "product_id", saved.ProductID, "quantity", saved.AvailableQuantity)
	return saved, nil
}

func (s *StockService) Get(ctx context.Context, storeID, productID int64) (domain.Stock, error) {
	return s.stock.FindByStoreAndProduct(ctx, storeID, productID)
}

func (s *StockService) ListByStore(ctx context.Context, storeID int64) ([]domain.Stock, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	return s.stock.FindByStore(ctx, storeID)
}

func (s *StockService) List(ctx context.Context) ([]domain.Stock, error) {
	return s.stock.FindAll(ctx)
}

// SetQuantity overwrites the available quantity of an existing stock row.
func (s *StockService) SetQuantity(ctx context.Context, storeID, productID int64, quantity int) (domain.Stock, error) {
	if quantity < 0 {
		return domain.Stock{}, fmt.Errorf("product %d: %w", productID, domain.ErrNegativeQuantity)
	}
	updated, err := s.stock.SetQuantity(ctx, storeID, productID, quantity)
	if err != nil {
		return domain.Stock{}, err
	}
	s.log.Info("stock quantity set", "store_id", storeID, "product_id", productID, "quantity", quantity)
	return updated, nil
}

func (s *StockService) Delete(ctx context.Context, storeID, productID int64) error {
	if err := s.stock.Delete(ctx, storeID, productID); err != nil {
		return err
	}
	s.log.Info("stock deleted", "store_id", storeID, "product_id", productID)
	return nil
}
