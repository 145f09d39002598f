package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type StoreService struct {
	log     *slog.Logger
	stores  StoreRepository
	stock   StockRepository
	catalog ProductCatalog
}

func NewStoreService(log *slog.Logger, stores StoreRepository, stock StockRepository, catalog ProductCatalog) *StoreService {
	return &StoreService{log: log, stores: stores, stock: stock, catalog: catalog}
}

func (s *StoreService) Create(ctx context.Context, store domain.Store) (domain.Store, error) {
	_, err := s.stores.FindByName(ctx, store.Name)
	switch {
	case err == nil:
		return domain.Store{}, fmt.Errorf("store %q: %w", store.Name, domain.ErrStoreExists)
	case !errors.Is(err, domain.ErrStoreNotFound):
		return domain.Store{}, err
	}

	created, err := s.stores.Create(ctx, store)
	if err != nil {
		return domain.Store{}, err
	}
	s.log.Info("store created", "store_id", created.ID, "name", created.Name)
	return created, nil
}

// StoreWithStats is the detail view: the store row plus its inventory
// summary.
type StoreWithStats struct {
	domain.Store
	Stats domain.StoreStats `json:"stats"`
}

func (s *StoreService) Get(ctx context.Context, id int64) (StoreWithStats, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return StoreWithStats{}, err
	}
	stats, err := s.stock.StatsByStore(ctx, id)
	if err != nil {
		return StoreWithStats{}, err
	}
	return StoreWithStats{Store: store, Stats: stats}, nil
}

func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	return s.stores.FindAll(ctx)
}

func (s *StoreService) Update(ctx context.Context, store domain.Store) (domain.Store, error) {
	if _, err := s.stores.FindByID(ctx, store.ID); err != nil {
		return domain.Store{}, err
	}
	updated, err := s.stores.Update(ctx, store)
	if err != nil {
		return domain.Store{}, err
	}
	s.log.Info("store updated", "store_id", updated.ID)
	return updated, nil
}

func (s *StoreService) Delete(ctx context.Context, id int64) error {
	if _, err := s.stores.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("store deleted", "store_id", id)
	return nil
}

// Products pages through the product ids stocked by a store and enriches
// them from the catalog service.
func (s *StoreService) Products(ctx context.Context, storeID int64, page, size int) ([]domain.Product, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	ids, err := s.stock.ProductIDsByStore(ctx, storeID, page*size, size)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	return s.catalog.List(ctx, ids)
}
