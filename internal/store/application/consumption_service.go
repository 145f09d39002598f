package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type ConsumptionService struct {
	log          *slog.Logger
	stores       StoreRepository
	consumptions ConsumptionRepository
	catalog      ProductCatalog
}

func NewConsumptionService(
	log *slog.Logger,
	stores StoreRepository,
	consumptions ConsumptionRepository,
	catalog ProductCatalog,
) *ConsumptionService {
	return &ConsumptionService{log: log, stores: stores, consumptions: consumptions, catalog: catalog}
}

// Record validates the store and product, denormalizes the product's name
// and price into the consumption row, and lets the repository perform the
// stock decrement and insert atomically.
func (s *ConsumptionService) Record(ctx context.Context, c domain.ProductConsumption) (domain.ProductConsumption, error) {
	if c.Quantity <= 0 {
		return domain.ProductConsumption{}, fmt.Errorf("product %d: %w", c.ProductID, domain.ErrNegativeQuantity)
	}
	if _, err := s.stores.FindByID(ctx, c.StoreID); err != nil {
		return domain.ProductConsumption{}, err
	}
	product, err := s.catalog.Lookup(ctx, c.ProductID)
	if err != nil {
		return domain.ProductConsumption{}, err
	}

	c.ProductName = product.Name
	c.ProductPrice = product.Price

	recorded, err := s.consumptions.Record(ctx, c)
	if err != nil {
		return domain.ProductConsumption{}, err
	}
	s.log.Info("consumption recorded",
		"consumption_id", recorded.ID, "store_id", recorded.StoreID,
		"product_id", recorded.ProductID, "quantity", recorded.Quantity)
	return recorded, nil
}

func (s *ConsumptionService) Get(ctx context.Context, id int64) (domain.ProductConsumption, error) {
	return s.consumptions.FindByID(ctx, id)
}

func (s *ConsumptionService) ListByStore(ctx context.Context, storeID int64) ([]domain.ProductConsumption, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	return s.consumptions.FindByStore(ctx, storeID)
}

func (s *ConsumptionService) List(ctx context.Context) ([]domain.ProductConsumption, error) {
	return s.consumptions.FindAll(ctx)
}

// Delete removes the consumption record only; it does not return stock.
func (s *ConsumptionService) Delete(ctx context.Context, id int64) error {
	if err := s.consumptions.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("consumption deleted", "consumption_id", id)
	return nil
}
