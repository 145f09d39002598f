package application

import (
	"context"

	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type StoreRepository interface {
	Create(ctx context.Context, s domain.Store) (domain.Store, error)
	FindByID(ctx context.Context, id int64) (domain.Store, error)
	FindByName(ctx context.Context, name string) (domain.Store, error)
	FindAll(ctx context.Context) ([]domain.Store, error)
	Update(ctx context.Context, s domain.Store) (domain.Store, error)
	Delete(ctx context.Context, id int64) error
}

type StockRepository interface {
	Upsert(ctx context.Context, s domain.Stock) (domain.Stock, error)
	FindByStoreAndProduct(ctx context.Context, storeID, productID int64) (domain.Stock, error)
	FindByStore(ctx context.Context, storeID int64) ([]domain.Stock, error)
	FindAll(ctx context.Context) ([]domain.Stock, error)
	SetQuantity(ctx context.Context, storeID, productID int64, quantity int) (domain.Stock, error)
	Delete(ctx context.Context, storeID, productID int64) error
	ProductIDsByStore(ctx context.Context, storeID int64, offset, limit int) ([]int64, error)
	StatsByStore(ctx context.Context, storeID int64) (domain.StoreStats, error)
}

type ConsumptionRepository interface {
	// Record decrements the stock row and inserts the consumption in one
	// transaction. It reports domain.ErrInsufficientStock when the store
	// does not hold enough of the product.
	Record(ctx context.Context, c domain.ProductConsumption) (domain.ProductConsumption, error)
	FindByID(ctx context.Context, id int64) (domain.ProductConsumption, error)
	FindByStore(ctx context.Context, storeID int64) ([]domain.ProductConsumption, error)
	FindAll(ctx context.Context) ([]domain.ProductConsumption, error)
	Delete(ctx context.Context, id int64) error
}

// ProductCatalog looks products up in the external product service.
type ProductCatalog interface {
	Lookup(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, ids []int64) ([]domain.Product, error)
}
