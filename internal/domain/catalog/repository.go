package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ProductRepository is the read/write boundary for catalog products.
// List applies the full filter vocabulary and paginates; GetAll returns the
// entire filtered corpus for export and report use. Single-entity lookups
// return shared.ErrNotFound for absent rows.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, page shared.PageRequest) (shared.Paginated[Product], error)
	GetAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCodeOrBarcode(ctx context.Context, code string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocationRepository manages a product's location entries
type LocationRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductLocation, error)
	FindByWarehouse(ctx context.Context, productID uuid.UUID, warehouse Warehouse) ([]ProductLocation, error)
	Save(ctx context.Context, location *ProductLocation) error
	SetPrimary(ctx context.Context, productID, locationID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
