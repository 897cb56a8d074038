package catalog

import (
	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// Warehouse identifies one of the physical sites
type Warehouse string

const (
	WarehouseA Warehouse = "A"
	WarehouseB Warehouse = "B"
	WarehouseC Warehouse = "C"
)

// IsValid reports whether the warehouse is a known site
func (w Warehouse) IsValid() bool {
	switch w {
	case WarehouseA, WarehouseB, WarehouseC:
		return true
	}
	return false
}

// ProductLocation is one shelf position of a product within a site.
// Location entries have no existence independent of their product; they are
// cascade-deleted with it. At most one entry per product is primary, which
// the write path enforces by clearing sibling primaries before setting a
// new one (there is no database constraint for it).
type ProductLocation struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Warehouse Warehouse `gorm:"type:varchar(10);not null;index"`
	Aisle     string    `gorm:"type:varchar(50)"`
	Shelf     string    `gorm:"type:varchar(50)"`
	IsPrimary bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductLocation) TableName() string {
	return "product_locations"
}

// NewProductLocation creates a new location entry for a product
func NewProductLocation(productID uuid.UUID, warehouse Warehouse, aisle, shelf string) (*ProductLocation, error) {
	if !warehouse.IsValid() {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Unknown warehouse site")
	}
	return &ProductLocation{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Warehouse:  warehouse,
		Aisle:      aisle,
		Shelf:      shelf,
	}, nil
}
