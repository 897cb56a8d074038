package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLocationRepository implements catalog.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByProduct returns all location entries of a product
func (r *GormLocationRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductLocation, error) {
	var locations []catalog.ProductLocation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse ASC, aisle ASC, shelf ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// FindByWarehouse returns a product's location entries at one site
func (r *GormLocationRepository) FindByWarehouse(ctx context.Context, productID uuid.UUID, warehouse catalog.Warehouse) ([]catalog.ProductLocation, error) {
	var locations []catalog.ProductLocation
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse = ?", productID, warehouse).
		Order("aisle ASC, shelf ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location entry
func (r *GormLocationRepository) Save(ctx context.Context, location *catalog.ProductLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// SetPrimary marks one location entry as the product's primary position.
// Sibling primaries are cleared first inside the same transaction; there
// is no database constraint backing the at-most-one-primary rule.
func (r *GormLocationRepository) SetPrimary(ctx context.Context, productID, locationID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&catalog.ProductLocation{}).
			Where("product_id = ? AND is_primary = ?", productID, true).
			Update("is_primary", false).Error
		if err != nil {
			return err
		}

		result := tx.Model(&catalog.ProductLocation{}).
			Where("id = ? AND product_id = ?", locationID, productID).
			Update("is_primary", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Delete removes a single location entry
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductLocation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByProduct removes all location entries of a product
func (r *GormLocationRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.ProductLocation{}, "product_id = ?", productID).Error
}

// Ensure GormLocationRepository implements LocationRepository
var _ catalog.LocationRepository = (*GormLocationRepository)(nil)
