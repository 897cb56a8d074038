package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// ProductIDsWithStatus returns the distinct products having at least one
// batch whose status is in the set
func (r *GormBatchRepository) ProductIDsWithStatus(ctx context.Context, statuses []inventory.BatchStatus) ([]uuid.UUID, error) {
	if len(statuses) == 0 {
		return []uuid.UUID{}, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&inventory.ProductBatch{}).
		Where("status IN ?", statuses).
		Distinct("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByProduct returns one page of a product's batches, most recently
// received first
func (r *GormBatchRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page shared.PageRequest) (shared.Paginated[inventory.ProductBatch], error) {
	page = page.Normalize()
	empty := shared.NewPaginated([]inventory.ProductBatch{}, 0, page.Page, page.PageSize)

	base := r.db.WithContext(ctx).
		Model(&inventory.ProductBatch{}).
		Where("product_id = ?", productID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, shared.NewStageError(shared.StageCount, err)
	}

	var batches []inventory.ProductBatch
	err := base.Session(&gorm.Session{}).
		Order("received_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&batches).Error
	if err != nil {
		return empty, shared.NewStageError(shared.StagePrimaryFetch, err)
	}

	return shared.NewPaginated(batches, total, page.Page, page.PageSize), nil
}

// Save creates or updates a product batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.ProductBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
