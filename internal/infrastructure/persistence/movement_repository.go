package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// ProductIDsWithMovement returns the distinct products having at least one
// movement of the given direction inside the bounds. A zero from means
// "any time before until".
func (r *GormMovementRepository) ProductIDsWithMovement(ctx context.Context, movementType inventory.MovementType, from, until time.Time) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("type = ?", movementType)

	if from.IsZero() {
		query = query.Where("occurred_at < ?", until)
	} else {
		query = query.Where("occurred_at >= ? AND occurred_at <= ?", from, until)
	}

	var ids []uuid.UUID
	if err := query.Distinct("product_id").Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByProduct returns one page of a product's movements, newest first
func (r *GormMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page shared.PageRequest) (shared.Paginated[inventory.StockMovement], error) {
	page = page.Normalize()
	empty := shared.NewPaginated([]inventory.StockMovement{}, 0, page.Page, page.PageSize)

	base := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("product_id = ?", productID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, shared.NewStageError(shared.StageCount, err)
	}

	var movements []inventory.StockMovement
	err := base.Session(&gorm.Session{}).
		Order("occurred_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&movements).Error
	if err != nil {
		return empty, shared.NewStageError(shared.StagePrimaryFetch, err)
	}

	return shared.NewPaginated(movements, total, page.Page, page.PageSize), nil
}

// Save creates or updates a stock movement
func (r *GormMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Save(movement).Error
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
