package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// DefaultMovementLookback is the window applied to movement existence
// lookups when the caller supplies no explicit date window.
const DefaultMovementLookback = 365 * 24 * time.Hour

// MovementRepository is the read boundary for stock movements.
// ProductIDsWithMovement is the existence probe the catalog engine uses to
// resolve movement-scoped modification filters; from/until bound the probe.
type MovementRepository interface {
	ProductIDsWithMovement(ctx context.Context, movementType MovementType, from, until time.Time) ([]uuid.UUID, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page shared.PageRequest) (shared.Paginated[StockMovement], error)
	Save(ctx context.Context, movement *StockMovement) error
}

// BatchRepository is the read boundary for product batches.
// ProductIDsWithStatus is the existence probe behind the batch-status filter.
type BatchRepository interface {
	ProductIDsWithStatus(ctx context.Context, statuses []BatchStatus) ([]uuid.UUID, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page shared.PageRequest) (shared.Paginated[ProductBatch], error)
	Save(ctx context.Context, batch *ProductBatch) error
}
