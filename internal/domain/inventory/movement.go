package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementEntry MovementType = "entry"
	MovementExit  MovementType = "exit"
)

// IsValid reports whether the movement type is known
func (t MovementType) IsValid() bool {
	return t == MovementEntry || t == MovementExit
}

// StockMovement records one entry or exit of stock for a product.
// The catalog query engine only probes movements for existence; the full
// movement ledger lives behind its own paginated reads.
type StockMovement struct {
	shared.BaseEntity
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type       MovementType    `gorm:"type:varchar(10);not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason     string          `gorm:"type:varchar(200)"`
	OccurredAt time.Time       `gorm:"not null;index"`
	CreatedBy  *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement
func NewStockMovement(productID uuid.UUID, movementType MovementType, quantity decimal.Decimal, reason string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type must be entry or exit")
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Type:       movementType,
		Quantity:   quantity,
		Reason:     reason,
		OccurredAt: time.Now(),
	}, nil
}
