package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
)

// BatchStatus is the lifecycle state of a product batch
type BatchStatus string

const (
	BatchActive      BatchStatus = "active"
	BatchDepleted    BatchStatus = "depleted"
	BatchExpired     BatchStatus = "expired"
	BatchQuarantined BatchStatus = "quarantined"
)

// IsValid reports whether the status is known
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchActive, BatchDepleted, BatchExpired, BatchQuarantined:
		return true
	}
	return false
}

// ProductBatch is one received lot of a batch-tracked product.
// Batches are listed newest first by received date.
type ProductBatch struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber string          `gorm:"type:varchar(100);not null"`
	Status      BatchStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedAt  time.Time       `gorm:"not null;index"`
	ExpiryDate  *time.Time
}

// TableName returns the table name for GORM
func (ProductBatch) TableName() string {
	return "product_batches"
}

// NewProductBatch creates a new batch for a product
func NewProductBatch(productID uuid.UUID, batchNumber string, quantity decimal.Decimal, expiryDate *time.Time) (*ProductBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity cannot be negative")
	}
	return &ProductBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		BatchNumber: batchNumber,
		Status:      BatchActive,
		Quantity:    quantity,
		ReceivedAt:  time.Now(),
		ExpiryDate:  expiryDate,
	}, nil
}

// IsExpired reports whether the batch is past its expiry date
func (b *ProductBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// Deplete marks the batch as fully consumed
func (b *ProductBatch) Deplete() {
	b.Status = BatchDepleted
	b.Quantity = decimal.Zero
	b.UpdatedAt = time.Now()
}
