package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AuditedEntity extends BaseEntity with creator/updater tracking
type AuditedEntity struct {
	BaseEntity
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

// NewAuditedEntity creates a new audited entity
func NewAuditedEntity(createdBy *uuid.UUID) AuditedEntity {
	return AuditedEntity{
		BaseEntity: NewBaseEntity(),
		CreatedBy:  createdBy,
		UpdatedBy:  createdBy,
	}
}

// Touch updates the modification audit fields
func (e *AuditedEntity) Touch(updatedBy *uuid.UUID) {
	e.UpdatedAt = time.Now()
	if updatedBy != nil {
		e.UpdatedBy = updatedBy
	}
}
