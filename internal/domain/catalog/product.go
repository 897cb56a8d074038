package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
)

// CodePlaceholder is the legacy marker stored in the code column when a
// product was created without a real code. EffectiveCode falls back to the
// notes field for these rows.
const CodePlaceholder = "N/A"

// nearMinimumFactor defines the upper bound of the warning band:
// stock above minimum but at or below minimum * 1.15.
var nearMinimumFactor = decimal.NewFromFloat(1.15)

// Product represents a product/SKU in the warehouse catalog.
// It owns its location entries and is the unit the query engine filters.
type Product struct {
	shared.AuditedEntity
	Code          string           `gorm:"type:varchar(50);index"`
	Name          string           `gorm:"type:varchar(200);not null;index"`
	Description   string           `gorm:"type:text"`
	Category      string           `gorm:"type:varchar(100);index"`
	SupplierCode  string           `gorm:"type:varchar(50)"`
	Barcode       string           `gorm:"type:varchar(50);index"`
	Notes         string           `gorm:"type:text"`
	StockCurrent  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	StockMinimum  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	StockMaximum  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PurchasePrice decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	BatchTracked  bool             `gorm:"not null;default:false"`
	Active        bool             `gorm:"not null;default:true"`
	Dimensions    string           `gorm:"type:jsonb"` // raw payload, may be malformed in legacy rows
	LegacyAisle   string           `gorm:"column:aisle;type:varchar(50)"`
	LegacyShelf   string           `gorm:"column:shelf;type:varchar(50)"`

	Locations []ProductLocation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, createdBy *uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}

	return &Product{
		AuditedEntity: shared.NewAuditedEntity(createdBy),
		Code:          strings.ToUpper(code),
		Name:          name,
		StockCurrent:  decimal.Zero,
		StockMinimum:  decimal.Zero,
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.Zero,
		Active:        true,
	}, nil
}

// EffectiveCode returns the product code, falling back to the notes field
// when the code column is blank or still holds the legacy placeholder.
func (p *Product) EffectiveCode() string {
	code := strings.TrimSpace(p.Code)
	if code == "" || strings.EqualFold(code, CodePlaceholder) {
		return strings.TrimSpace(p.Notes)
	}
	return code
}

// IsLowStock reports whether current stock has fallen to or below the minimum
func (p *Product) IsLowStock() bool {
	return p.StockCurrent.LessThanOrEqual(p.StockMinimum)
}

// IsNearMinimum reports whether current stock sits in the warning band:
// strictly above the minimum but at or below minimum * 1.15. Rows already
// at or below minimum are excluded; the two conditions are disjoint.
func (p *Product) IsNearMinimum() bool {
	if !p.StockCurrent.GreaterThan(p.StockMinimum) {
		return false
	}
	return p.StockCurrent.LessThanOrEqual(p.StockMinimum.Mul(nearMinimumFactor))
}

// PrimaryLocation returns the primary location entry, or nil when none is set
func (p *Product) PrimaryLocation() *ProductLocation {
	for i := range p.Locations {
		if p.Locations[i].IsPrimary {
			return &p.Locations[i]
		}
	}
	return nil
}

// SetStockLevels updates the stock columns
func (p *Product) SetStockLevels(current, minimum decimal.Decimal, maximum *decimal.Decimal) error {
	if current.IsNegative() || minimum.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock levels cannot be negative")
	}
	if maximum != nil && maximum.LessThan(minimum) {
		return shared.NewDomainError("INVALID_STOCK", "Maximum stock cannot be below minimum")
	}
	p.StockCurrent = current
	p.StockMinimum = minimum
	p.StockMaximum = maximum
	p.UpdatedAt = time.Now()
	return nil
}

// SetPrices updates the price columns
func (p *Product) SetPrices(purchase, selling decimal.Decimal) error {
	if purchase.IsNegative() || selling.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.PurchasePrice = purchase
	p.SellingPrice = selling
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Activate marks the product active
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}

// ProductDimensions is the decoded form of the dimensions payload
type ProductDimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// ParseDimensions decodes the stored dimensions payload. Malformed or empty
// payloads degrade to nil rather than failing the record.
func (p *Product) ParseDimensions() *ProductDimensions {
	if strings.TrimSpace(p.Dimensions) == "" {
		return nil
	}
	var dims ProductDimensions
	if err := json.Unmarshal([]byte(p.Dimensions), &dims); err != nil {
		return nil
	}
	return &dims
}
