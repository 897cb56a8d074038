package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ListProductsRequest carries every filter facet of a catalog query.
// Date constraints come in two mutually exclusive shapes per column: a
// from/to range, or a single before-date; a supplied From wins over Before.
type ListProductsRequest struct {
	Search       string `form:"search"`
	Category     string `form:"category"`
	SupplierCode string `form:"supplier_code"`
	BatchTracked *bool  `form:"batch_tracked"`

	StockCurrentMin *decimal.Decimal `form:"stock_current_min"`
	StockCurrentMax *decimal.Decimal `form:"stock_current_max"`
	StockMinimumMin *decimal.Decimal `form:"stock_minimum_min"`
	StockMinimumMax *decimal.Decimal `form:"stock_minimum_max"`
	PriceMin        *decimal.Decimal `form:"price_min"`
	PriceMax        *decimal.Decimal `form:"price_max"`

	Warehouse string `form:"warehouse" binding:"omitempty,oneof=A B C"`
	Aisle     string `form:"aisle"`
	Shelf     string `form:"shelf"`

	CreatedFrom    *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo      *time.Time `form:"created_to" time_format:"2006-01-02"`
	CreatedBefore  *time.Time `form:"created_before" time_format:"2006-01-02"`
	ModifiedFrom   *time.Time `form:"modified_from" time_format:"2006-01-02"`
	ModifiedTo     *time.Time `form:"modified_to" time_format:"2006-01-02"`
	ModifiedBefore *time.Time `form:"modified_before" time_format:"2006-01-02"`
	ModifiedScope  string     `form:"modified_scope" binding:"omitempty,oneof=entries exits both"`

	LowStock         bool     `form:"low_stock"`
	StockNearMinimum bool     `form:"stock_near_minimum"`
	BatchStatuses    []string `form:"batch_status"`

	IncludeInactive bool `form:"include_inactive"`

	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// toFilter maps the request onto the domain filter, validating the
// enumerated fields
func (r ListProductsRequest) toFilter() (catalog.ProductFilter, error) {
	filter := catalog.ProductFilter{
		Search:           r.Search,
		Category:         r.Category,
		SupplierCode:     r.SupplierCode,
		BatchTracked:     r.BatchTracked,
		StockCurrentMin:  r.StockCurrentMin,
		StockCurrentMax:  r.StockCurrentMax,
		StockMinimumMin:  r.StockMinimumMin,
		StockMinimumMax:  r.StockMinimumMax,
		PriceMin:         r.PriceMin,
		PriceMax:         r.PriceMax,
		Aisle:            r.Aisle,
		Shelf:            r.Shelf,
		LowStock:         r.LowStock,
		StockNearMinimum: r.StockNearMinimum,
		IncludeInactive:  r.IncludeInactive,
	}

	if r.Warehouse != "" {
		warehouse := catalog.Warehouse(r.Warehouse)
		if !warehouse.IsValid() {
			return filter, shared.NewDomainError("INVALID_WAREHOUSE", "Unknown warehouse site")
		}
		filter.Warehouse = warehouse
	}

	if r.ModifiedScope != "" {
		scope := catalog.ModificationScope(r.ModifiedScope)
		switch scope {
		case catalog.ModificationEntries, catalog.ModificationExits, catalog.ModificationBoth:
			filter.ModifiedScope = scope
		default:
			return filter, shared.NewDomainError("INVALID_SCOPE", "Modification scope must be entries, exits or both")
		}
	}

	for _, raw := range r.BatchStatuses {
		status := inventory.BatchStatus(raw)
		if !status.IsValid() {
			return filter, shared.NewDomainError("INVALID_BATCH_STATUS", "Unknown batch status")
		}
		filter.BatchStatuses = append(filter.BatchStatuses, status)
	}

	filter.CreatedWindow = buildWindow(r.CreatedFrom, r.CreatedTo, r.CreatedBefore)
	filter.ModifiedWindow = buildWindow(r.ModifiedFrom, r.ModifiedTo, r.ModifiedBefore)

	return filter, nil
}

func (r ListProductsRequest) pageRequest() shared.PageRequest {
	return shared.PageRequest{Page: r.Page, PageSize: r.PageSize}.Normalize()
}

// buildWindow picks the window shape: a range when a lower bound is given
// (open upper bounds close at now), otherwise a before-date. An upper bound
// with no lower bound is a before-date too, never a range from zero time.
func buildWindow(from, to, before *time.Time) *catalog.DateWindow {
	if from != nil {
		upper := time.Now()
		if to != nil {
			upper = *to
		}
		w := catalog.BetweenDates(*from, upper)
		return &w
	}
	if to != nil {
		before = to
	}
	if before != nil {
		w := catalog.BeforeDate(*before)
		return &w
	}
	return nil
}

// LocationRequest is one location entry in a create or add call
type LocationRequest struct {
	Warehouse string `json:"warehouse" binding:"required,oneof=A B C"`
	Aisle     string `json:"aisle" binding:"max=50"`
	Shelf     string `json:"shelf" binding:"max=50"`
	IsPrimary bool   `json:"is_primary"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code          string            `json:"code" binding:"max=50"`
	Name          string            `json:"name" binding:"required,min=1,max=200"`
	Description   string            `json:"description" binding:"max=2000"`
	Category      string            `json:"category" binding:"max=100"`
	SupplierCode  string            `json:"supplier_code" binding:"max=50"`
	Barcode       string            `json:"barcode" binding:"max=50"`
	Notes         string            `json:"notes"`
	StockCurrent  *decimal.Decimal  `json:"stock_current"`
	StockMinimum  *decimal.Decimal  `json:"stock_minimum"`
	StockMaximum  *decimal.Decimal  `json:"stock_maximum"`
	PurchasePrice *decimal.Decimal  `json:"purchase_price"`
	SellingPrice  *decimal.Decimal  `json:"selling_price"`
	BatchTracked  bool              `json:"batch_tracked"`
	Dimensions    string            `json:"dimensions"`
	Locations     []LocationRequest `json:"locations"`
	CreatedBy     *uuid.UUID        `json:"-"`
}

// UpdateProductRequest represents a partial update; nil fields are left as
// they are
type UpdateProductRequest struct {
	Code          *string          `json:"code" binding:"omitempty,max=50"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	SupplierCode  *string          `json:"supplier_code" binding:"omitempty,max=50"`
	Barcode       *string          `json:"barcode" binding:"omitempty,max=50"`
	Notes         *string          `json:"notes"`
	StockCurrent  *decimal.Decimal `json:"stock_current"`
	StockMinimum  *decimal.Decimal `json:"stock_minimum"`
	StockMaximum  *decimal.Decimal `json:"stock_maximum"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	BatchTracked  *bool            `json:"batch_tracked"`
	Active        *bool            `json:"active"`
	Dimensions    *string          `json:"dimensions"`
	UpdatedBy     *uuid.UUID       `json:"-"`
}

// LocationResponse represents one location entry in API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Warehouse string    `json:"warehouse"`
	Aisle     string    `json:"aisle"`
	Shelf     string    `json:"shelf"`
	IsPrimary bool      `json:"is_primary"`
}

// ProductResponse represents a fully loaded product in API responses
type ProductResponse struct {
	ID            uuid.UUID                  `json:"id"`
	Code          string                     `json:"code"`
	EffectiveCode string                     `json:"effective_code"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Category      string                     `json:"category"`
	SupplierCode  string                     `json:"supplier_code"`
	Barcode       string                     `json:"barcode"`
	Notes         string                     `json:"notes"`
	StockCurrent  decimal.Decimal            `json:"stock_current"`
	StockMinimum  decimal.Decimal            `json:"stock_minimum"`
	StockMaximum  *decimal.Decimal           `json:"stock_maximum"`
	PurchasePrice decimal.Decimal            `json:"purchase_price"`
	SellingPrice  decimal.Decimal            `json:"selling_price"`
	BatchTracked  bool                       `json:"batch_tracked"`
	Active        bool                       `json:"active"`
	LowStock      bool                       `json:"low_stock"`
	NearMinimum   bool                       `json:"near_minimum"`
	Dimensions    *catalog.ProductDimensions `json:"dimensions"`
	Locations     []LocationResponse         `json:"locations"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ProductListItem is the slim row shape for list and export responses
type ProductListItem struct {
	ID            uuid.UUID         `json:"id"`
	Code          string            `json:"code"`
	EffectiveCode string            `json:"effective_code"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	StockCurrent  decimal.Decimal   `json:"stock_current"`
	StockMinimum  decimal.Decimal   `json:"stock_minimum"`
	SellingPrice  decimal.Decimal   `json:"selling_price"`
	BatchTracked  bool              `json:"batch_tracked"`
	Active        bool              `json:"active"`
	LowStock      bool              `json:"low_stock"`
	NearMinimum   bool              `json:"near_minimum"`
	Location      *LocationResponse `json:"location,omitempty"`
}

// ToLocationResponse converts a domain location entry
func ToLocationResponse(l *catalog.ProductLocation) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Warehouse: string(l.Warehouse),
		Aisle:     l.Aisle,
		Shelf:     l.Shelf,
		IsPrimary: l.IsPrimary,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	locations := make([]LocationResponse, len(p.Locations))
	for i := range p.Locations {
		locations[i] = ToLocationResponse(&p.Locations[i])
	}
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		EffectiveCode: p.EffectiveCode(),
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		SupplierCode:  p.SupplierCode,
		Barcode:       p.Barcode,
		Notes:         p.Notes,
		StockCurrent:  p.StockCurrent,
		StockMinimum:  p.StockMinimum,
		StockMaximum:  p.StockMaximum,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		BatchTracked:  p.BatchTracked,
		Active:        p.Active,
		LowStock:      p.IsLowStock(),
		NearMinimum:   p.IsNearMinimum(),
		Dimensions:    p.ParseDimensions(),
		Locations:     locations,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductListItem converts a domain Product to its list row shape
func ToProductListItem(p *catalog.Product) ProductListItem {
	item := ProductListItem{
		ID:            p.ID,
		Code:          p.Code,
		EffectiveCode: p.EffectiveCode(),
		Name:          p.Name,
		Category:      p.Category,
		StockCurrent:  p.StockCurrent,
		StockMinimum:  p.StockMinimum,
		SellingPrice:  p.SellingPrice,
		BatchTracked:  p.BatchTracked,
		Active:        p.Active,
		LowStock:      p.IsLowStock(),
		NearMinimum:   p.IsNearMinimum(),
	}
	if primary := p.PrimaryLocation(); primary != nil {
		loc := ToLocationResponse(primary)
		item.Location = &loc
	}
	return item
}

// ToProductListItems converts a slice of products
func ToProductListItems(products []catalog.Product) []ProductListItem {
	items := make([]ProductListItem, len(products))
	for i := range products {
		items[i] = ToProductListItem(&products[i])
	}
	return items
}
