package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/warehouse/backend/internal/application/catalog"
)

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers catalog routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	catalog.GET("/products", h.List)
	catalog.GET("/products/export", h.Export)
	catalog.GET("/products/lookup", h.Lookup)
	catalog.GET("/products/:id", h.GetByID)
	catalog.POST("/products", h.Create)
	catalog.PUT("/products/:id", h.Update)
	catalog.DELETE("/products/:id", h.Delete)
	catalog.GET("/products/:id/locations", h.ListLocations)
	catalog.POST("/products/:id/locations", h.AddLocation)
	catalog.DELETE("/products/:id/locations/:location_id", h.RemoveLocation)
	catalog.PUT("/products/:id/locations/:location_id/primary", h.SetPrimaryLocation)
}

// listProductsQuery is the query-string shape of a catalog listing.
// Numeric bounds arrive as floats and are converted to decimals before
// they reach the application layer.
type listProductsQuery struct {
	Search       string `form:"search"`
	Category     string `form:"category"`
	SupplierCode string `form:"supplier_code"`
	BatchTracked *bool  `form:"batch_tracked"`

	StockCurrentMin *float64 `form:"stock_current_min"`
	StockCurrentMax *float64 `form:"stock_current_max"`
	StockMinimumMin *float64 `form:"stock_minimum_min"`
	StockMinimumMax *float64 `form:"stock_minimum_max"`
	PriceMin        *float64 `form:"price_min"`
	PriceMax        *float64 `form:"price_max"`

	Warehouse string `form:"warehouse"`
	Aisle     string `form:"aisle"`
	Shelf     string `form:"shelf"`

	CreatedFrom    *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo      *time.Time `form:"created_to" time_format:"2006-01-02"`
	CreatedBefore  *time.Time `form:"created_before" time_format:"2006-01-02"`
	ModifiedFrom   *time.Time `form:"modified_from" time_format:"2006-01-02"`
	ModifiedTo     *time.Time `form:"modified_to" time_format:"2006-01-02"`
	ModifiedBefore *time.Time `form:"modified_before" time_format:"2006-01-02"`
	ModifiedScope  string     `form:"modified_scope"`

	LowStock         bool     `form:"low_stock"`
	StockNearMinimum bool     `form:"stock_near_minimum"`
	BatchStatuses    []string `form:"batch_status"`

	IncludeInactive bool `form:"include_inactive"`

	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (q listProductsQuery) toAppRequest() catalogapp.ListProductsRequest {
	req := catalogapp.ListProductsRequest{
		Search:           q.Search,
		Category:         q.Category,
		SupplierCode:     q.SupplierCode,
		BatchTracked:     q.BatchTracked,
		Warehouse:        q.Warehouse,
		Aisle:            q.Aisle,
		Shelf:            q.Shelf,
		CreatedFrom:      q.CreatedFrom,
		CreatedTo:        q.CreatedTo,
		CreatedBefore:    q.CreatedBefore,
		ModifiedFrom:     q.ModifiedFrom,
		ModifiedTo:       q.ModifiedTo,
		ModifiedBefore:   q.ModifiedBefore,
		ModifiedScope:    q.ModifiedScope,
		LowStock:         q.LowStock,
		StockNearMinimum: q.StockNearMinimum,
		BatchStatuses:    q.BatchStatuses,
		IncludeInactive:  q.IncludeInactive,
		Page:             q.Page,
		PageSize:         q.PageSize,
	}
	if q.StockCurrentMin != nil {
		req.StockCurrentMin = toDecimalPtr(*q.StockCurrentMin)
	}
	if q.StockCurrentMax != nil {
		req.StockCurrentMax = toDecimalPtr(*q.StockCurrentMax)
	}
	if q.StockMinimumMin != nil {
		req.StockMinimumMin = toDecimalPtr(*q.StockMinimumMin)
	}
	if q.StockMinimumMax != nil {
		req.StockMinimumMax = toDecimalPtr(*q.StockMinimumMax)
	}
	if q.PriceMin != nil {
		req.PriceMin = toDecimalPtr(*q.PriceMin)
	}
	if q.PriceMax != nil {
		req.PriceMax = toDecimalPtr(*q.PriceMax)
	}
	return req
}

// List returns one page of the filtered catalog
func (h *ProductHandler) List(c *gin.Context) {
	var query listProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.products.List(c.Request.Context(), query.toAppRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Export returns every row matching the filter, unpaginated
func (h *ProductHandler) Export(c *gin.Context) {
	var query listProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.products.Export(c.Request.Context(), query.toAppRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// GetByID returns a single product with its locations
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Lookup finds a product by its code or barcode
func (h *ProductHandler) Lookup(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		h.BadRequest(c, "Query parameter 'code' is required")
		return
	}

	product, err := h.products.GetByCodeOrBarcode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// createProductRequest is the JSON body for product creation
type createProductRequest struct {
	Code          string                       `json:"code" binding:"max=50"`
	Name          string                       `json:"name" binding:"required,min=1,max=200"`
	Description   string                       `json:"description" binding:"max=2000"`
	Category      string                       `json:"category" binding:"max=100"`
	SupplierCode  string                       `json:"supplier_code" binding:"max=50"`
	Barcode       string                       `json:"barcode" binding:"max=50"`
	Notes         string                       `json:"notes"`
	StockCurrent  *float64                     `json:"stock_current"`
	StockMinimum  *float64                     `json:"stock_minimum"`
	StockMaximum  *float64                     `json:"stock_maximum"`
	PurchasePrice *float64                     `json:"purchase_price"`
	SellingPrice  *float64                     `json:"selling_price"`
	BatchTracked  bool                         `json:"batch_tracked"`
	Dimensions    string                       `json:"dimensions"`
	Locations     []catalogapp.LocationRequest `json:"locations" binding:"omitempty,dive"`
}

// Create adds a new product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateProductRequest{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		SupplierCode: req.SupplierCode,
		Barcode:      req.Barcode,
		Notes:        req.Notes,
		BatchTracked: req.BatchTracked,
		Dimensions:   req.Dimensions,
		Locations:    req.Locations,
	}
	if req.StockCurrent != nil {
		appReq.StockCurrent = toDecimalPtr(*req.StockCurrent)
	}
	if req.StockMinimum != nil {
		appReq.StockMinimum = toDecimalPtr(*req.StockMinimum)
	}
	if req.StockMaximum != nil {
		appReq.StockMaximum = toDecimalPtr(*req.StockMaximum)
	}
	if req.PurchasePrice != nil {
		appReq.PurchasePrice = toDecimalPtr(*req.PurchasePrice)
	}
	if req.SellingPrice != nil {
		appReq.SellingPrice = toDecimalPtr(*req.SellingPrice)
	}

	product, err := h.products.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// updateProductRequest is the JSON body for a partial product update
type updateProductRequest struct {
	Code          *string  `json:"code" binding:"omitempty,max=50"`
	Name          *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=2000"`
	Category      *string  `json:"category" binding:"omitempty,max=100"`
	SupplierCode  *string  `json:"supplier_code" binding:"omitempty,max=50"`
	Barcode       *string  `json:"barcode" binding:"omitempty,max=50"`
	Notes         *string  `json:"notes"`
	StockCurrent  *float64 `json:"stock_current"`
	StockMinimum  *float64 `json:"stock_minimum"`
	StockMaximum  *float64 `json:"stock_maximum"`
	PurchasePrice *float64 `json:"purchase_price"`
	SellingPrice  *float64 `json:"selling_price"`
	BatchTracked  *bool    `json:"batch_tracked"`
	Active        *bool    `json:"active"`
	Dimensions    *string  `json:"dimensions"`
}

// Update applies a partial update to a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.UpdateProductRequest{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		SupplierCode: req.SupplierCode,
		Barcode:      req.Barcode,
		Notes:        req.Notes,
		BatchTracked: req.BatchTracked,
		Active:       req.Active,
		Dimensions:   req.Dimensions,
	}
	if req.StockCurrent != nil {
		appReq.StockCurrent = toDecimalPtr(*req.StockCurrent)
	}
	if req.StockMinimum != nil {
		appReq.StockMinimum = toDecimalPtr(*req.StockMinimum)
	}
	if req.StockMaximum != nil {
		appReq.StockMaximum = toDecimalPtr(*req.StockMaximum)
	}
	if req.PurchasePrice != nil {
		appReq.PurchasePrice = toDecimalPtr(*req.PurchasePrice)
	}
	if req.SellingPrice != nil {
		appReq.SellingPrice = toDecimalPtr(*req.SellingPrice)
	}

	product, err := h.products.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product and its location entries
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListLocations returns a product's location entries, optionally filtered
// to one warehouse via ?warehouse=
func (h *ProductHandler) ListLocations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	locations, err := h.products.ListLocations(c.Request.Context(), id, c.Query("warehouse"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// AddLocation adds a location entry to a product
func (h *ProductHandler) AddLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.products.AddLocation(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// RemoveLocation deletes a location entry from a product
func (h *ProductHandler) RemoveLocation(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.products.RemoveLocation(c.Request.Context(), locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetPrimaryLocation marks one location entry as the product's primary
func (h *ProductHandler) SetPrimaryLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.products.SetPrimaryLocation(c.Request.Context(), id, locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
