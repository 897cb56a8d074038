package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ProductService handles catalog queries and product maintenance
type ProductService struct {
	products       catalog.ProductRepository
	locations      catalog.LocationRepository
	logger         *zap.Logger
	exportWarnRows int
}

// ProductServiceOption configures optional service behavior
type ProductServiceOption func(*ProductService)

// WithLogger sets the logger used for operational warnings
func WithLogger(logger *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExportWarnRows sets the row count above which an export logs a
// warning. Zero disables the warning.
func WithExportWarnRows(rows int) ProductServiceOption {
	return func(s *ProductService) {
		s.exportWarnRows = rows
	}
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, locations catalog.LocationRepository, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		products:  products,
		locations: locations,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List runs one filtered catalog query and returns a page of list rows
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (shared.Paginated[ProductListItem], error) {
	page := req.pageRequest()
	empty := shared.NewPaginated([]ProductListItem{}, 0, page.Page, page.PageSize)

	filter, err := req.toFilter()
	if err != nil {
		return empty, err
	}

	result, err := s.products.List(ctx, filter, page)
	if err != nil {
		return empty, err
	}

	return shared.Paginated[ProductListItem]{
		Items:      ToProductListItems(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Export returns the entire filtered corpus as list rows, ignoring
// pagination. Every row passes through the same filter semantics as List.
func (s *ProductService) Export(ctx context.Context, req ListProductsRequest) ([]ProductListItem, error) {
	filter, err := req.toFilter()
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.exportWarnRows > 0 && len(products) > s.exportWarnRows {
		s.logger.Warn("large export",
			zap.Int("rows", len(products)),
			zap.Int("warn_threshold", s.exportWarnRows),
		)
	}

	return ToProductListItems(products), nil
}

// GetByID retrieves a product with its location entries
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByCodeOrBarcode retrieves a product by exact code or barcode
func (s *ProductService) GetByCodeOrBarcode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.products.FindByCodeOrBarcode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Create creates a new product together with its location entries
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Code != "" {
		existing, err := s.products.FindByCodeOrBarcode(ctx, req.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
		}
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	product.Description = req.Description
	product.Category = req.Category
	product.SupplierCode = req.SupplierCode
	product.Barcode = req.Barcode
	product.Notes = req.Notes
	product.BatchTracked = req.BatchTracked

	if req.StockCurrent != nil || req.StockMinimum != nil || req.StockMaximum != nil {
		current := product.StockCurrent
		minimum := product.StockMinimum
		if req.StockCurrent != nil {
			current = *req.StockCurrent
		}
		if req.StockMinimum != nil {
			minimum = *req.StockMinimum
		}
		if err := product.SetStockLevels(current, minimum, req.StockMaximum); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil || req.SellingPrice != nil {
		purchase := product.PurchasePrice
		selling := product.SellingPrice
		if req.PurchasePrice != nil {
			purchase = *req.PurchasePrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if err := product.SetPrices(purchase, selling); err != nil {
			return nil, err
		}
	}

	if req.Dimensions != "" {
		if err := validateDimensions(req.Dimensions); err != nil {
			return nil, err
		}
		product.Dimensions = req.Dimensions
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	// Location rows are created unflagged; the primary is promoted through
	// SetPrimary so the at-most-one rule holds from the start.
	var primaryID *uuid.UUID
	for _, lr := range req.Locations {
		location, err := catalog.NewProductLocation(product.ID, catalog.Warehouse(lr.Warehouse), lr.Aisle, lr.Shelf)
		if err != nil {
			return nil, err
		}
		if err := s.locations.Save(ctx, location); err != nil {
			return nil, err
		}
		if lr.IsPrimary && primaryID == nil {
			id := location.ID
			primaryID = &id
		}
	}
	if primaryID != nil {
		if err := s.locations.SetPrimary(ctx, product.ID, *primaryID); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, product.ID)
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != "" && code != product.Code {
			existing, err := s.products.FindByCodeOrBarcode(ctx, code)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
			}
		}
		product.Code = code
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.SupplierCode != nil {
		product.SupplierCode = *req.SupplierCode
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.Notes != nil {
		product.Notes = *req.Notes
	}
	if req.BatchTracked != nil {
		product.BatchTracked = *req.BatchTracked
	}

	if req.StockCurrent != nil || req.StockMinimum != nil || req.StockMaximum != nil {
		current := product.StockCurrent
		minimum := product.StockMinimum
		maximum := product.StockMaximum
		if req.StockCurrent != nil {
			current = *req.StockCurrent
		}
		if req.StockMinimum != nil {
			minimum = *req.StockMinimum
		}
		if req.StockMaximum != nil {
			maximum = req.StockMaximum
		}
		if err := product.SetStockLevels(current, minimum, maximum); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil || req.SellingPrice != nil {
		purchase := product.PurchasePrice
		selling := product.SellingPrice
		if req.PurchasePrice != nil {
			purchase = *req.PurchasePrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if err := product.SetPrices(purchase, selling); err != nil {
			return nil, err
		}
	}

	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if req.Dimensions != nil {
		if *req.Dimensions != "" {
			if err := validateDimensions(*req.Dimensions); err != nil {
				return nil, err
			}
		}
		product.Dimensions = *req.Dimensions
	}

	product.Touch(req.UpdatedBy)

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, product.ID)
}

// Delete removes a product and its location entries
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	return s.products.Delete(ctx, productID)
}

// ListLocations returns a product's location entries, optionally scoped to
// one warehouse
func (s *ProductService) ListLocations(ctx context.Context, productID uuid.UUID, warehouse string) ([]LocationResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	var (
		locations []catalog.ProductLocation
		err       error
	)
	if warehouse != "" {
		wh := catalog.Warehouse(warehouse)
		if !wh.IsValid() {
			return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse must be A, B or C")
		}
		locations, err = s.locations.FindByWarehouse(ctx, productID, wh)
	} else {
		locations, err = s.locations.FindByProduct(ctx, productID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToLocationResponse(&locations[i]))
	}
	return responses, nil
}

// AddLocation appends a location entry to a product
func (s *ProductService) AddLocation(ctx context.Context, productID uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	location, err := catalog.NewProductLocation(productID, catalog.Warehouse(req.Warehouse), req.Aisle, req.Shelf)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	if req.IsPrimary {
		if err := s.locations.SetPrimary(ctx, productID, location.ID); err != nil {
			return nil, err
		}
		location.IsPrimary = true
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// RemoveLocation deletes one location entry
func (s *ProductService) RemoveLocation(ctx context.Context, locationID uuid.UUID) error {
	return s.locations.Delete(ctx, locationID)
}

// SetPrimaryLocation promotes one location entry to primary
func (s *ProductService) SetPrimaryLocation(ctx context.Context, productID, locationID uuid.UUID) error {
	return s.locations.SetPrimary(ctx, productID, locationID)
}

// validateDimensions rejects payloads that would be unreadable later; the
// read path still degrades gracefully for legacy rows that predate this
// check
func validateDimensions(raw string) error {
	var dims catalog.ProductDimensions
	if err := json.Unmarshal([]byte(raw), &dims); err != nil {
		return shared.NewDomainError("INVALID_DIMENSIONS", "Dimensions payload is not valid JSON")
	}
	return nil
}
