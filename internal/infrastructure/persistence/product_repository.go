package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository against the
// remote store. It is the engine's query planner: a filter either pushes
// every constraint into one store query (one page window, store-reported
// total) or, when any derived condition is present, scans the whole
// pushdown-constrained corpus in bounded windows, evaluates the derived
// filters in memory, and slices the page client-side with
// total = len(filtered). The two paths never mix within one call.
type GormProductRepository struct {
	db          *gorm.DB
	movements   inventory.MovementRepository
	batches     inventory.BatchRepository
	fetchWindow int
	lookback    time.Duration
}

// ProductRepositoryOption configures a GormProductRepository
type ProductRepositoryOption func(*GormProductRepository)

// WithFetchWindow overrides the store's maximum rows-per-request window
func WithFetchWindow(window int) ProductRepositoryOption {
	return func(r *GormProductRepository) {
		if window > 0 {
			r.fetchWindow = window
		}
	}
}

// WithMovementLookback overrides the default movement probe lookback
func WithMovementLookback(lookback time.Duration) ProductRepositoryOption {
	return func(r *GormProductRepository) {
		if lookback > 0 {
			r.lookback = lookback
		}
	}
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(
	db *gorm.DB,
	movements inventory.MovementRepository,
	batches inventory.BatchRepository,
	opts ...ProductRepositoryOption,
) *GormProductRepository {
	r := &GormProductRepository{
		db:          db,
		movements:   movements,
		batches:     batches,
		fetchWindow: MaxFetchWindow,
		lookback:    inventory.DefaultMovementLookback,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns one page of products matching the filter, with the total
// reflecting the full filtered corpus
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductFilter, page shared.PageRequest) (shared.Paginated[catalog.Product], error) {
	page = page.Normalize()
	empty := shared.NewPaginated([]catalog.Product{}, 0, page.Page, page.PageSize)

	include, matchNothing, err := r.resolveInclusion(ctx, filter)
	if err != nil {
		return empty, err
	}
	if matchNothing {
		return empty, nil
	}

	if !filter.HasDerivedConditions() {
		var total int64
		if err := r.pushdownQuery(ctx, filter, include).Count(&total).Error; err != nil {
			return empty, shared.NewStageError(shared.StageCount, err)
		}

		var items []catalog.Product
		err := r.pushdownQuery(ctx, filter, include).
			Order("name ASC").
			Offset(page.Offset()).
			Limit(page.PageSize).
			Find(&items).Error
		if err != nil {
			return empty, shared.NewStageError(shared.StagePrimaryFetch, err)
		}
		return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
	}

	filtered, err := r.scanAndEvaluate(ctx, filter, include)
	if err != nil {
		return empty, err
	}

	start := page.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + page.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return shared.NewPaginated(filtered[start:end], int64(len(filtered)), page.Page, page.PageSize), nil
}

// GetAll returns the entire filtered corpus. It always walks the bounded
// scan path regardless of derived conditions, for export and report use.
func (r *GormProductRepository) GetAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	include, matchNothing, err := r.resolveInclusion(ctx, filter)
	if err != nil {
		return nil, err
	}
	if matchNothing {
		return []catalog.Product{}, nil
	}
	return r.scanAndEvaluate(ctx, filter, include)
}

// FindByID finds a product by ID with its location entries loaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).
		Preload("Locations").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCodeOrBarcode finds a product by exact code or barcode match
func (r *GormProductRepository) FindByCodeOrBarcode(ctx context.Context, code string) (*catalog.Product, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}
	var product catalog.Product
	err := r.db.WithContext(ctx).
		Preload("Locations").
		Where("code = ? OR barcode = ?", strings.ToUpper(code), code).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product and its location entries
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&catalog.ProductLocation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// resolveInclusion runs location resolution when the filter constrains the
// location triple. A resolved-but-empty set means the whole call matches
// nothing; it is never treated as "no constraint".
func (r *GormProductRepository) resolveInclusion(ctx context.Context, filter catalog.ProductFilter) (*IDSet, bool, error) {
	if !filter.HasLocationConstraint() {
		return nil, false, nil
	}
	resolver := &locationResolver{db: r.db}
	set, err := resolver.resolve(ctx, filter)
	if err != nil {
		return nil, false, shared.NewStageError(shared.StageLocationLookup, err)
	}
	if set.IsEmpty() {
		return nil, true, nil
	}
	return set, false, nil
}

// pushdownQuery builds the store query carrying every constraint the store
// can evaluate itself. Derived conditions never appear here.
func (r *GormProductRepository) pushdownQuery(ctx context.Context, filter catalog.ProductFilter, include *IDSet) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})

	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.BatchTracked != nil {
		query = query.Where("batch_tracked = ?", *filter.BatchTracked)
	}
	if filter.SupplierCode != "" {
		query = query.Where("LOWER(supplier_code) LIKE ?", "%"+strings.ToLower(filter.SupplierCode)+"%")
	}

	if filter.StockCurrentMin != nil {
		query = query.Where("stock_current >= ?", *filter.StockCurrentMin)
	}
	if filter.StockCurrentMax != nil {
		query = query.Where("stock_current <= ?", *filter.StockCurrentMax)
	}
	if filter.StockMinimumMin != nil {
		query = query.Where("stock_minimum >= ?", *filter.StockMinimumMin)
	}
	if filter.StockMinimumMax != nil {
		query = query.Where("stock_minimum <= ?", *filter.StockMinimumMax)
	}
	if filter.PriceMin != nil {
		query = query.Where("selling_price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("selling_price <= ?", *filter.PriceMax)
	}

	query = applyDateWindow(query, "created_at", filter.CreatedWindow)
	// A movement-scoped modification filter resolves through the movement
	// table instead of the updated_at column.
	if !filter.MovementScoped() {
		query = applyDateWindow(query, "updated_at", filter.ModifiedWindow)
	}

	if sql, args := buildSearchCondition(filter.Search, productSearchFields); sql != "" {
		query = query.Where(sql, args...)
	}

	if include != nil {
		query = query.Where("id IN ?", include.Values())
	}

	return query
}

// scanAndEvaluate walks the full pushdown corpus in bounded windows, then
// narrows it through the derived filters in sequence, preserving the scan
// order throughout.
func (r *GormProductRepository) scanAndEvaluate(ctx context.Context, filter catalog.ProductFilter, include *IDSet) ([]catalog.Product, error) {
	scanner := newBatchScanner(r.pushdownQuery(ctx, filter, include).Order("name ASC"), r.fetchWindow)
	working, err := scanner.All()
	if err != nil {
		return nil, shared.NewStageError(shared.StagePrimaryFetch, err)
	}
	if working == nil {
		working = []catalog.Product{}
	}

	if filter.LowStock {
		working = filterLowStock(working)
	}
	if filter.StockNearMinimum {
		working = filterNearMinimum(working)
	}

	if filter.MovementScoped() {
		from, until := r.movementBounds(filter.ModifiedWindow)
		ids, err := r.movements.ProductIDsWithMovement(ctx, filter.MovementType(), from, until)
		if err != nil {
			return nil, shared.NewStageError(shared.StageMovementLookup, err)
		}
		working = filterByIDSet(working, NewIDSet(ids...))
	}

	if len(filter.BatchStatuses) > 0 {
		ids, err := r.batches.ProductIDsWithStatus(ctx, filter.BatchStatuses)
		if err != nil {
			return nil, shared.NewStageError(shared.StageBatchLookup, err)
		}
		working = filterByIDSet(working, NewIDSet(ids...))
	}

	return working, nil
}

// movementBounds converts the optional modification window into the probe
// bounds: no window means the default lookback ending now, an upper-bound
// window means everything before that date.
func (r *GormProductRepository) movementBounds(window *catalog.DateWindow) (time.Time, time.Time) {
	if window == nil {
		now := time.Now()
		return now.Add(-r.lookback), now
	}
	if window.IsRange() {
		return window.From(), window.To()
	}
	return time.Time{}, window.To()
}

// applyDateWindow pushes a tagged date window down onto the given column
func applyDateWindow(query *gorm.DB, column string, window *catalog.DateWindow) *gorm.DB {
	if window == nil {
		return query
	}
	if window.IsRange() {
		return query.Where(column+" >= ? AND "+column+" <= ?", window.From(), window.To())
	}
	return query.Where(column+" < ?", window.To())
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
