package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

func newTestProductRepository(db *gorm.DB, opts ...ProductRepositoryOption) *GormProductRepository {
	return NewGormProductRepository(db, NewGormMovementRepository(db), NewGormBatchRepository(db), opts...)
}

func itemNames(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestProductRepository_List_PushdownPagination(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)
	seedNumberedProducts(t, db, 60, func(i int) (int64, int64) { return 50, 10 })

	seen := map[uuid.UUID]bool{}
	for page := 1; page <= 3; page++ {
		result, err := repo.List(context.Background(), catalog.ProductFilter{}, shared.PageRequest{Page: page, PageSize: 25})
		require.NoError(t, err)

		assert.Equal(t, int64(60), result.Total)
		assert.Equal(t, 3, result.TotalPages)
		if page < 3 {
			require.Len(t, result.Items, 25)
		} else {
			require.Len(t, result.Items, 10)
		}

		for _, p := range result.Items {
			assert.False(t, seen[p.ID], "product %s appeared on two pages", p.Name)
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, 60)
}

func TestProductRepository_List_NormalizesPageRequest(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)
	seedNumberedProducts(t, db, 3, func(i int) (int64, int64) { return 50, 10 })

	result, err := repo.List(context.Background(), catalog.ProductFilter{}, shared.PageRequest{Page: 0, PageSize: -5})
	require.NoError(t, err)

	assert.Equal(t, shared.DefaultPage, result.Page)
	assert.Equal(t, shared.DefaultPageSize, result.PageSize)
	assert.Len(t, result.Items, 3)
}

func TestProductRepository_List_OrderedByName(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	seedProduct(t, db, "Wrench", 50, 10)
	seedProduct(t, db, "Anvil", 50, 10)
	seedProduct(t, db, "Hammer", 50, 10)

	result, err := repo.List(context.Background(), catalog.ProductFilter{}, shared.DefaultPageRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"Anvil", "Hammer", "Wrench"}, itemNames(result.Items))
}

func TestProductRepository_List_InactiveHiddenByDefault(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	seedProduct(t, db, "Active", 50, 10)
	inactive := seedProduct(t, db, "Retired", 50, 10)
	inactive.Deactivate()
	require.NoError(t, db.Save(inactive).Error)

	result, err := repo.List(context.Background(), catalog.ProductFilter{}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Active"}, itemNames(result.Items))

	result, err = repo.List(context.Background(), catalog.ProductFilter{IncludeInactive: true}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}

func TestProductRepository_List_SearchPredicate(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	seedProduct(t, db, "Cordless Drill", 50, 10)
	seedProduct(t, db, "Circular Saw", 50, 10)
	seedProduct(t, db, "Claw Hammer", 50, 10)

	result, err := repo.List(context.Background(), catalog.ProductFilter{Search: "drill OR saw"}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Circular Saw", "Cordless Drill"}, itemNames(result.Items))

	result, err = repo.List(context.Background(), catalog.ProductFilter{Search: "c* NOT hammer"}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Circular Saw", "Cordless Drill"}, itemNames(result.Items))
}

func TestProductRepository_List_StockAndPriceRanges(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	cheap := seedProduct(t, db, "Cheap", 5, 1)
	require.NoError(t, cheap.SetPrices(decimal.NewFromInt(1), decimal.NewFromInt(2)))
	require.NoError(t, db.Save(cheap).Error)

	dear := seedProduct(t, db, "Dear", 80, 1)
	require.NoError(t, dear.SetPrices(decimal.NewFromInt(10), decimal.NewFromInt(20)))
	require.NoError(t, db.Save(dear).Error)

	min := decimal.NewFromInt(10)
	result, err := repo.List(context.Background(), catalog.ProductFilter{PriceMin: &min}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dear"}, itemNames(result.Items))

	stockMax := decimal.NewFromInt(50)
	result, err = repo.List(context.Background(), catalog.ProductFilter{StockCurrentMax: &stockMax}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cheap"}, itemNames(result.Items))
}

func TestProductRepository_List_CreatedWindow(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	old := seedProduct(t, db, "Old", 50, 10)
	require.NoError(t, db.Model(old).Update("created_at", cutoff.AddDate(0, -6, 0)).Error)
	seedProduct(t, db, "Recent", 50, 10)

	before := catalog.BeforeDate(cutoff)
	result, err := repo.List(context.Background(), catalog.ProductFilter{CreatedWindow: &before}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, itemNames(result.Items))

	window := catalog.BetweenDates(cutoff.AddDate(-1, 0, 0), cutoff)
	result, err = repo.List(context.Background(), catalog.ProductFilter{CreatedWindow: &window}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, itemNames(result.Items))
}

// the low-stock condition compares two columns of the same row, so the
// whole corpus is scanned in windows, filtered in memory, and paged
// client-side with the total reflecting the filtered count
func TestProductRepository_List_LowStockScanPath(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	// 1500 products, every third one at or below its minimum; the corpus
	// is larger than one fetch window
	seedNumberedProducts(t, db, 1500, func(i int) (int64, int64) {
		if i%3 == 0 {
			return 5, 10
		}
		return 50, 10
	})

	result, err := repo.List(context.Background(), catalog.ProductFilter{LowStock: true}, shared.PageRequest{Page: 2, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, int64(500), result.Total)
	assert.Equal(t, 20, result.TotalPages)
	require.Len(t, result.Items, 25)
	assert.Equal(t, "Item 0075", result.Items[0].Name)
	assert.Equal(t, "Item 0147", result.Items[24].Name)

	// the same read twice yields the same page
	again, err := repo.List(context.Background(), catalog.ProductFilter{LowStock: true}, shared.PageRequest{Page: 2, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, itemNames(result.Items), itemNames(again.Items))
	assert.Equal(t, result.Total, again.Total)
}

func TestProductRepository_List_NearMinimumBand(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	seedProduct(t, db, "Below", 5, 10)
	seedProduct(t, db, "At minimum", 10, 10)
	seedProduct(t, db, "In band", 11, 10)
	seedProduct(t, db, "Above band", 12, 10)

	low, err := repo.List(context.Background(), catalog.ProductFilter{LowStock: true}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"At minimum", "Below"}, itemNames(low.Items))

	near, err := repo.List(context.Background(), catalog.ProductFilter{StockNearMinimum: true}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"In band"}, itemNames(near.Items))
}

func TestProductRepository_List_LastPagePartial(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)
	seedNumberedProducts(t, db, 30, func(i int) (int64, int64) { return 5, 10 })

	result, err := repo.List(context.Background(), catalog.ProductFilter{LowStock: true}, shared.PageRequest{Page: 2, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, int64(30), result.Total)
	assert.Len(t, result.Items, 5)

	// a page past the end is empty, not an error
	beyond, err := repo.List(context.Background(), catalog.ProductFilter{LowStock: true}, shared.PageRequest{Page: 9, PageSize: 25})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(30), beyond.Total)
}

func TestProductRepository_List_MovementScope(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	received := seedProduct(t, db, "Received", 50, 10)
	shipped := seedProduct(t, db, "Shipped", 50, 10)
	seedProduct(t, db, "Untouched", 50, 10)

	entry, err := inventory.NewStockMovement(received.ID, inventory.MovementEntry, decimal.NewFromInt(5), "goods in")
	require.NoError(t, err)
	require.NoError(t, db.Create(entry).Error)

	exit, err := inventory.NewStockMovement(shipped.ID, inventory.MovementExit, decimal.NewFromInt(2), "order")
	require.NoError(t, err)
	require.NoError(t, db.Create(exit).Error)

	entries, err := repo.List(context.Background(),
		catalog.ProductFilter{ModifiedScope: catalog.ModificationEntries}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Received"}, itemNames(entries.Items))

	exits, err := repo.List(context.Background(),
		catalog.ProductFilter{ModifiedScope: catalog.ModificationExits}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Shipped"}, itemNames(exits.Items))
}

func TestProductRepository_List_MovementScopeDefaultLookback(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	stale := seedProduct(t, db, "Stale", 50, 10)
	fresh := seedProduct(t, db, "Fresh", 50, 10)

	oldMove, err := inventory.NewStockMovement(stale.ID, inventory.MovementEntry, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	oldMove.OccurredAt = time.Now().Add(-2 * 365 * 24 * time.Hour)
	require.NoError(t, db.Create(oldMove).Error)

	newMove, err := inventory.NewStockMovement(fresh.ID, inventory.MovementEntry, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	require.NoError(t, db.Create(newMove).Error)

	// no window supplied: only the default lookback counts
	result, err := repo.List(context.Background(),
		catalog.ProductFilter{ModifiedScope: catalog.ModificationEntries}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, itemNames(result.Items))

	// an explicit upper bound reaches arbitrarily far back
	before := catalog.BeforeDate(time.Now().AddDate(-1, 0, 0))
	result, err = repo.List(context.Background(),
		catalog.ProductFilter{ModifiedScope: catalog.ModificationEntries, ModifiedWindow: &before},
		shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Stale"}, itemNames(result.Items))
}

func TestProductRepository_List_BatchStatuses(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	tracked := seedProduct(t, db, "Tracked", 50, 10)
	depletedOnly := seedProduct(t, db, "Depleted only", 50, 10)
	seedProduct(t, db, "No batches", 50, 10)

	active, err := inventory.NewProductBatch(tracked.ID, "LOT-001", decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(active).Error)

	depleted, err := inventory.NewProductBatch(depletedOnly.ID, "LOT-002", decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	depleted.Deplete()
	require.NoError(t, db.Create(depleted).Error)

	result, err := repo.List(context.Background(),
		catalog.ProductFilter{BatchStatuses: []inventory.BatchStatus{inventory.BatchActive}},
		shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tracked"}, itemNames(result.Items))

	// an empty probe result collapses the page to empty, total zero
	result, err = repo.List(context.Background(),
		catalog.ProductFilter{BatchStatuses: []inventory.BatchStatus{inventory.BatchQuarantined}},
		shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), result.Total)
}

func TestProductRepository_List_LocationConstraint(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	here := seedProduct(t, db, "Here", 50, 10)
	seedLocation(t, db, here, catalog.WarehouseB, "3", "A")
	there := seedProduct(t, db, "There", 50, 10)
	seedLocation(t, db, there, catalog.WarehouseC, "3", "A")

	result, err := repo.List(context.Background(),
		catalog.ProductFilter{Warehouse: catalog.WarehouseB}, shared.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Here"}, itemNames(result.Items))
	assert.Equal(t, int64(1), result.Total)
}

// a location constraint that resolves to nothing means the whole query
// matches nothing, even when derived conditions would otherwise apply
func TestProductRepository_List_EmptyLocationResolutionMatchesNothing(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	seedProduct(t, db, "Low but elsewhere", 5, 10)

	result, err := repo.List(context.Background(),
		catalog.ProductFilter{LowStock: true, Warehouse: catalog.WarehouseC},
		shared.DefaultPageRequest())
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), result.Total)
}

func TestProductRepository_List_StageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("movement lookup", func(t *testing.T) {
		db := setupEngineDB(t)
		repo := newTestProductRepository(db)
		seedProduct(t, db, "Any", 50, 10)
		require.NoError(t, db.Migrator().DropTable(&inventory.StockMovement{}))

		_, err := repo.List(ctx, catalog.ProductFilter{ModifiedScope: catalog.ModificationEntries}, shared.DefaultPageRequest())
		var stageErr *shared.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, shared.StageMovementLookup, stageErr.Stage)
	})

	t.Run("batch lookup", func(t *testing.T) {
		db := setupEngineDB(t)
		repo := newTestProductRepository(db)
		seedProduct(t, db, "Any", 50, 10)
		require.NoError(t, db.Migrator().DropTable(&inventory.ProductBatch{}))

		_, err := repo.List(ctx, catalog.ProductFilter{BatchStatuses: []inventory.BatchStatus{inventory.BatchActive}}, shared.DefaultPageRequest())
		var stageErr *shared.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, shared.StageBatchLookup, stageErr.Stage)
	})

	t.Run("count", func(t *testing.T) {
		db := setupEngineDB(t)
		repo := newTestProductRepository(db)
		require.NoError(t, db.Migrator().DropTable(&catalog.Product{}))

		_, err := repo.List(ctx, catalog.ProductFilter{}, shared.DefaultPageRequest())
		var stageErr *shared.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, shared.StageCount, stageErr.Stage)
	})

	t.Run("primary fetch on scan path", func(t *testing.T) {
		db := setupEngineDB(t)
		repo := newTestProductRepository(db)
		require.NoError(t, db.Migrator().DropTable(&catalog.Product{}))

		_, err := repo.List(ctx, catalog.ProductFilter{LowStock: true}, shared.DefaultPageRequest())
		var stageErr *shared.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, shared.StagePrimaryFetch, stageErr.Stage)
	})

	t.Run("location lookup", func(t *testing.T) {
		db := setupEngineDB(t)
		repo := newTestProductRepository(db)
		require.NoError(t, db.Migrator().DropTable(&catalog.ProductLocation{}))

		_, err := repo.List(ctx, catalog.ProductFilter{Warehouse: catalog.WarehouseA}, shared.DefaultPageRequest())
		var stageErr *shared.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, shared.StageLocationLookup, stageErr.Stage)
	})
}

// GetAll always walks the scan path and returns the whole filtered corpus
func TestProductRepository_GetAll(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db, WithFetchWindow(10))
	seedNumberedProducts(t, db, 35, func(i int) (int64, int64) { return 50, 10 })

	all, err := repo.GetAll(context.Background(), catalog.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 35)
	for i, p := range all {
		assert.Equal(t, fmt.Sprintf("Item %04d", i), p.Name)
	}
}

func TestProductRepository_FindByID(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	product := seedProduct(t, db, "Located", 50, 10)
	seedLocation(t, db, product, catalog.WarehouseA, "1", "A")

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Located", found.Name)
	require.Len(t, found.Locations, 1)
	assert.Equal(t, catalog.WarehouseA, found.Locations[0].Warehouse)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductRepository_FindByCodeOrBarcode(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	product, err := catalog.NewProduct("wd-40", "Lubricant", nil)
	require.NoError(t, err)
	product.Barcode = "5012345678900"
	require.NoError(t, db.Create(product).Error)

	// codes are stored uppercase; the lookup normalizes its argument
	found, err := repo.FindByCodeOrBarcode(context.Background(), "wd-40")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	found, err = repo.FindByCodeOrBarcode(context.Background(), "5012345678900")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	_, err = repo.FindByCodeOrBarcode(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByCodeOrBarcode(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductRepository_Delete(t *testing.T) {
	db := setupEngineDB(t)
	repo := newTestProductRepository(db)

	product := seedProduct(t, db, "Doomed", 50, 10)
	seedLocation(t, db, product, catalog.WarehouseA, "1", "A")

	require.NoError(t, repo.Delete(context.Background(), product.ID))

	var productCount, locationCount int64
	require.NoError(t, db.Model(&catalog.Product{}).Count(&productCount).Error)
	require.NoError(t, db.Model(&catalog.ProductLocation{}).Count(&locationCount).Error)
	assert.Zero(t, productCount)
	assert.Zero(t, locationCount)

	err := repo.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
