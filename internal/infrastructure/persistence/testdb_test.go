package persistence

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupEngineDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&catalog.ProductLocation{},
		&inventory.StockMovement{},
		&inventory.ProductBatch{},
	)
	require.NoError(t, err)

	return db
}

// seedProduct creates and stores a product with the given name and stock
// levels, returning it for ID-based assertions
func seedProduct(t *testing.T, db *gorm.DB, name string, current, minimum int64) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct("", name, nil)
	require.NoError(t, err)
	product.StockCurrent = decimal.NewFromInt(current)
	product.StockMinimum = decimal.NewFromInt(minimum)
	require.NoError(t, db.Create(product).Error)
	return product
}

// seedNumberedProducts creates count products named with a zero-padded
// index so name order matches insertion order
func seedNumberedProducts(t *testing.T, db *gorm.DB, count int, stock func(i int) (current, minimum int64)) []catalog.Product {
	t.Helper()

	products := make([]catalog.Product, 0, count)
	for i := 0; i < count; i++ {
		current, minimum := stock(i)
		product, err := catalog.NewProduct("", fmt.Sprintf("Item %04d", i), nil)
		require.NoError(t, err)
		product.StockCurrent = decimal.NewFromInt(current)
		product.StockMinimum = decimal.NewFromInt(minimum)
		products = append(products, *product)
	}
	require.NoError(t, db.CreateInBatches(products, 200).Error)
	return products
}

func seedLocation(t *testing.T, db *gorm.DB, product *catalog.Product, warehouse catalog.Warehouse, aisle, shelf string) *catalog.ProductLocation {
	t.Helper()

	location, err := catalog.NewProductLocation(product.ID, warehouse, aisle, shelf)
	require.NoError(t, err)
	require.NoError(t, db.Create(location).Error)
	return location
}
