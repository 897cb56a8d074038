package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock
}

func seedMovement(t *testing.T, db *gorm.DB, productID uuid.UUID, movementType inventory.MovementType, occurredAt time.Time) *inventory.StockMovement {
	t.Helper()

	movement, err := inventory.NewStockMovement(productID, movementType, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	movement.OccurredAt = occurredAt
	require.NoError(t, db.Create(movement).Error)
	return movement
}

func TestMovementRepository_ProductIDsWithMovement(t *testing.T) {
	db := setupEngineDB(t)
	repo := NewGormMovementRepository(db)

	now := time.Now()
	in, out := uuid.New(), uuid.New()

	seedMovement(t, db, in, inventory.MovementEntry, now.Add(-time.Hour))
	seedMovement(t, db, in, inventory.MovementEntry, now.Add(-2*time.Hour)) // second movement, same product
	seedMovement(t, db, out, inventory.MovementExit, now.Add(-time.Hour))

	ids, err := repo.ProductIDsWithMovement(context.Background(), inventory.MovementEntry, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{in}, ids)

	ids, err = repo.ProductIDsWithMovement(context.Background(), inventory.MovementExit, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{out}, ids)
}

func TestMovementRepository_ProductIDsWithMovement_ZeroFromMeansBeforeOnly(t *testing.T) {
	db := setupEngineDB(t)
	repo := NewGormMovementRepository(db)

	cutoff := time.Now().AddDate(-1, 0, 0)
	ancient, recent := uuid.New(), uuid.New()

	seedMovement(t, db, ancient, inventory.MovementEntry, cutoff.AddDate(-5, 0, 0))
	seedMovement(t, db, recent, inventory.MovementEntry, time.Now().Add(-time.Hour))

	ids, err := repo.ProductIDsWithMovement(context.Background(), inventory.MovementEntry, time.Time{}, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ancient}, ids)
}

func TestMovementRepository_ListByProduct(t *testing.T) {
	db := setupEngineDB(t)
	repo := NewGormMovementRepository(db)

	productID := uuid.New()
	now := time.Now()
	for i := 0; i < 30; i++ {
		seedMovement(t, db, productID, inventory.MovementEntry, now.Add(-time.Duration(i)*time.Hour))
	}
	seedMovement(t, db, uuid.New(), inventory.MovementEntry, now)

	result, err := repo.ListByProduct(context.Background(), productID, shared.PageRequest{Page: 1, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, int64(30), result.Total)
	require.Len(t, result.Items, 25)
	// newest first
	assert.True(t, result.Items[0].OccurredAt.After(result.Items[24].OccurredAt))

	second, err := repo.ListByProduct(context.Background(), productID, shared.PageRequest{Page: 2, PageSize: 25})
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)
}

func TestMovementRepository_ProbeError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormMovementRepository(db)

	mock.ExpectQuery(`SELECT DISTINCT "product_id" FROM "stock_movements"`).
		WillReturnError(assert.AnError)

	_, err := repo.ProductIDsWithMovement(context.Background(), inventory.MovementEntry, time.Time{}, time.Now())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepository_ListByProduct_CountError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormMovementRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements"`).
		WillReturnError(assert.AnError)

	_, err := repo.ListByProduct(context.Background(), uuid.New(), shared.DefaultPageRequest())

	var stageErr *shared.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, shared.StageCount, stageErr.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
