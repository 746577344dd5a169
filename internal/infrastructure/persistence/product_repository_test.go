package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
)

// newTestDB opens an in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&register.Transaction{},
		&register.TransactionItem{},
	))

	return db
}

func mustProduct(t *testing.T, sku, name, category, price string, stock int, expiry *time.Time) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, category, decimal.RequireFromString(price), stock, expiry)
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := mustProduct(t, "MILK-1L", "Whole Milk 1L", "Dairy", "2.49", 24, nil)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "MILK-1L", found.SKU)
		assert.Equal(t, "Whole Milk 1L", found.Name)
		assert.True(t, found.Price.Equal(decimal.RequireFromString("2.49")))
		assert.Equal(t, 24, found.Stock)
	})

	t.Run("finds by sku case-insensitively", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, "milk-1l")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		missing := mustProduct(t, "GONE-1", "Gone", "Misc", "1.00", 1, nil)
		_, err := repo.FindByID(ctx, missing.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ExistsBySKU", func(t *testing.T) {
		exists, err := repo.ExistsBySKU(ctx, "MILK-1L")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySKU(ctx, "NOPE-99")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustProduct(t, "BREAD-SD", "Sourdough Loaf", "Bakery", "4.50", 12, nil)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "MILK-1L", "Whole Milk 1L", "Dairy", "2.49", 24, nil)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "EGGS-12", "Free Range Eggs (12)", "Dairy", "3.99", 18, nil)))

	t.Run("orders by name by default", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "EGGS-12", products[0].SKU)
		assert.Equal(t, "BREAD-SD", products[1].SKU)
		assert.Equal(t, "MILK-1L", products[2].SKU)
	})

	t.Run("filters by category", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"category": "Dairy"}

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("searches by name or sku", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "milk"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "MILK-1L", products[0].SKU)
	})

	t.Run("ignores unlisted sort field", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "name; DROP TABLE products"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Page = 2
		filter.PageSize = 2

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})
}

func TestGormProductRepository_FindLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustProduct(t, "COFFEE-500", "Ground Coffee 500g", "Beverages", "8.75", 9, nil)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "TOWEL-2PK", "Paper Towels 2-Pack", "Household", "5.25", 4, nil)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "MILK-1L", "Whole Milk 1L", "Dairy", "2.49", 24, nil)))

	low, err := repo.FindLowStock(ctx, catalog.LowStockThreshold)
	require.NoError(t, err)
	require.Len(t, low, 2)
	// lowest stock first
	assert.Equal(t, "TOWEL-2PK", low[0].SKU)
	assert.Equal(t, "COFFEE-500", low[1].SKU)

	critical, err := repo.FindLowStock(ctx, catalog.CriticalStockThreshold)
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, "TOWEL-2PK", critical[0].SKU)
}

func TestGormProductRepository_FindExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	now := time.Now()
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 5)

	require.NoError(t, repo.Save(ctx, mustProduct(t, "BREAD-SD", "Sourdough Loaf", "Bakery", "4.50", 12, &past)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "MILK-1L", "Whole Milk 1L", "Dairy", "2.49", 24, &future)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "EGGS-12", "Free Range Eggs (12)", "Dairy", "3.99", 18, &now)))
	require.NoError(t, repo.Save(ctx, mustProduct(t, "TOWEL-2PK", "Paper Towels 2-Pack", "Household", "5.25", 4, nil)))

	// An expiry exactly at asOf is not yet expired, same as IsExpired.
	expired, err := repo.FindExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "BREAD-SD", expired[0].SKU)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := mustProduct(t, "MILK-1L", "Whole Milk 1L", "Dairy", "2.49", 24, nil)
	require.NoError(t, repo.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err := repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		err := repo.Delete(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_StockRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := mustProduct(t, "EGGS-12", "Free Range Eggs (12)", "Dairy", "3.99", 5, nil)
	require.NoError(t, repo.Save(ctx, product))

	product.DecrementStock(3)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Stock)

	product.DecrementStock(10)
	require.NoError(t, repo.Save(ctx, product))

	found, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Stock)
}

func TestEnsureSeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := zap.NewNop()

	require.NoError(t, EnsureSeed(ctx, db, log))

	repo := NewGormProductRepository(db)
	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	t.Run("does not reseed a populated catalog", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, mustFindBySKU(t, repo, "TOWEL-2PK").ID))
		require.NoError(t, EnsureSeed(ctx, db, log))

		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 4, count)
	})
}

func mustFindBySKU(t *testing.T, repo *GormProductRepository, sku string) *catalog.Product {
	t.Helper()
	p, err := repo.FindBySKU(context.Background(), sku)
	require.NoError(t, err)
	return p
}
