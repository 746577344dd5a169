package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedProduct struct {
	sku        string
	name       string
	category   string
	price      string
	stock      int
	expiryDays int // 0 means no expiry date
}

// seedProducts is the built-in catalog used when the store starts empty.
var seedProducts = []seedProduct{
	{sku: "MILK-1L", name: "Whole Milk 1L", category: "Dairy", price: "2.49", stock: 24, expiryDays: 7},
	{sku: "BREAD-SD", name: "Sourdough Loaf", category: "Bakery", price: "4.50", stock: 12, expiryDays: 3},
	{sku: "EGGS-12", name: "Free Range Eggs (12)", category: "Dairy", price: "3.99", stock: 18, expiryDays: 14},
	{sku: "COFFEE-500", name: "Ground Coffee 500g", category: "Beverages", price: "8.75", stock: 9, expiryDays: 0},
	{sku: "TOWEL-2PK", name: "Paper Towels 2-Pack", category: "Household", price: "5.25", stock: 4, expiryDays: 0},
}

// EnsureSeed populates the catalog with the built-in product list when the
// products table is empty. An already-populated catalog is left untouched.
func EnsureSeed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	products := make([]*catalog.Product, 0, len(seedProducts))
	for _, s := range seedProducts {
		var expiry *time.Time
		if s.expiryDays > 0 {
			e := now.AddDate(0, 0, s.expiryDays)
			expiry = &e
		}
		product, err := catalog.NewProduct(s.sku, s.name, s.category, decimal.RequireFromString(s.price), s.stock, expiry)
		if err != nil {
			return fmt.Errorf("invalid seed product %s: %w", s.sku, err)
		}
		products = append(products, product)
	}

	if err := db.WithContext(ctx).Create(products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Info("seeded catalog with starter products", zap.Int("count", len(products)))
	return nil
}
