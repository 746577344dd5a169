package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// Stock thresholds used by the register UI and reporting. The dashboard
// flags items running low, the register grid highlights items that are
// nearly gone. They are intentionally different values.
const (
	LowStockThreshold      = 10
	CriticalStockThreshold = 5
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for stock and pricing operations.
type Product struct {
	shared.BaseAggregateRoot
	SKU        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name       string          `gorm:"type:varchar(200);not null"`
	Category   string          `gorm:"type:varchar(100);not null;index"`
	Price      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock      int             `gorm:"not null;default:0"`
	ExpiryDate *time.Time      `gorm:"index"` // nil for non-perishables
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, category string, price decimal.Decimal, stock int, expiryDate *time.Time) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Category:          category,
		Price:             price.Round(2),
		Stock:             stock,
		ExpiryDate:        expiryDate,
	}, nil
}

// Update replaces the product's details
func (p *Product) Update(name, category string, price decimal.Decimal, stock int, expiryDate *time.Time) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Name = name
	p.Category = category
	p.Price = price.Round(2)
	p.Stock = stock
	p.ExpiryDate = expiryDate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecrementStock reduces stock by the sold quantity, clamping at zero.
// Checkout never leaves negative stock behind even if the catalog drifted
// under the cart during the session.
func (p *Product) DecrementStock(quantity int) {
	p.Stock -= quantity
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsOutOfStock returns true if no units remain
func (p *Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// IsLowStock returns true if stock fell under the dashboard alert threshold
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// IsCriticalStock returns true if stock fell under the register grid threshold
func (p *Product) IsCriticalStock() bool {
	return p.Stock < CriticalStockThreshold
}

// IsExpired returns true if the product has an expiry date in the past
func (p *Product) IsExpired(asOf time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(asOf)
}

// GetPriceMoney returns the unit price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateCategory validates the category label
func validateCategory(category string) error {
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	return nil
}
