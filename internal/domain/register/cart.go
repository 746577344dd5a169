package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// CartLine is one product entry in the cart. Product details are
// snapshotted at add time; quantity ceilings are always checked against
// live catalog stock, never against the snapshot.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (l *CartLine) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.UnitPrice)
}

// Cart is the register's in-progress order. Lines keep insertion order;
// a product appears at most once, repeated adds bump its quantity.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{lines: make([]CartLine, 0)}
}

// exceedsStock is the single stock-ceiling check shared by every
// quantity-increasing path.
func exceedsStock(requested, liveStock int) bool {
	return requested > liveStock
}

// AddItem adds one unit of the product to the cart.
// Returns true when the product is expired; the add still succeeds and
// the caller surfaces the warning.
func (c *Cart) AddItem(product *catalog.Product, now time.Time) (bool, error) {
	if product.IsOutOfStock() {
		return false, shared.ErrOutOfStock
	}

	expired := product.IsExpired(now)

	if line := c.FindLine(product.ID); line != nil {
		if exceedsStock(line.Quantity+1, product.Stock) {
			return expired, shared.ErrStockExceeded
		}
		line.Quantity++
		return expired, nil
	}

	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Category:  product.Category,
		UnitPrice: product.Price,
		Quantity:  1,
	})
	return expired, nil
}

// AdjustQuantity applies a signed delta to a line's quantity.
// A result above live stock is a silent no-op; a result at or below
// zero removes the line.
func (c *Cart) AdjustQuantity(productID uuid.UUID, delta, liveStock int) error {
	line := c.FindLine(productID)
	if line == nil {
		return shared.ErrNotFound
	}

	next := line.Quantity + delta
	if exceedsStock(next, liveStock) {
		return nil
	}
	if next <= 0 {
		c.RemoveItem(productID)
		return nil
	}

	line.Quantity = next
	return nil
}

// RemoveItem removes a line regardless of its quantity. Removing a
// product that is not in the cart is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for idx := range c.lines {
		if c.lines[idx].ProductID == productID {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
			return
		}
	}
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns the cart lines in insertion order
func (c *Cart) Lines() []CartLine {
	return c.lines
}

// LineCount returns the number of distinct products in the cart
func (c *Cart) LineCount() int {
	return len(c.lines)
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// FindLine returns the line for a product, or nil
func (c *Cart) FindLine(productID uuid.UUID) *CartLine {
	for idx := range c.lines {
		if c.lines[idx].ProductID == productID {
			return &c.lines[idx]
		}
	}
	return nil
}
