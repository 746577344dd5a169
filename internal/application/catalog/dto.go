package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU        string          `json:"sku" binding:"required,min=1,max=50"`
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Category   string          `json:"category" binding:"required,min=1,max=100"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Stock      int             `json:"stock" binding:"min=0"`
	ExpiryDate *time.Time      `json:"expiry_date"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Category   string          `json:"category" binding:"required,min=1,max=100"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Stock      int             `json:"stock" binding:"min=0"`
	ExpiryDate *time.Time      `json:"expiry_date"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PriceDisplay  string          `json:"price_display"`
	Stock         int             `json:"stock"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Expired       bool            `json:"expired"`
	LowStock      bool            `json:"low_stock"`
	CriticalStock bool            `json:"critical_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		PriceDisplay:  p.GetPriceMoney().String(),
		Stock:         p.Stock,
		ExpiryDate:    p.ExpiryDate,
		Expired:       p.IsExpired(time.Now()),
		LowStock:      p.IsLowStock(),
		CriticalStock: p.IsCriticalStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses
}
