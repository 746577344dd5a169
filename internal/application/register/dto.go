package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// AdjustQuantityRequest applies a signed delta to a cart line.
// Any integer is accepted; zero falls through to the domain's no-op.
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// CommitCheckoutRequest finalizes the sale with a tender label
type CommitCheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card digital"`
}

// CartLineResponse represents one cart line in API responses
type CartLineResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitPriceDisplay string          `json:"unit_price_display"`
	Quantity         int             `json:"quantity"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// CartResponse represents the live cart with a pricing preview
type CartResponse struct {
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	TotalDisplay  string             `json:"total_display"`
	SessionStatus string             `json:"session_status"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// TransactionItemResponse represents a sold line in API responses
type TransactionItemResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	LineTotal        decimal.Decimal `json:"line_total"`
	LineTotalDisplay string          `json:"line_total_display"`
}

// TransactionResponse represents a completed sale in API responses
type TransactionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Timestamp     time.Time                 `json:"timestamp"`
	Items         []TransactionItemResponse `json:"items"`
	Subtotal      decimal.Decimal           `json:"subtotal"`
	Tax           decimal.Decimal           `json:"tax"`
	Total         decimal.Decimal           `json:"total"`
	TotalDisplay  string                    `json:"total_display"`
	PaymentMethod string                    `json:"payment_method"`
}

// TransactionListFilter represents filter options for the sales history
type TransactionListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Method   string `form:"method" binding:"omitempty,oneof=cash card digital"`
}

// SalesSummaryResponse aggregates the whole transaction log
type SalesSummaryResponse struct {
	TransactionCount    int             `json:"transaction_count"`
	ItemsSold           int             `json:"items_sold"`
	GrossRevenue        decimal.Decimal `json:"gross_revenue"`
	GrossRevenueDisplay string          `json:"gross_revenue_display"`
	TaxCollected        decimal.Decimal `json:"tax_collected"`
}

func toCartResponse(cart *register.Cart, status register.SessionStatus, warnings []string) *CartResponse {
	lines := cart.Lines()
	subtotal, tax, total := register.Totals(lines)

	resp := &CartResponse{
		Lines:         make([]CartLineResponse, 0, len(lines)),
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		TotalDisplay:  valueobject.NewMoneyUSD(total).String(),
		SessionStatus: status.String(),
		Warnings:      warnings,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, CartLineResponse{
			ProductID:        line.ProductID,
			SKU:              line.SKU,
			Name:             line.Name,
			Category:         line.Category,
			UnitPrice:        line.UnitPrice,
			UnitPriceDisplay: line.GetUnitPriceMoney().String(),
			Quantity:         line.Quantity,
			LineTotal:        line.LineTotal().Round(2),
		})
	}
	return resp
}

// ToTransactionResponse converts a domain Transaction to TransactionResponse
func ToTransactionResponse(txn *register.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(txn.Items))
	for idx := range txn.Items {
		item := &txn.Items[idx]
		items = append(items, TransactionItemResponse{
			ProductID:        item.ProductID,
			SKU:              item.SKU,
			Name:             item.Name,
			Category:         item.Category,
			UnitPrice:        item.UnitPrice,
			Quantity:         item.Quantity,
			LineTotal:        item.LineTotal,
			LineTotalDisplay: item.GetLineTotalMoney().String(),
		})
	}
	return TransactionResponse{
		ID:            txn.ID,
		Timestamp:     txn.Timestamp,
		Items:         items,
		Subtotal:      txn.Subtotal,
		Tax:           txn.Tax,
		Total:         txn.Total,
		TotalDisplay:  txn.GetTotalMoney().String(),
		PaymentMethod: txn.PaymentMethod.String(),
	}
}
