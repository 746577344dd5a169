package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// TransactionItem is a sold line frozen at commit time
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU           string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Category      string          `gorm:"type:varchar(100);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity      int             `gorm:"not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// GetLineTotalMoney returns the line total as a Money value object
func (i *TransactionItem) GetLineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.LineTotal)
}

// Transaction is a completed sale. It is immutable once created: the
// log it lands in is append-only and nothing updates it afterwards.
type Transaction struct {
	shared.BaseAggregateRoot
	Timestamp     time.Time         `gorm:"not null;index"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID"`
	Subtotal      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Tax           decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction snapshots cart lines into an immutable sale record.
// Totals are computed here so Total always equals Subtotal plus Tax.
func NewTransaction(lines []CartLine, method PaymentMethod, now time.Time) (*Transaction, error) {
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cash, card, or digital")
	}

	subtotal, tax, total := Totals(lines)

	txn := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Timestamp:         now,
		Items:             make([]TransactionItem, 0, len(lines)),
		Subtotal:          subtotal,
		Tax:               tax,
		Total:             total,
		PaymentMethod:     method,
	}

	for _, line := range lines {
		txn.Items = append(txn.Items, TransactionItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			ProductID:     line.ProductID,
			SKU:           line.SKU,
			Name:          line.Name,
			Category:      line.Category,
			UnitPrice:     line.UnitPrice,
			Quantity:      line.Quantity,
			LineTotal:     line.LineTotal().Round(2),
			CreatedAt:     now,
		})
	}

	return txn, nil
}

// ItemCount returns the number of distinct products sold
func (t *Transaction) ItemCount() int {
	return len(t.Items)
}

// TotalQuantity returns the sum of all item quantities
func (t *Transaction) TotalQuantity() int {
	total := 0
	for _, item := range t.Items {
		total += item.Quantity
	}
	return total
}

// GetTotalMoney returns the grand total as a Money value object
func (t *Transaction) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(t.Total)
}
