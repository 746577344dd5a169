package register

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// SalesService exposes the transaction log, newest sale first
type SalesService struct {
	txnLog register.TransactionLog
}

// NewSalesService creates a new SalesService
func NewSalesService(txnLog register.TransactionLog) *SalesService {
	return &SalesService{txnLog: txnLog}
}

// List retrieves transactions with pagination, most recent first
func (s *SalesService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "timestamp",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Method != "" {
		domainFilter.Filters["payment_method"] = filter.Method
	}

	transactions, err := s.txnLog.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.txnLog.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for idx := range transactions {
		responses = append(responses, ToTransactionResponse(&transactions[idx]))
	}
	return responses, total, nil
}

// GetByID retrieves a single transaction
func (s *SalesService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnLog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// Summary aggregates the full transaction log
func (s *SalesService) Summary(ctx context.Context) (*SalesSummaryResponse, error) {
	transactions, err := s.txnLog.FindSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	gross := valueobject.ZeroUSD()
	tax := valueobject.ZeroUSD()
	itemsSold := 0
	for idx := range transactions {
		itemsSold += transactions[idx].TotalQuantity()
		gross = gross.MustAdd(transactions[idx].GetTotalMoney())
		tax = tax.MustAdd(valueobject.NewMoneyUSD(transactions[idx].Tax))
	}

	return &SalesSummaryResponse{
		TransactionCount:    len(transactions),
		ItemsSold:           itemsSold,
		GrossRevenue:        gross.Amount(),
		GrossRevenueDisplay: gross.String(),
		TaxCollected:        tax.Amount(),
	}, nil
}
