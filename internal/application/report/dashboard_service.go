package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appcatalog "github.com/pos/backend/internal/application/catalog"
	appregister "github.com/pos/backend/internal/application/register"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
)

// DashboardResponse is the manager-facing overview of catalog health and
// sales activity
type DashboardResponse struct {
	ProductCount       int64                             `json:"product_count"`
	LowStockCount      int                               `json:"low_stock_count"`
	LowStockProducts   []appcatalog.ProductResponse      `json:"low_stock_products"`
	ExpiredCount       int                               `json:"expired_count"`
	ExpiredProducts    []appcatalog.ProductResponse      `json:"expired_products"`
	TransactionCount   int                               `json:"transaction_count"`
	ItemsSold          int                               `json:"items_sold"`
	GrossRevenue       decimal.Decimal                   `json:"gross_revenue"`
	TaxCollected       decimal.Decimal                   `json:"tax_collected"`
	TodayRevenue       decimal.Decimal                   `json:"today_revenue"`
	RecentTransactions []appregister.TransactionResponse `json:"recent_transactions"`
}

// DashboardService aggregates catalog and sales data for reporting
type DashboardService struct {
	productRepo catalog.ProductRepository
	txnLog      register.TransactionLog
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(productRepo catalog.ProductRepository, txnLog register.TransactionLog) *DashboardService {
	return &DashboardService{productRepo: productRepo, txnLog: txnLog}
}

// Dashboard builds the overview. Low stock here uses the reporting
// threshold, not the tighter register grid threshold.
func (s *DashboardService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := time.Now()

	productCount, err := s.productRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStock(ctx, catalog.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	expired, err := s.productRepo.FindExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txnLog.FindSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	resp := &DashboardResponse{
		ProductCount:     productCount,
		LowStockCount:    len(lowStock),
		LowStockProducts: appcatalog.ToProductResponses(lowStock),
		ExpiredCount:     len(expired),
		ExpiredProducts:  appcatalog.ToProductResponses(expired),
		TransactionCount: len(transactions),
		GrossRevenue:     decimal.Zero,
		TaxCollected:     decimal.Zero,
		TodayRevenue:     decimal.Zero,
	}

	for idx := range transactions {
		txn := &transactions[idx]
		resp.ItemsSold += txn.TotalQuantity()
		resp.GrossRevenue = resp.GrossRevenue.Add(txn.Total)
		resp.TaxCollected = resp.TaxCollected.Add(txn.Tax)
		if !txn.Timestamp.Before(startOfDay) {
			resp.TodayRevenue = resp.TodayRevenue.Add(txn.Total)
		}
	}

	// Transactions arrive newest first; keep the top five.
	recent := transactions
	if len(recent) > 5 {
		recent = recent[:5]
	}
	resp.RecentTransactions = make([]appregister.TransactionResponse, 0, len(recent))
	for idx := range recent {
		resp.RecentTransactions = append(resp.RecentTransactions, appregister.ToTransactionResponse(&recent[idx]))
	}

	return resp, nil
}
