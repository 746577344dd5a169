package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/register"
)

// Provider generates short advisory text from a prompt. Implementations
// talk to an external model; callers must treat every failure as
// non-fatal.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UnavailableMessage is returned whenever the provider cannot deliver.
// The register keeps working without insights.
const UnavailableMessage = "no insight available"

// InsightResponse carries advisory text for the UI
type InsightResponse struct {
	Insight   string `json:"insight"`
	Available bool   `json:"available"`
}

// InsightsService builds prompts from register data and delegates to the
// configured provider
type InsightsService struct {
	provider    Provider
	productRepo catalog.ProductRepository
	txnLog      register.TransactionLog
	logger      *zap.Logger
}

// NewInsightsService creates a new InsightsService
func NewInsightsService(provider Provider, productRepo catalog.ProductRepository, txnLog register.TransactionLog, logger *zap.Logger) *InsightsService {
	return &InsightsService{
		provider:    provider,
		productRepo: productRepo,
		txnLog:      txnLog,
		logger:      logger,
	}
}

// BusinessSummary asks the provider for a short read on current sales
// and stock. Provider failures degrade to the unavailable message.
func (s *InsightsService) BusinessSummary(ctx context.Context) *InsightResponse {
	prompt, err := s.buildBusinessPrompt(ctx)
	if err != nil {
		s.logger.Warn("failed to gather data for business insight", zap.Error(err))
		return &InsightResponse{Insight: UnavailableMessage}
	}

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("insight provider unavailable", zap.Error(err))
		return &InsightResponse{Insight: UnavailableMessage}
	}

	return &InsightResponse{Insight: strings.TrimSpace(text), Available: true}
}

// DescribeProduct asks the provider for a one-line customer-facing
// description of a product
func (s *InsightsService) DescribeProduct(ctx context.Context, name, category string) *InsightResponse {
	if name == "" {
		return &InsightResponse{Insight: UnavailableMessage}
	}

	prompt := fmt.Sprintf(
		"Write one short, appealing sentence a grocery store could show next to this product. Product: %q, category: %q. Reply with the sentence only.",
		name, category)

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("insight provider unavailable",
			zap.String("product", name),
			zap.Error(err))
		return &InsightResponse{Insight: UnavailableMessage}
	}

	return &InsightResponse{Insight: strings.TrimSpace(text), Available: true}
}

func (s *InsightsService) buildBusinessPrompt(ctx context.Context) (string, error) {
	transactions, err := s.txnLog.FindSince(ctx, time.Time{})
	if err != nil {
		return "", err
	}

	lowStock, err := s.productRepo.FindLowStock(ctx, catalog.LowStockThreshold)
	if err != nil {
		return "", err
	}

	expired, err := s.productRepo.FindExpired(ctx, time.Now())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You advise a small grocery store. Summarize the state of the business in two or three sentences and suggest one action.\n")
	fmt.Fprintf(&b, "Completed sales: %d\n", len(transactions))

	itemsSold := 0
	revenue := decimal.Zero
	for idx := range transactions {
		itemsSold += transactions[idx].TotalQuantity()
		revenue = revenue.Add(transactions[idx].Total)
	}
	fmt.Fprintf(&b, "Items sold: %d\n", itemsSold)
	fmt.Fprintf(&b, "Gross revenue: %s USD\n", revenue.StringFixed(2))

	if len(lowStock) > 0 {
		names := make([]string, 0, len(lowStock))
		for idx := range lowStock {
			names = append(names, lowStock[idx].Name)
		}
		fmt.Fprintf(&b, "Low stock: %s\n", strings.Join(names, ", "))
	}
	if len(expired) > 0 {
		names := make([]string, 0, len(expired))
		for idx := range expired {
			names = append(names, expired[idx].Name)
		}
		fmt.Fprintf(&b, "Expired on shelf: %s\n", strings.Join(names, ", "))
	}

	return b.String(), nil
}
