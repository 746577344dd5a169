package register

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
)

// RegisterService drives the single register terminal: one live cart and
// one checkout session at a time. A mutex serializes HTTP access; there
// is no cross-terminal coordination, so stock oversell between two
// registers is accepted and handled by the clamp at commit time.
type RegisterService struct {
	mu      sync.Mutex
	cart    *register.Cart
	session *register.CheckoutSession

	productRepo catalog.ProductRepository
	txnLog      register.TransactionLog
	logger      *zap.Logger
}

// NewRegisterService creates a RegisterService with an empty cart and an
// open session
func NewRegisterService(productRepo catalog.ProductRepository, txnLog register.TransactionLog, logger *zap.Logger) *RegisterService {
	return &RegisterService{
		cart:        register.NewCart(),
		session:     register.NewCheckoutSession(),
		productRepo: productRepo,
		txnLog:      txnLog,
		logger:      logger,
	}
}

// GetCart returns the current cart with a pricing preview
func (s *RegisterService) GetCart(ctx context.Context) *CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toCartResponse(s.cart, s.session.Status, nil)
}

// AddItem adds one unit of a product to the cart. Expired products are
// accepted with a warning in the response.
func (s *RegisterService) AddItem(ctx context.Context, productID uuid.UUID) (*CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.CanModifyCart() {
		return nil, shared.ErrInvalidState
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	expired, err := s.cart.AddItem(product, time.Now())
	if err != nil {
		return nil, err
	}

	var warnings []string
	if expired {
		warnings = append(warnings, shared.WarnProductExpired)
	}
	return toCartResponse(s.cart, s.session.Status, warnings), nil
}

// AdjustQuantity applies a signed delta to a cart line, capped by live
// stock. A product deleted from the catalog counts as zero stock, so it
// can still be stepped down or removed but never up.
func (s *RegisterService) AdjustQuantity(ctx context.Context, productID uuid.UUID, delta int) (*CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.CanModifyCart() {
		return nil, shared.ErrInvalidState
	}

	liveStock := 0
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if product != nil {
		liveStock = product.Stock
	}

	if err := s.cart.AdjustQuantity(productID, delta, liveStock); err != nil {
		return nil, err
	}
	return toCartResponse(s.cart, s.session.Status, nil), nil
}

// RemoveItem removes a cart line regardless of its quantity
func (s *RegisterService) RemoveItem(ctx context.Context, productID uuid.UUID) (*CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.CanModifyCart() {
		return nil, shared.ErrInvalidState
	}

	s.cart.RemoveItem(productID)
	return toCartResponse(s.cart, s.session.Status, nil), nil
}

// ClearCart empties the cart
func (s *RegisterService) ClearCart(ctx context.Context) (*CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.CanModifyCart() {
		return nil, shared.ErrInvalidState
	}

	s.cart.Clear()
	return toCartResponse(s.cart, s.session.Status, nil), nil
}

// BeginCheckout freezes the cart and moves the session to awaiting
// payment
func (s *RegisterService) BeginCheckout(ctx context.Context) (*CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Begin(s.cart); err != nil {
		return nil, err
	}
	return toCartResponse(s.cart, s.session.Status, nil), nil
}

// CommitCheckout finalizes the sale. The transaction is appended to the
// log before any stock moves; if the append fails nothing else happens
// and the session stays in awaiting payment. Stock decrements after the
// append are best effort: missing products are skipped and counts clamp
// at zero, the recorded sale stands either way.
func (s *RegisterService) CommitCheckout(ctx context.Context, req CommitCheckoutRequest) (*TransactionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := s.session.PrepareTransaction(s.cart, register.PaymentMethod(req.PaymentMethod), time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.txnLog.Append(ctx, txn); err != nil {
		s.logger.Error("transaction append failed, checkout aborted",
			zap.String("transaction_id", txn.ID.String()),
			zap.Error(err))
		return nil, err
	}

	for _, line := range txn.Items {
		s.decrementStock(ctx, line.ProductID, line.SKU, line.Quantity)
	}

	s.cart.Clear()
	if err := s.session.Complete(); err != nil {
		return nil, err
	}

	// Fresh open session for the next customer.
	s.session = register.NewCheckoutSession()

	response := ToTransactionResponse(txn)
	return &response, nil
}

// CancelCheckout abandons payment and reopens the cart for editing
func (s *RegisterService) CancelCheckout(ctx context.Context) (*CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Cancel(); err != nil {
		return nil, err
	}

	s.session = register.NewCheckoutSession()
	return toCartResponse(s.cart, s.session.Status, nil), nil
}

func (s *RegisterService) decrementStock(ctx context.Context, productID uuid.UUID, sku string, quantity int) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Product deleted mid-session; the sold snapshot stands.
			s.logger.Warn("sold product no longer in catalog, skipping stock decrement",
				zap.String("sku", sku))
			return
		}
		s.logger.Error("stock lookup failed after committed sale",
			zap.String("sku", sku),
			zap.Error(err))
		return
	}

	product.DecrementStock(quantity)
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("stock decrement failed after committed sale",
			zap.String("sku", sku),
			zap.Error(err))
	}
}
