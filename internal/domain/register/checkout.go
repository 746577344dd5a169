package register

import (
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/shared"
)

// SessionStatus represents the state of a checkout session
type SessionStatus string

const (
	SessionStatusOpen            SessionStatus = "OPEN"
	SessionStatusAwaitingPayment SessionStatus = "AWAITING_PAYMENT"
	SessionStatusCommitted       SessionStatus = "COMMITTED"
	SessionStatusCancelled       SessionStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusOpen, SessionStatusAwaitingPayment, SessionStatusCommitted, SessionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	switch s {
	case SessionStatusOpen:
		return target == SessionStatusAwaitingPayment
	case SessionStatusAwaitingPayment:
		return target == SessionStatusCommitted || target == SessionStatusCancelled
	case SessionStatusCommitted, SessionStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod is the tender type recorded on a transaction.
// It is a label only; no payment gateway is involved.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodDigital PaymentMethod = "digital"
)

// IsValid checks if the payment method is recognized
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDigital:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// CheckoutSession is the state machine driving a single sale. Cart
// mutations are only allowed while the session is OPEN; once payment
// starts the cart is frozen until the session commits or cancels.
type CheckoutSession struct {
	Status      SessionStatus
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewCheckoutSession creates a session in the OPEN state
func NewCheckoutSession() *CheckoutSession {
	return &CheckoutSession{
		Status:    SessionStatusOpen,
		StartedAt: time.Now(),
	}
}

// CanModifyCart returns true while cart mutations are allowed
func (s *CheckoutSession) CanModifyCart() bool {
	return s.Status == SessionStatusOpen
}

// Begin moves the session to AWAITING_PAYMENT.
// The cart must not be empty.
func (s *CheckoutSession) Begin(cart *Cart) error {
	if !s.Status.CanTransitionTo(SessionStatusAwaitingPayment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot begin checkout in %s status", s.Status))
	}
	if cart.IsEmpty() {
		return shared.ErrEmptyCart
	}

	s.Status = SessionStatusAwaitingPayment
	return nil
}

// PrepareTransaction snapshots the cart into an immutable transaction.
// Valid only while awaiting payment; the session itself stays in
// AWAITING_PAYMENT until Complete is called after the sale is durable.
func (s *CheckoutSession) PrepareTransaction(cart *Cart, method PaymentMethod, now time.Time) (*Transaction, error) {
	if s.Status != SessionStatusAwaitingPayment {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot commit checkout in %s status", s.Status))
	}
	return NewTransaction(cart.Lines(), method, now)
}

// Complete marks the session COMMITTED once the transaction is recorded
func (s *CheckoutSession) Complete() error {
	if !s.Status.CanTransitionTo(SessionStatusCommitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete checkout in %s status", s.Status))
	}

	now := time.Now()
	s.Status = SessionStatusCommitted
	s.CompletedAt = &now
	return nil
}

// Cancel abandons payment. The cart is left untouched so a fresh OPEN
// session can keep editing it.
func (s *CheckoutSession) Cancel() error {
	if !s.Status.CanTransitionTo(SessionStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel checkout in %s status", s.Status))
	}

	now := time.Now()
	s.Status = SessionStatusCancelled
	s.CompletedAt = &now
	return nil
}
