package register

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/shared"
)

func TestSessionStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  SessionStatus
		isValid bool
	}{
		{SessionStatusOpen, true},
		{SessionStatusAwaitingPayment, true},
		{SessionStatusCommitted, true},
		{SessionStatusCancelled, true},
		{SessionStatus("INVALID"), false},
		{SessionStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     SessionStatus
		to       SessionStatus
		canTrans bool
	}{
		// From OPEN
		{SessionStatusOpen, SessionStatusAwaitingPayment, true},
		{SessionStatusOpen, SessionStatusCommitted, false},
		{SessionStatusOpen, SessionStatusCancelled, false},
		// From AWAITING_PAYMENT
		{SessionStatusAwaitingPayment, SessionStatusCommitted, true},
		{SessionStatusAwaitingPayment, SessionStatusCancelled, true},
		{SessionStatusAwaitingPayment, SessionStatusOpen, false},
		// Terminal states
		{SessionStatusCommitted, SessionStatusOpen, false},
		{SessionStatusCommitted, SessionStatusAwaitingPayment, false},
		{SessionStatusCancelled, SessionStatusOpen, false},
		{SessionStatusCancelled, SessionStatusAwaitingPayment, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodCard.IsValid())
	assert.True(t, PaymentMethodDigital.IsValid())
	assert.False(t, PaymentMethod("check").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestCheckoutSession_Begin(t *testing.T) {
	now := time.Now()

	t.Run("moves open session to awaiting payment", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddItem(createTestProduct(t, "SKU-001", 2.00, 5), now)
		require.NoError(t, err)

		session := NewCheckoutSession()
		require.NoError(t, session.Begin(cart))
		assert.Equal(t, SessionStatusAwaitingPayment, session.Status)
		assert.False(t, session.CanModifyCart())
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		session := NewCheckoutSession()
		err := session.Begin(NewCart())
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
		assert.Equal(t, SessionStatusOpen, session.Status)
	})

	t.Run("rejects begin while already awaiting payment", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddItem(createTestProduct(t, "SKU-001", 2.00, 5), now)
		require.NoError(t, err)

		session := NewCheckoutSession()
		require.NoError(t, session.Begin(cart))

		err = session.Begin(cart)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestCheckoutSession_PrepareTransaction(t *testing.T) {
	now := time.Now()

	t.Run("snapshots cart into transaction", func(t *testing.T) {
		cart := NewCart()
		product := createTestProduct(t, "SKU-001", 4.50, 5)
		_, err := cart.AddItem(product, now)
		require.NoError(t, err)
		require.NoError(t, cart.AdjustQuantity(product.ID, 2, product.Stock))

		session := NewCheckoutSession()
		require.NoError(t, session.Begin(cart))

		txn, err := session.PrepareTransaction(cart, PaymentMethodCash, now)
		require.NoError(t, err)
		require.NotNil(t, txn)

		assert.Equal(t, "13.50", txn.Subtotal.StringFixed(2))
		assert.Equal(t, "1.08", txn.Tax.StringFixed(2))
		assert.Equal(t, "14.58", txn.Total.StringFixed(2))
		assert.Equal(t, PaymentMethodCash, txn.PaymentMethod)
		require.Len(t, txn.Items, 1)
		assert.Equal(t, 3, txn.Items[0].Quantity)
		assert.Equal(t, txn.ID, txn.Items[0].TransactionID)

		// Session stays in awaiting payment until the sale is durable.
		assert.Equal(t, SessionStatusAwaitingPayment, session.Status)
	})

	t.Run("rejects commit from open state", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddItem(createTestProduct(t, "SKU-001", 2.00, 5), now)
		require.NoError(t, err)

		session := NewCheckoutSession()
		_, err = session.PrepareTransaction(cart, PaymentMethodCash, now)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddItem(createTestProduct(t, "SKU-001", 2.00, 5), now)
		require.NoError(t, err)

		session := NewCheckoutSession()
		require.NoError(t, session.Begin(cart))

		_, err = session.PrepareTransaction(cart, PaymentMethod("bitcoin"), now)
		require.Error(t, err)
	})
}

func TestCheckoutSession_Complete(t *testing.T) {
	now := time.Now()
	cart := NewCart()
	_, err := cart.AddItem(createTestProduct(t, "SKU-001", 2.00, 5), now)
	require.NoError(t, err)

	session := NewCheckoutSession()
	require.NoError(t, session.Begin(cart))
	require.NoError(t, session.Complete())

	assert.Equal(t, SessionStatusCommitted, session.Status)
	assert.NotNil(t, session.CompletedAt)

	// Terminal: no further transitions.
	assert.Error(t, session.Cancel())
	assert.Error(t, session.Complete())
}

func TestCheckoutSession_Cancel(t *testing.T) {
	now := time.Now()

	t.Run("cancels awaiting payment and leaves cart intact", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddItem(createTestProduct(t, "SKU-001", 2.00, 5), now)
		require.NoError(t, err)

		session := NewCheckoutSession()
		require.NoError(t, session.Begin(cart))
		require.NoError(t, session.Cancel())

		assert.Equal(t, SessionStatusCancelled, session.Status)
		assert.Equal(t, 1, cart.LineCount())
	})

	t.Run("rejects cancel from open state", func(t *testing.T) {
		session := NewCheckoutSession()
		err := session.Cancel()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestNewTransaction(t *testing.T) {
	now := time.Now()

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewTransaction(nil, PaymentMethodCash, now)
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})

	t.Run("snapshot carries product details", func(t *testing.T) {
		lines := []CartLine{testLine("2.50", 2), testLine("1.00", 1)}
		txn, err := NewTransaction(lines, PaymentMethodCard, now)
		require.NoError(t, err)

		require.Len(t, txn.Items, 2)
		assert.Equal(t, lines[0].ProductID, txn.Items[0].ProductID)
		assert.Equal(t, "5.00", txn.Items[0].LineTotal.StringFixed(2))
		assert.Equal(t, 3, txn.TotalQuantity())
		assert.Equal(t, now, txn.Timestamp)
		assert.True(t, txn.Total.Equal(txn.Subtotal.Add(txn.Tax)))
	})
}
