package register

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// TransactionLog is the append-only record of completed sales.
// Reads return transactions most recent first.
type TransactionLog interface {
	// Append durably records a transaction. It must succeed before any
	// other commit side effect runs.
	Append(ctx context.Context, txn *Transaction) error

	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll returns transactions matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Transaction, error)

	// FindSince returns transactions at or after the given time, newest first
	FindSince(ctx context.Context, since time.Time) ([]Transaction, error)

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
