package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionLog implements register.TransactionLog using GORM.
// Transactions are written once at commit time and never updated.
type GormTransactionLog struct {
	db *gorm.DB
}

// NewGormTransactionLog creates a new GormTransactionLog
func NewGormTransactionLog(db *gorm.DB) *GormTransactionLog {
	return &GormTransactionLog{db: db}
}

// Append durably records a transaction and its line items
func (r *GormTransactionLog) Append(ctx context.Context, txn *register.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return nil
	})
}

// FindByID finds a transaction by its ID, items included
func (r *GormTransactionLog) FindByID(ctx context.Context, id uuid.UUID) (*register.Transaction, error) {
	var txn register.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindAll returns transactions matching the filter, newest first
func (r *GormTransactionLog) FindAll(ctx context.Context, filter shared.Filter) ([]register.Transaction, error) {
	var txns []register.Transaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&register.Transaction{}).Preload("Items"), filter)

	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindSince returns transactions at or after the given time, newest first
func (r *GormTransactionLog) FindSince(ctx context.Context, since time.Time) ([]register.Transaction, error) {
	var txns []register.Transaction
	query := r.db.WithContext(ctx).Preload("Items")
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}

	if err := query.Order("timestamp DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// Count counts transactions matching the filter
func (r *GormTransactionLog) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&register.Transaction{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionLog) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Most recent first regardless of what the caller asked for; the log
	// is read newest-to-oldest.
	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "timestamp")
	if orderBy == "timestamp" {
		return query.Order("timestamp DESC")
	}
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormTransactionLog) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "since":
			query = query.Where("timestamp >= ?", value)
		case "until":
			query = query.Where("timestamp <= ?", value)
		}
	}
	return query
}
