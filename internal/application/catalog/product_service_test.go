package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindExpired(ctx context.Context, asOf time.Time) ([]catalog.Product, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with valid request", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("ExistsBySKU", ctx, "SKU-001").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, CreateProductRequest{
			SKU:      "SKU-001",
			Name:     "Whole Milk 1L",
			Category: "Dairy",
			Price:    decimal.NewFromFloat(3.50),
			Stock:    20,
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", resp.SKU)
		assert.Equal(t, 20, resp.Stock)
		assert.False(t, resp.LowStock)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate SKU is rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("ExistsBySKU", ctx, "SKU-001").Return(true, nil)

		_, err := svc.Create(ctx, CreateProductRequest{
			SKU:      "SKU-001",
			Name:     "Whole Milk 1L",
			Category: "Dairy",
			Price:    decimal.NewFromFloat(3.50),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", ctx, mock.Anything)
	})

	t.Run("invalid price is rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("ExistsBySKU", ctx, "SKU-001").Return(false, nil)

		_, err := svc.Create(ctx, CreateProductRequest{
			SKU:      "SKU-001",
			Name:     "Milk",
			Category: "Dairy",
			Price:    decimal.NewFromInt(-2),
		})
		require.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	product, err := catalog.NewProduct("SKU-001", "Milk", "Dairy", decimal.NewFromFloat(3.50), 10, nil)
	require.NoError(t, err)

	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{
		Name:     "Skim Milk",
		Category: "Dairy",
		Price:    decimal.NewFromFloat(3.25),
		Stock:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Skim Milk", resp.Name)
	assert.True(t, resp.CriticalStock)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		product, err := catalog.NewProduct("SKU-001", "Milk", "Dairy", decimal.NewFromFloat(3.50), 10, nil)
		require.NoError(t, err)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Delete", ctx, product.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, product.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing product returns not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		missingID := uuid.New()
		repo.On("FindByID", ctx, missingID).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, missingID), shared.ErrNotFound)
	})
}

func TestProductService_ListLowStock(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	low, err := catalog.NewProduct("SKU-001", "Milk", "Dairy", decimal.NewFromFloat(3.50), 3, nil)
	require.NoError(t, err)

	repo.On("FindLowStock", ctx, catalog.LowStockThreshold).Return([]catalog.Product{*low}, nil)

	resp, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].LowStock)
	assert.True(t, resp[0].CriticalStock)
}
