package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	registerapp "github.com/pos/backend/internal/application/register"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

type registerTestEnv struct {
	engine      *gin.Engine
	productRepo *persistence.GormProductRepository
}

func newRegisterTestEnv(t *testing.T) *registerTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}, &register.Transaction{}, &register.TransactionItem{}))

	productRepo := persistence.NewGormProductRepository(db)
	txnLog := persistence.NewGormTransactionLog(db)
	svc := registerapp.NewRegisterService(productRepo, txnLog, zap.NewNop())
	h := NewRegisterHandler(svc)

	engine := gin.New()
	engine.GET("/register/cart", h.GetCart)
	engine.POST("/register/cart/items", h.AddItem)
	engine.POST("/register/cart/items/:id/quantity", h.AdjustQuantity)
	engine.DELETE("/register/cart/items/:id", h.RemoveItem)
	engine.DELETE("/register/cart", h.ClearCart)
	engine.POST("/register/checkout", h.BeginCheckout)
	engine.POST("/register/checkout/commit", h.CommitCheckout)
	engine.POST("/register/checkout/cancel", h.CancelCheckout)

	return &registerTestEnv{engine: engine, productRepo: productRepo}
}

func (e *registerTestEnv) seedProduct(t *testing.T, sku, name, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, "Grocery", decimal.RequireFromString(price), stock, nil)
	require.NoError(t, err)
	require.NoError(t, e.productRepo.Save(context.Background(), p))
	return p
}

func (e *registerTestEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func cartFromResponse(t *testing.T, resp dto.Response) registerapp.CartResponse {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var cart registerapp.CartResponse
	require.NoError(t, json.Unmarshal(raw, &cart))
	return cart
}

func TestRegisterFlow(t *testing.T) {
	env := newRegisterTestEnv(t)
	milk := env.seedProduct(t, "MILK-1L", "Whole Milk 1L", "4.50", 2)
	env.seedProduct(t, "GONE-1", "Sold Out Snack", "1.25", 0)

	w, resp := env.do(t, "GET", "/register/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)
	cart := cartFromResponse(t, resp)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, "OPEN", cart.SessionStatus)

	addBody := fmt.Sprintf(`{"product_id":%q}`, milk.ID)
	w, resp = env.do(t, "POST", "/register/cart/items", addBody)
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartFromResponse(t, resp)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	// second unit reaches the live-stock ceiling
	w, _ = env.do(t, "POST", "/register/cart/items", addBody)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, "POST", "/register/cart/items", addBody)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STOCK_EXCEEDED", resp.Error.Code)

	w, resp = env.do(t, "GET", "/register/cart", "")
	cart = cartFromResponse(t, resp)
	assert.Equal(t, "9", cart.Subtotal.String())
	assert.Equal(t, "0.72", cart.Tax.String())
	assert.Equal(t, "9.72", cart.Total.String())
	assert.Equal(t, "9.72 USD", cart.TotalDisplay)
	assert.Equal(t, "4.50 USD", cart.Lines[0].UnitPriceDisplay)

	w, resp = env.do(t, "POST", "/register/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartFromResponse(t, resp)
	assert.Equal(t, "AWAITING_PAYMENT", cart.SessionStatus)

	w, resp = env.do(t, "POST", "/register/checkout/commit", `{"payment_method":"check"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "payment_method", resp.Error.Details[0].Field)

	w, resp = env.do(t, "POST", "/register/checkout/commit", `{"payment_method":"cash"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var txn registerapp.TransactionResponse
	require.NoError(t, json.Unmarshal(raw, &txn))
	assert.Equal(t, "9.72", txn.Total.String())
	assert.Equal(t, "9.72 USD", txn.TotalDisplay)
	assert.Equal(t, "cash", txn.PaymentMethod)
	require.Len(t, txn.Items, 1)
	assert.Equal(t, 2, txn.Items[0].Quantity)
	assert.Equal(t, "9.00 USD", txn.Items[0].LineTotalDisplay)

	// stock is decremented and the cart reset for the next sale
	updated, err := env.productRepo.FindByID(context.Background(), milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	w, resp = env.do(t, "GET", "/register/cart", "")
	cart = cartFromResponse(t, resp)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, "OPEN", cart.SessionStatus)
}

func TestRegisterAddItemOutOfStock(t *testing.T) {
	env := newRegisterTestEnv(t)
	empty := env.seedProduct(t, "GONE-1", "Sold Out Snack", "1.25", 0)

	w, resp := env.do(t, "POST", "/register/cart/items", fmt.Sprintf(`{"product_id":%q}`, empty.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OUT_OF_STOCK", resp.Error.Code)
}

func TestRegisterAdjustQuantity(t *testing.T) {
	env := newRegisterTestEnv(t)
	p := env.seedProduct(t, "SODA-CAN", "Soda Can", "1.50", 5)

	addBody := fmt.Sprintf(`{"product_id":%q}`, p.ID)
	w, _ := env.do(t, "POST", "/register/cart/items", addBody)
	require.Equal(t, http.StatusOK, w.Code)

	path := fmt.Sprintf("/register/cart/items/%s/quantity", p.ID)

	w, resp := env.do(t, "POST", path, `{"delta":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart := cartFromResponse(t, resp)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 4, cart.Lines[0].Quantity)

	// pushing past available stock leaves the line unchanged
	w, resp = env.do(t, "POST", path, `{"delta":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartFromResponse(t, resp)
	assert.Equal(t, 4, cart.Lines[0].Quantity)

	// zero delta is accepted and changes nothing
	w, resp = env.do(t, "POST", path, `{"delta":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartFromResponse(t, resp)
	assert.Equal(t, 4, cart.Lines[0].Quantity)

	// dropping to zero or below removes the line
	w, resp = env.do(t, "POST", path, `{"delta":-4}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartFromResponse(t, resp)
	assert.Empty(t, cart.Lines)
}

func TestRegisterCheckoutEmptyCart(t *testing.T) {
	env := newRegisterTestEnv(t)

	w, resp := env.do(t, "POST", "/register/checkout", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)
}

func TestRegisterCancelCheckout(t *testing.T) {
	env := newRegisterTestEnv(t)
	p := env.seedProduct(t, "SODA-CAN", "Soda Can", "1.50", 5)

	_, _ = env.do(t, "POST", "/register/cart/items", fmt.Sprintf(`{"product_id":%q}`, p.ID))
	_, _ = env.do(t, "POST", "/register/checkout", "")

	w, resp := env.do(t, "POST", "/register/checkout/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	cart := cartFromResponse(t, resp)
	assert.Equal(t, "OPEN", cart.SessionStatus)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}
