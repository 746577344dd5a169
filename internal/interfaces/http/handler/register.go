package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registerapp "github.com/pos/backend/internal/application/register"
)

// RegisterHandler handles the live cart and checkout endpoints
type RegisterHandler struct {
	BaseHandler
	registerService *registerapp.RegisterService
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(registerService *registerapp.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// GetCart handles GET /register/cart
func (h *RegisterHandler) GetCart(c *gin.Context) {
	h.Success(c, h.registerService.GetCart(c.Request.Context()))
}

// AddItem handles POST /register/cart/items
func (h *RegisterHandler) AddItem(c *gin.Context) {
	var req registerapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cart, err := h.registerService.AddItem(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AdjustQuantity handles POST /register/cart/items/:id/quantity
func (h *RegisterHandler) AdjustQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req registerapp.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cart, err := h.registerService.AdjustQuantity(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem handles DELETE /register/cart/items/:id
func (h *RegisterHandler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	cart, err := h.registerService.RemoveItem(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// ClearCart handles DELETE /register/cart
func (h *RegisterHandler) ClearCart(c *gin.Context) {
	cart, err := h.registerService.ClearCart(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// BeginCheckout handles POST /register/checkout
func (h *RegisterHandler) BeginCheckout(c *gin.Context) {
	cart, err := h.registerService.BeginCheckout(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// CommitCheckout handles POST /register/checkout/commit
func (h *RegisterHandler) CommitCheckout(c *gin.Context) {
	var req registerapp.CommitCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	txn, err := h.registerService.CommitCheckout(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, txn)
}

// CancelCheckout handles POST /register/checkout/cancel
func (h *RegisterHandler) CancelCheckout(c *gin.Context) {
	cart, err := h.registerService.CancelCheckout(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}
