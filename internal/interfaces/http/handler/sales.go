package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registerapp "github.com/pos/backend/internal/application/register"
)

// SalesHandler handles the transaction history endpoints
type SalesHandler struct {
	BaseHandler
	salesService *registerapp.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(salesService *registerapp.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// List handles GET /sales/transactions
func (h *SalesHandler) List(c *gin.Context) {
	var filter registerapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	txns, total, err := h.salesService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, txns, total, page, pageSize)
}

// GetByID handles GET /sales/transactions/:id
func (h *SalesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	txn, err := h.salesService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, txn)
}

// Summary handles GET /sales/summary
func (h *SalesHandler) Summary(c *gin.Context) {
	summary, err := h.salesService.Summary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
