package handler

import (
	"github.com/gin-gonic/gin"

	insightsapp "github.com/pos/backend/internal/application/insights"
)

// InsightsHandler handles advisory text endpoints. Provider failures are
// absorbed by the service, so these endpoints always answer 200.
type InsightsHandler struct {
	BaseHandler
	insightsService *insightsapp.InsightsService
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(insightsService *insightsapp.InsightsService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

// DescribeProductRequest asks for marketing copy for a product
type DescribeProductRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Category string `json:"category" binding:"max=100"`
}

// BusinessSummary handles GET /insights/business
func (h *InsightsHandler) BusinessSummary(c *gin.Context) {
	h.Success(c, h.insightsService.BusinessSummary(c.Request.Context()))
}

// DescribeProduct handles POST /insights/products/describe
func (h *InsightsHandler) DescribeProduct(c *gin.Context) {
	var req DescribeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	h.Success(c, h.insightsService.DescribeProduct(c.Request.Context(), req.Name, req.Category))
}
