package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()

	catalog := NewDomainGroup("catalog", "/catalog").
		GET("/products", okHandler).
		POST("/products", okHandler)

	NewRouter(engine).Register(catalog).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/catalog/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/catalog/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// unversioned path is not registered
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/catalog/products", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterCustomVersion(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("sales", "/sales").GET("/summary", okHandler)
	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v2/sales/summary", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/sales/summary", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()

	var order []string
	group := NewDomainGroup("register", "/register").
		Use(func(c *gin.Context) {
			order = append(order, "middleware")
			c.Next()
		}).
		GET("/cart", func(c *gin.Context) {
			order = append(order, "handler")
			c.String(http.StatusOK, "ok")
		})

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/register/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"middleware", "handler"}, order)
}

func TestDomainGroupMetadata(t *testing.T) {
	group := NewDomainGroup("catalog", "/catalog")

	assert.Equal(t, "catalog", group.Name())
	assert.Equal(t, "/catalog", group.Prefix())
}
