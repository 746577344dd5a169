package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/pos/backend/internal/application/catalog"
	insightsapp "github.com/pos/backend/internal/application/insights"
	registerapp "github.com/pos/backend/internal/application/register"
	reportapp "github.com/pos/backend/internal/application/report"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/infrastructure/config"
	insightsinfra "github.com/pos/backend/internal/infrastructure/insights"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting register backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer bootCancel()

	if err := db.AutoMigrate(
		&catalog.Product{},
		&register.Transaction{},
		&register.TransactionItem{},
	); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	if err := persistence.EnsureSeed(bootCtx, db.DB, log); err != nil {
		log.Fatal("failed to seed catalog", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	txnLog := persistence.NewGormTransactionLog(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	registerService := registerapp.NewRegisterService(productRepo, txnLog, log)
	salesService := registerapp.NewSalesService(txnLog)
	dashboardService := reportapp.NewDashboardService(productRepo, txnLog)
	insightsProvider := insightsinfra.NewOpenAIProvider(&cfg.Insights)
	insightsService := insightsapp.NewInsightsService(insightsProvider, productRepo, txnLog, log)

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	registerHandler := handler.NewRegisterHandler(registerService)
	salesHandler := handler.NewSalesHandler(salesService)
	reportHandler := handler.NewReportHandler(dashboardService)
	insightsHandler := handler.NewInsightsHandler(insightsService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", healthHandler(db))

	// Routes
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.GET("/alerts/low-stock", productHandler.LowStock)
	catalogRoutes.GET("/alerts/expired", productHandler.Expired)

	registerRoutes := router.NewDomainGroup("register", "/register")
	registerRoutes.GET("/cart", registerHandler.GetCart)
	registerRoutes.POST("/cart/items", registerHandler.AddItem)
	registerRoutes.POST("/cart/items/:id/quantity", registerHandler.AdjustQuantity)
	registerRoutes.DELETE("/cart/items/:id", registerHandler.RemoveItem)
	registerRoutes.DELETE("/cart", registerHandler.ClearCart)
	registerRoutes.POST("/checkout", registerHandler.BeginCheckout)
	registerRoutes.POST("/checkout/commit", registerHandler.CommitCheckout)
	registerRoutes.POST("/checkout/cancel", registerHandler.CancelCheckout)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.GET("/transactions", salesHandler.List)
	salesRoutes.GET("/transactions/:id", salesHandler.GetByID)
	salesRoutes.GET("/summary", salesHandler.Summary)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)

	insightsRoutes := router.NewDomainGroup("insights", "/insights")
	insightsRoutes.GET("/business", insightsHandler.BusinessSummary)
	insightsRoutes.POST("/products/describe", insightsHandler.DescribeProduct)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.Info)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(catalogRoutes).
		Register(registerRoutes).
		Register(salesRoutes).
		Register(reportRoutes).
		Register(insightsRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}

// healthHandler reports liveness of the process and its database
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
