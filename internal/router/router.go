package router

import (
	"time"

	"posledger/internal/config"
	"posledger/internal/handler"
	"posledger/internal/infra"
	"posledger/internal/middleware"
	"posledger/internal/repository"
	"posledger/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	retry := infra.RetryConfig{
		Attempts: cfg.StoreRetryAttempts,
		Backoff:  time.Duration(cfg.StoreRetryBackoffMS) * time.Millisecond,
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	invoiceSvc := service.NewInvoiceService(invoiceRepo, sequenceRepo, retry)
	settlementSvc := service.NewSettlementService(invoiceRepo, customerRepo, retry)
	cashflowSvc := service.NewCashflowService(invoiceRepo, rdb,
		time.Duration(cfg.SummaryCacheTTLSeconds)*time.Second)

	// ── Handlers ─────────────────────────────────────────────────────────────
	invoicesH := handler.NewInvoicesHandler(invoiceSvc, settlementSvc)
	cashflowH := handler.NewCashflowHandler(cashflowSvc)
	walletH := handler.NewWalletHandler(customerRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoicesH.Create)
			invoices.GET("", invoicesH.List)
			invoices.GET("/due", invoicesH.ListDue)
			// Fixed segments are registered before the :number wildcard so
			// "due", "date" and "totals" never resolve as invoice numbers.
			invoices.GET("/totals/today", cashflowH.TodayTotals)
			invoices.GET("/date/:date", invoicesH.ListOnDate)
			invoices.GET("/cleared-or-created/:date", invoicesH.ListClearedOrCreatedOn)
			invoices.GET("/:number", invoicesH.GetByNumber)
			invoices.PATCH("/:number/clear", invoicesH.Clear)
		}

		v1.GET("/cashflow/:date", cashflowH.Summarize)

		customers := v1.Group("/customers")
		{
			customers.GET("/:id/wallet", walletH.Get)
			customers.POST("/:id/wallet/credit", walletH.Credit)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
