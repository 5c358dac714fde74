package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/cart"
	"github.com/Jotadose/palelu-app/internal/config"
	"github.com/Jotadose/palelu-app/internal/handler"
	"github.com/Jotadose/palelu-app/internal/infra"
	"github.com/Jotadose/palelu-app/internal/live"
	"github.com/Jotadose/palelu-app/internal/middleware"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/service"
	"github.com/Jotadose/palelu-app/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine plus the
// worker handlers the server starts alongside it.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.Handlers) {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	textgen := infra.NewTextGenClient(cfg.TextGenURL)
	mailer := infra.NewMailer(cfg)
	feed := live.NewFeed(rdb)
	carts := cart.NewRedisStore(rdb, time.Duration(cfg.CartTTLMinutes)*time.Minute)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cashRepo := repository.NewCashRepository(db)
	invMovRepo := repository.NewInventoryMovementRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	productSvc := service.NewProductService(productRepo, invMovRepo, textgen, feed)
	tillSvc := service.NewTillService(cashRepo, orderRepo, feed, dispatcher)
	cartSvc := service.NewCartService(carts, productRepo)
	saleSvc := service.NewSaleService(orderRepo, productRepo, invMovRepo, carts, tillSvc, feed)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	salesH := handler.NewSaleHandler(saleSvc)
	tillH := handler.NewTillHandler(tillSvc, feed)
	usersH := handler.NewUserHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, textgen))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleSeller)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — sellers read, admins write
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/:id/movements", anyRole, productsH.Movements)
		v1.POST("/products/describe", adminOnly, productsH.Describe)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
			prods.POST("/:id/shrinkage", productsH.Shrinkage)
		}
		v1.GET("/inventory/movements", anyRole, productsH.Movements)

		// Cart — per-cashier, any authenticated role
		crt := v1.Group("/cart", anyRole)
		{
			crt.GET("", cartH.Get)
			crt.POST("/items", cartH.AddItem)
			crt.PUT("/items/:productId", cartH.SetQuantity)
			crt.DELETE("/items/:productId", cartH.RemoveItem)
			crt.DELETE("", cartH.Clear)
		}

		// Sales
		v1.POST("/sales/checkout", anyRole, salesH.Checkout)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)

		// Till
		till := v1.Group("/till")
		{
			till.POST("/open", anyRole, tillH.Open)
			till.POST("/expenses", anyRole, tillH.AddExpense)
			till.POST("/close", anyRole, tillH.Close)
			till.GET("/active", anyRole, tillH.Active)
			till.GET("/:id/report", anyRole, tillH.Report)
			till.GET("/history", adminOnly, tillH.History)
			till.GET("/stream", anyRole, tillH.Stream)
		}

		// User management — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Worker handlers, started by the server next to the HTTP listener.
	handlers := &worker.Handlers{
		TillReport: worker.NewTillReportWorker(cashRepo, orderRepo, mailer, cfg.ReportEmail, cfg.PDFStoragePath),
	}

	return r, handlers
}
