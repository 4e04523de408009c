package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spadcafe/cafe-api/internal/config"
	"github.com/spadcafe/cafe-api/internal/presentation/http/handler"
	"github.com/spadcafe/cafe-api/internal/presentation/http/middleware"
	"github.com/spadcafe/cafe-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Menu     *handler.MenuHandler
	Customer *handler.CustomerHandler
	Order    *handler.OrderHandler
	Checkout *handler.CheckoutHandler
	Lunch    *handler.LunchHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.Profile)

	// Menu
	registerMenuRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Orders
	registerOrderRoutes(protected, h)

	// Checkout jobs
	registerCheckoutRoutes(protected, h)

	// Lunch menu and ratings
	registerLunchRoutes(protected, h)
}

func registerMenuRoutes(protected *gin.RouterGroup, h *Handlers) {
	menu := protected.Group("/menu")
	{
		menu.GET("", h.Menu.List)
		menu.POST("", h.Menu.Create)
		menu.GET("/:id", h.Menu.Get)
		menu.PUT("/:id", h.Menu.Update)
		menu.DELETE("/:id", h.Menu.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.POST("/:id/funds", h.Customer.AdjustFunds)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.ListByDay)
		orders.POST("", h.Order.Create)
		orders.PUT("/:id/done", h.Order.SetDone)
		orders.DELETE("/:id", h.Order.Delete)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers) {
	checkout := protected.Group("/checkout")
	{
		checkout.GET("/email-defaults", h.Checkout.EmailDefaults)

		checkout.GET("/jobs", h.Checkout.ListJobs)
		checkout.POST("/jobs", h.Checkout.CreateJob)
		checkout.GET("/jobs/:id", h.Checkout.GetJob)
		checkout.DELETE("/jobs/:id", h.Checkout.DeleteJob)
		checkout.PUT("/jobs/:id/processed", h.Checkout.SetProcessed)

		checkout.POST("/jobs/:id/compile", h.Checkout.Compile)
		checkout.POST("/jobs/:id/merge", h.Checkout.Merge)
		checkout.POST("/jobs/:id/dispatch", h.Checkout.Dispatch)

		checkout.GET("/jobs/:id/receipts", h.Checkout.ListReceipts)
		checkout.POST("/jobs/:id/receipts", h.Checkout.AddReceipt)
		checkout.DELETE("/receipts/:receiptId", h.Checkout.DeleteReceipt)
		checkout.PUT("/receipts/:receiptId/paid", h.Checkout.SetReceiptPaid)
	}
}

func registerLunchRoutes(protected *gin.RouterGroup, h *Handlers) {
	lunch := protected.Group("/lunch")
	{
		lunch.GET("/menu", h.Lunch.GetMenu)
		lunch.PUT("/menu", h.Lunch.SetMenu)
		lunch.GET("/ratings", h.Lunch.ListRatings)
		lunch.POST("/ratings", h.Lunch.Rate)
	}
}
