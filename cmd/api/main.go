package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spadcafe/cafe-api/internal/application/service"
	"github.com/spadcafe/cafe-api/internal/config"
	"github.com/spadcafe/cafe-api/internal/infrastructure/database"
	"github.com/spadcafe/cafe-api/internal/infrastructure/repository"
	"github.com/spadcafe/cafe-api/internal/presentation/http/handler"
	"github.com/spadcafe/cafe-api/internal/presentation/http/routes"
	"github.com/spadcafe/cafe-api/pkg/email"
	"github.com/spadcafe/cafe-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the initial staff account
	if err := database.SeedDefaultData(db, &cfg.Admin); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	lunchRepo := repository.NewLunchRepository(db)

	// Initialize email service
	mailer := email.NewService(email.NewSMTPTransport(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	}))

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	menuService := service.NewMenuService(menuRepo)
	orderService := service.NewOrderService(orderRepo, menuRepo, customerRepo)
	checkoutService := service.NewCheckoutService(checkoutRepo, orderRepo, customerRepo, menuRepo, mailer)
	lunchService := service.NewLunchService(lunchRepo, customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Menu:     handler.NewMenuHandler(menuService),
		Customer: handler.NewCustomerHandler(customerService),
		Order:    handler.NewOrderHandler(orderService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Lunch:    handler.NewLunchHandler(lunchService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
