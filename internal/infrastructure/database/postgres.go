package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/spadcafe/cafe-api/internal/config"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Staff accounts
		&entity.User{},

		// Raw data: catalog, registry, order log
		&entity.MenuItem{},
		&entity.Customer{},
		&entity.Order{},
		&entity.OrderDetail{},

		// Checkout pipeline
		&entity.CheckoutJob{},
		&entity.CompiledReceipt{},

		// Lunch feedback
		&entity.LunchMenu{},
		&entity.LunchRating{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the initial admin account if no staff user exists
func SeedDefaultData(db *gorm.DB, cfg *config.AdminConfig) error {
	log.Println("Seeding default data...")

	var existing entity.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := entity.User{
		Name:  "Administrator",
		Email: cfg.Email,
		Role:  "admin",
	}
	if err := admin.SetPassword(cfg.Password); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Created default admin account %s", cfg.Email)
	return nil
}
