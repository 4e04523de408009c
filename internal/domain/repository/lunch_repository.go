package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
)

// LunchRepository defines the interface for the lunch menu and its ratings
type LunchRepository interface {
	// GetMenu returns the lunch announcement, or nil if none has been posted
	GetMenu(ctx context.Context) (*entity.LunchMenu, error)
	// SaveMenu creates or replaces the single lunch announcement
	SaveMenu(ctx context.Context, menu *entity.LunchMenu) error
	ListRatings(ctx context.Context, date string) ([]entity.LunchRating, error)
	GetRating(ctx context.Context, date string, customerID uuid.UUID) (*entity.LunchRating, error)
	// UpsertRating creates a rating, or replaces the customer's existing
	// rating for the same date.
	UpsertRating(ctx context.Context, rating *entity.LunchRating) error
}
