package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/internal/domain/repository"
	"github.com/spadcafe/cafe-api/pkg/apperror"
)

// LunchService handles the lunch announcement and its feedback ratings
type LunchService struct {
	lunchRepo    repository.LunchRepository
	customerRepo repository.CustomerRepository
}

// NewLunchService creates a new lunch service
func NewLunchService(lunchRepo repository.LunchRepository, customerRepo repository.CustomerRepository) *LunchService {
	return &LunchService{lunchRepo: lunchRepo, customerRepo: customerRepo}
}

// GetMenu returns the current lunch announcement
func (s *LunchService) GetMenu(ctx context.Context) (*entity.LunchMenu, error) {
	menu, err := s.lunchRepo.GetMenu(ctx)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, apperror.NewNotFoundError("Lunch menu")
	}
	return menu, nil
}

// SetMenu replaces the lunch announcement
func (s *LunchService) SetMenu(ctx context.Context, details, imageURL string) (*entity.LunchMenu, error) {
	menu := &entity.LunchMenu{
		Details:  details,
		ImageURL: imageURL,
	}
	if err := s.lunchRepo.SaveMenu(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// ListRatings returns the ratings submitted for a date (YYYY-MM-DD)
func (s *LunchService) ListRatings(ctx context.Context, date string) ([]entity.LunchRating, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperror.NewBadRequestError("Invalid date, expected YYYY-MM-DD")
	}
	return s.lunchRepo.ListRatings(ctx, date)
}

// RateInput represents one customer's lunch feedback
type RateInput struct {
	Date       string
	CustomerID uuid.UUID
	Rating     int
	Comments   string
}

// Rate records a customer's rating for a date, replacing any earlier
// rating by the same customer for that date.
func (s *LunchService) Rate(ctx context.Context, input *RateInput) (*entity.LunchRating, error) {
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, apperror.NewBadRequestError("Invalid date, expected YYYY-MM-DD")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.NewBadRequestError("Rating must be between 1 and 5")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	rating := &entity.LunchRating{
		Date:       input.Date,
		CustomerID: customer.ID,
		Name:       customer.Name,
		Rating:     input.Rating,
		Comments:   input.Comments,
	}
	if err := s.lunchRepo.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	return s.lunchRepo.GetRating(ctx, input.Date, customer.ID)
}
