package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	domainRepo "github.com/spadcafe/cafe-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type lunchRepository struct {
	db *gorm.DB
}

// NewLunchRepository creates a new lunch repository
func NewLunchRepository(db *gorm.DB) domainRepo.LunchRepository {
	return &lunchRepository{db: db}
}

func (r *lunchRepository) GetMenu(ctx context.Context) (*entity.LunchMenu, error) {
	var menu entity.LunchMenu
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &menu, err
}

func (r *lunchRepository) SaveMenu(ctx context.Context, menu *entity.LunchMenu) error {
	// Single announcement document: replace whatever is there
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.LunchMenu{}).Error; err != nil {
			return err
		}
		return tx.Create(menu).Error
	})
}

func (r *lunchRepository) ListRatings(ctx context.Context, date string) ([]entity.LunchRating, error) {
	var ratings []entity.LunchRating
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *lunchRepository) GetRating(ctx context.Context, date string, customerID uuid.UUID) (*entity.LunchRating, error) {
	var rating entity.LunchRating
	err := r.db.WithContext(ctx).
		First(&rating, "date = ? AND customer_id = ?", date, customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rating, err
}

func (r *lunchRepository) UpsertRating(ctx context.Context, rating *entity.LunchRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "rating", "comments", "updated_at"}),
	}).Create(rating).Error
}
