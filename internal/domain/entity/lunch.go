package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LunchMenu is the single announcement document describing today's lunch
type LunchMenu struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Details   string    `gorm:"type:text" json:"details"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating the lunch menu
func (l *LunchMenu) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LunchMenu model
func (LunchMenu) TableName() string {
	return "lunch_menus"
}

// LunchRating is one customer's feedback for a given day's lunch.
// A customer can rate each date once; resubmitting replaces the rating.
type LunchRating struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Date       string    `gorm:"size:10;not null;uniqueIndex:idx_lunch_rating_date_customer" json:"date"` // YYYY-MM-DD
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lunch_rating_date_customer" json:"customer_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Rating     int       `gorm:"not null" json:"rating"` // 1-5
	Comments   string    `gorm:"type:text" json:"comments"`
	CreatedAt  time.Time `json:"timestamp"`
	UpdatedAt  time.Time `json:"-"`
}

// BeforeCreate generates a UUID before creating a new lunch rating
func (r *LunchRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LunchRating model
func (LunchRating) TableName() string {
	return "lunch_ratings"
}
