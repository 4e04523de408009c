package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem represents an item on the café menu
type MenuItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Price      int64          `gorm:"not null;default:0" json:"price"` // Price in won
	Category   string         `gorm:"size:100" json:"category,omitempty"`
	SortIndex  int            `gorm:"default:0" json:"sort_index"`
	OutOfStock bool           `gorm:"default:false" json:"out_of_stock"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new menu item
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}
