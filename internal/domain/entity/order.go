package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order represents a single order-log entry recorded at the counter.
// Historical orders are never rewritten by checkout compilation; the
// customer name and menu labels are denormalized so receipts stay
// readable after the referenced documents change or disappear.
type Order struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName     string         `gorm:"size:255;not null" json:"name"`
	Timestamp        time.Time      `gorm:"not null;index" json:"timestamp"`
	Payment          int64          `gorm:"not null;default:0" json:"payment"` // Final charged amount in won
	OriginalPayment  int64          `gorm:"default:0" json:"original_payment"`
	ManualPaymentSet bool           `gorm:"default:false" json:"manual_payment_set"`
	ManualPayment    int64          `gorm:"default:0" json:"manual_payment"`
	Discount         int64          `gorm:"default:0" json:"discount"`
	FundsUsed        bool           `gorm:"default:false" json:"funds_used"`
	FundSubtraction  int64          `gorm:"default:0" json:"fund_subtraction"`
	Notes            string         `gorm:"type:text" json:"notes"`
	Done             bool           `gorm:"default:false" json:"done"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	Details  []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderDetail represents a line item in an order
type OrderDetail struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuID    uuid.UUID `gorm:"type:uuid;not null;index" json:"menu_id"`
	MenuLabel string    `gorm:"size:255;not null" json:"menu_label"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order detail
func (od *OrderDetail) BeforeCreate(tx *gorm.DB) error {
	if od.ID == uuid.Nil {
		od.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}
