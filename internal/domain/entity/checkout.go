package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutJob represents a named billing period whose orders are
// compiled into per-customer receipts.
type CheckoutJob struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Processed bool      `gorm:"default:false" json:"processed"`

	// Parameters of the most recent compile run. All three are set
	// together; they stay NULL until the job is compiled for the
	// first time, which gates merge and dispatch.
	LastCompStart *time.Time `json:"-"`
	LastCompEnd   *time.Time `json:"-"`
	LastCompAt    *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Receipts []CompiledReceipt `gorm:"foreignKey:JobID" json:"-"`
}

// LastCompInfo describes when and over which window a job was last compiled
type LastCompInfo struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Timestamp time.Time `json:"timestamp"`
}

// LastComp returns the last compilation info, or nil if the job has
// never been compiled.
func (j *CheckoutJob) LastComp() *LastCompInfo {
	if j.LastCompAt == nil || j.LastCompStart == nil || j.LastCompEnd == nil {
		return nil
	}
	return &LastCompInfo{
		Start:     *j.LastCompStart,
		End:       *j.LastCompEnd,
		Timestamp: *j.LastCompAt,
	}
}

// MarshalJSON includes last_comp_info only when the job has been compiled
func (j CheckoutJob) MarshalJSON() ([]byte, error) {
	type Alias CheckoutJob
	return json.Marshal(&struct {
		Alias
		LastCompInfo *LastCompInfo `json:"last_comp_info,omitempty"`
	}{
		Alias:        Alias(j),
		LastCompInfo: j.LastComp(),
	})
}

// BeforeCreate generates a UUID before creating a new checkout job
func (j *CheckoutJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CheckoutJob model
func (CheckoutJob) TableName() string {
	return "checkout_jobs"
}

// CustomerSnapshot captures the customer document as it stood when a
// receipt was compiled. Later edits to the customer do not touch it.
type CustomerSnapshot struct {
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Funds      int64     `gorm:"default:0" json:"funds"`
}

// SnapshotOf builds a snapshot from a live customer record
func SnapshotOf(c *Customer) CustomerSnapshot {
	return CustomerSnapshot{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Funds:      c.Funds,
	}
}

// ReceiptLine is one aggregated menu line on a compiled receipt
type ReceiptLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CompiledReceipt is the per-customer billing record produced for a
// checkout job. Payment is written once by compilation; only Modifier,
// EmailSent and Paid change afterwards.
type CompiledReceipt struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	JobID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"job_id"`
	Customer  CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Receipt   []ReceiptLine    `gorm:"serializer:json" json:"receipt"`
	Payment   int64            `gorm:"not null;default:0" json:"payment"`
	Modifier  *int64           `json:"modifier,omitempty"`
	EmailSent bool             `gorm:"default:false" json:"email_sent"`
	Paid      bool             `gorm:"default:false" json:"paid"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Relationships
	Job CheckoutJob `gorm:"foreignKey:JobID" json:"-"`
}

// ModifierValue returns the modifier, treating an absent modifier as 0
func (r *CompiledReceipt) ModifierValue() int64 {
	if r.Modifier == nil {
		return 0
	}
	return *r.Modifier
}

// Total returns the payable amount: payment plus modifier
func (r *CompiledReceipt) Total() int64 {
	return r.Payment + r.ModifierValue()
}

// BeforeCreate generates a UUID before creating a new compiled receipt
func (r *CompiledReceipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompiledReceipt model
func (CompiledReceipt) TableName() string {
	return "compiled_receipts"
}
