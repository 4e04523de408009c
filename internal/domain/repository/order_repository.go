package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
)

// OrderRepository defines the interface for order-log operations
type OrderRepository interface {
	// Create persists an order together with its detail lines
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDone(ctx context.Context, id uuid.UUID, done bool) error
	// ListByRange returns orders with details whose timestamp falls in the
	// half-open window [start, end), ordered by timestamp ascending.
	ListByRange(ctx context.Context, start, end time.Time) ([]entity.Order, error)
}
