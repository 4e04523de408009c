package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
)

// MenuRepository defines the interface for menu catalog operations
type MenuRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the whole menu ordered by category and sort index
	List(ctx context.Context) ([]entity.MenuItem, error)
}
