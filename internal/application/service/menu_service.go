package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/internal/domain/repository"
	"github.com/spadcafe/cafe-api/pkg/apperror"
)

// MenuService handles menu catalog operations
type MenuService struct {
	menuRepo repository.MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo}
}

// CreateMenuItemInput represents the create menu item input
type CreateMenuItemInput struct {
	Name      string
	Price     int64
	Category  string
	SortIndex int
}

// CreateMenuItem creates a new menu item
func (s *MenuService) CreateMenuItem(ctx context.Context, input *CreateMenuItemInput) (*entity.MenuItem, error) {
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price must not be negative")
	}

	item := &entity.MenuItem{
		Name:      input.Name,
		Price:     input.Price,
		Category:  input.Category,
		SortIndex: input.SortIndex,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetMenuItem retrieves a menu item by ID
func (s *MenuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	return item, nil
}

// ListMenu returns the full menu ordered by category and sort index
func (s *MenuService) ListMenu(ctx context.Context) ([]entity.MenuItem, error) {
	return s.menuRepo.List(ctx)
}

// UpdateMenuItemInput represents the update menu item input
type UpdateMenuItemInput struct {
	ID         uuid.UUID
	Name       *string
	Price      *int64
	Category   *string
	SortIndex  *int
	OutOfStock *bool
}

// UpdateMenuItem updates an existing menu item
func (s *MenuService) UpdateMenuItem(ctx context.Context, input *UpdateMenuItemInput) (*entity.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Price must not be negative")
		}
		item.Price = *input.Price
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.SortIndex != nil {
		item.SortIndex = *input.SortIndex
	}
	if input.OutOfStock != nil {
		item.OutOfStock = *input.OutOfStock
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMenuItem removes a menu item. Historical order details keep
// their denormalized label; receipts compiled afterwards show the
// deleted-item fallback instead.
func (s *MenuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMenuItem(ctx, id); err != nil {
		return err
	}
	return s.menuRepo.Delete(ctx, id)
}
