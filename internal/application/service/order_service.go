package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/internal/domain/repository"
	"github.com/spadcafe/cafe-api/pkg/apperror"
)

// OrderService handles order-log entry and retrieval
type OrderService struct {
	orderRepo    repository.OrderRepository
	menuRepo     repository.MenuRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	customerRepo repository.CustomerRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// OrderItemInput represents one menu line in a new order
type OrderItemInput struct {
	MenuID   uuid.UUID
	Quantity int
}

// CreateOrderInput represents the order-entry form
type CreateOrderInput struct {
	CustomerID  uuid.UUID
	Items       []OrderItemInput
	ManualPrice *int64 // Overrides the computed price when set
	Discount    int64
	UseFunds    bool // Draw the charge down from the customer's prepaid funds
	Notes       string
}

// CreateOrder records a new order-log entry. The charged payment is the
// menu total (or the manual override), minus the discount, minus
// whatever the customer's prepaid funds can cover.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Order must contain at least one item")
	}

	// Batch fetch all menu items in one query
	menuIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		menuIDs[i] = item.MenuID
	}
	menuItems, err := s.menuRepo.GetByIDs(ctx, menuIDs)
	if err != nil {
		return nil, err
	}
	menuByID := make(map[uuid.UUID]*entity.MenuItem, len(menuItems))
	for i := range menuItems {
		menuByID[menuItems[i].ID] = &menuItems[i]
	}

	var originalPayment int64
	details := make([]entity.OrderDetail, 0, len(input.Items))
	for _, item := range input.Items {
		menuItem, exists := menuByID[item.MenuID]
		if !exists {
			return nil, apperror.NewNotFoundError("Menu item")
		}
		if item.Quantity <= 0 {
			continue
		}

		originalPayment += menuItem.Price * int64(item.Quantity)
		details = append(details, entity.OrderDetail{
			MenuID:    menuItem.ID,
			MenuLabel: menuItem.Name,
			Quantity:  item.Quantity,
		})
	}
	if len(details) == 0 {
		return nil, apperror.NewBadRequestError("Order must contain at least one item")
	}

	final := originalPayment
	if input.ManualPrice != nil {
		final = *input.ManualPrice
	}
	final -= input.Discount

	// Funds cover at most the remaining charge; the balance never goes
	// negative on entry.
	var fundSubtraction int64
	useFunds := input.UseFunds && customer.Funds > 0
	if useFunds {
		fundSubtraction = min64(final, customer.Funds)
		final -= fundSubtraction
	}

	order := &entity.Order{
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		Timestamp:        s.now(),
		Payment:          final,
		OriginalPayment:  originalPayment,
		ManualPaymentSet: input.ManualPrice != nil,
		ManualPayment:    derefOrZero(input.ManualPrice),
		Discount:         input.Discount,
		FundsUsed:        useFunds,
		FundSubtraction:  fundSubtraction,
		Notes:            input.Notes,
		Details:          details,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if fundSubtraction > 0 {
		if err := s.customerRepo.AddFunds(ctx, customer.ID, -fundSubtraction); err != nil {
			return nil, err
		}
	}

	return s.orderRepo.GetByID(ctx, order.ID)
}

// ListOrdersByDay returns the order log for one calendar day
func (s *OrderService) ListOrdersByDay(ctx context.Context, day time.Time) ([]entity.Order, error) {
	start := startOfDay(day)
	return s.orderRepo.ListByRange(ctx, start, start.AddDate(0, 0, 1))
}

// SetDone toggles an order's done flag
func (s *OrderService) SetDone(ctx context.Context, id uuid.UUID, done bool) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	return s.orderRepo.SetDone(ctx, id, done)
}

// DeleteOrder removes an order-log entry, restoring any funds it drew down
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}

	if order.FundsUsed && order.FundSubtraction > 0 {
		return s.customerRepo.AddFunds(ctx, order.CustomerID, order.FundSubtraction)
	}
	return nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func derefOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
