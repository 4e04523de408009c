package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/application/service"
	"github.com/spadcafe/cafe-api/internal/presentation/http/dto/response"
)

// OrderHandler handles order-log HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles recording a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customer_id" binding:"required"`
		Items      []struct {
			MenuID   string `json:"menu_id" binding:"required"`
			Quantity int    `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1"`
		ManualPrice *int64 `json:"manual_price"`
		Discount    int64  `json:"discount"`
		UseFunds    bool   `json:"use_funds"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		menuID, err := uuid.Parse(item.MenuID)
		if err != nil {
			response.BadRequest(c, "Invalid menu item ID")
			return
		}
		items = append(items, service.OrderItemInput{
			MenuID:   menuID,
			Quantity: item.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		CustomerID:  customerID,
		Items:       items,
		ManualPrice: req.ManualPrice,
		Discount:    req.Discount,
		UseFunds:    req.UseFunds,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// ListByDay handles listing the order log for a single day
func (h *OrderHandler) ListByDay(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	orders, err := h.orderService.ListOrdersByDay(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved successfully", orders)
}

// SetDone handles toggling an order's done flag
func (h *OrderHandler) SetDone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Done *bool `json:"done" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.orderService.SetDone(c.Request.Context(), id, *req.Done); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order updated successfully", nil)
}

// Delete handles voiding an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
