package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/application/service"
	"github.com/spadcafe/cafe-api/internal/presentation/http/dto/response"
)

// LunchHandler handles lunch menu and rating HTTP requests
type LunchHandler struct {
	lunchService *service.LunchService
}

// NewLunchHandler creates a new lunch handler
func NewLunchHandler(lunchService *service.LunchService) *LunchHandler {
	return &LunchHandler{lunchService: lunchService}
}

// GetMenu handles getting today's lunch menu
func (h *LunchHandler) GetMenu(c *gin.Context) {
	menu, err := h.lunchService.GetMenu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Lunch menu retrieved successfully", menu)
}

// SetMenu handles replacing today's lunch menu
func (h *LunchHandler) SetMenu(c *gin.Context) {
	var req struct {
		Details  string `json:"details" binding:"required"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	menu, err := h.lunchService.SetMenu(c.Request.Context(), req.Details, req.ImageURL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Lunch menu updated successfully", menu)
}

// ListRatings handles listing lunch ratings for a date
func (h *LunchHandler) ListRatings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, "Missing date, expected YYYY-MM-DD")
		return
	}

	ratings, err := h.lunchService.ListRatings(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Lunch ratings retrieved successfully", ratings)
}

// Rate handles recording a customer's lunch rating
func (h *LunchHandler) Rate(c *gin.Context) {
	var req struct {
		Date       string `json:"date" binding:"required"`
		CustomerID string `json:"customer_id" binding:"required"`
		Rating     int    `json:"rating" binding:"required"`
		Comments   string `json:"comments"`
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

	rating, err := h.lunchService.Rate(c.Request.Context(), &service.RateInput{
		Date:       req.Date,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comments:   req.Comments,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Lunch rating recorded successfully", rating)
}
