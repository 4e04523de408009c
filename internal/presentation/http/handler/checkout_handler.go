package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/application/service"
	"github.com/spadcafe/cafe-api/internal/presentation/http/dto/response"
	"github.com/spadcafe/cafe-api/pkg/email"
)

// CheckoutHandler handles checkout job HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// ListJobs handles listing all checkout jobs
func (h *CheckoutHandler) ListJobs(c *gin.Context) {
	jobs, err := h.checkoutService.ListJobs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout jobs retrieved successfully", jobs)
}

// CreateJob handles creating a checkout job
func (h *CheckoutHandler) CreateJob(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.checkoutService.CreateJob(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout job created successfully", job)
}

// GetJob handles getting a single checkout job
func (h *CheckoutHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.checkoutService.GetJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout job retrieved successfully", job)
}

// DeleteJob handles deleting a checkout job and its receipts
func (h *CheckoutHandler) DeleteJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	if err := h.checkoutService.DeleteJob(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetProcessed handles toggling a job's processed flag
func (h *CheckoutHandler) SetProcessed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		Processed *bool `json:"processed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.checkoutService.SetProcessed(c.Request.Context(), id, *req.Processed); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout job updated successfully", nil)
}

// Compile handles compiling the order log into per-customer receipts
func (h *CheckoutHandler) Compile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		Start string `json:"start" binding:"required"`
		End   string `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", req.Start, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.End, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		response.BadRequest(c, "End date must not be before start date")
		return
	}

	result, err := h.checkoutService.Compile(c.Request.Context(), &service.CompileInput{
		JobID: id,
		Start: start,
		End:   end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout compiled successfully", result)
}

// Merge handles folding another job's receipt balances into this job
func (h *CheckoutHandler) Merge(c *gin.Context) {
	toID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		MergeJobID string `json:"merge_job_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	mergeID, err := uuid.Parse(req.MergeJobID)
	if err != nil {
		response.BadRequest(c, "Invalid merge job ID")
		return
	}

	receipts, err := h.checkoutService.Merge(c.Request.Context(), mergeID, toID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout jobs merged successfully", receipts)
}

// Dispatch handles sending payment-reminder emails for a job
func (h *CheckoutHandler) Dispatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required"`
		Header   string `json:"header"`
		Footer   string `json:"footer"`
		Footnote string `json:"footnote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Dispatch(c.Request.Context(), &service.DispatchInput{
		JobID:    id,
		Title:    req.Title,
		Header:   req.Header,
		Footer:   req.Footer,
		Footnote: req.Footnote,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment reminders dispatched", result)
}

// EmailDefaults handles returning the stock reminder template pieces
func (h *CheckoutHandler) EmailDefaults(c *gin.Context) {
	response.OK(c, "Email defaults retrieved successfully", gin.H{
		"header":   email.DefaultHeader,
		"footer":   email.DefaultFooter,
		"footnote": email.DefaultFootnote,
	})
}

// ListReceipts handles listing a job's compiled receipts
func (h *CheckoutHandler) ListReceipts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	receipts, err := h.checkoutService.ListReceipts(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}

// AddReceipt handles manually adding a receipt to a job
func (h *CheckoutHandler) AddReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		CustomerID string `json:"customer_id" binding:"required"`
		Payment    int64  `json:"payment"`
		Modifier   *int64 `json:"modifier"`
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

	receipt, err := h.checkoutService.AddReceipt(c.Request.Context(), &service.AddReceiptInput{
		JobID:      id,
		CustomerID: customerID,
		Payment:    req.Payment,
		Modifier:   req.Modifier,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt added successfully", receipt)
}

// DeleteReceipt handles removing a single receipt
func (h *CheckoutHandler) DeleteReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("receiptId"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.checkoutService.DeleteReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetReceiptPaid handles toggling a receipt's paid flag
func (h *CheckoutHandler) SetReceiptPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("receiptId"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req struct {
		Paid *bool `json:"paid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.checkoutService.SetReceiptPaid(c.Request.Context(), id, *req.Paid); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt updated successfully", nil)
}
