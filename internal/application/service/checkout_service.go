package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/internal/domain/repository"
	"github.com/spadcafe/cafe-api/pkg/apperror"
	"github.com/spadcafe/cafe-api/pkg/email"
)

// ReminderMailer sends one payment reminder per recipient
type ReminderMailer interface {
	SendPaymentReminder(to, subject string, data *email.ReminderData) (*email.SendResult, error)
}

// DeletedItemLabel replaces the menu name on receipt lines whose menu
// item no longer exists at compile time.
const DeletedItemLabel = "[Deleted Item]"

// CheckoutService handles checkout jobs and the compile/merge/dispatch
// pipeline that turns the order log into payable receipts.
type CheckoutService struct {
	checkoutRepo repository.CheckoutRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	menuRepo     repository.MenuRepository
	mailer       ReminderMailer
	now          func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	checkoutRepo repository.CheckoutRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	menuRepo repository.MenuRepository,
	mailer ReminderMailer,
) *CheckoutService {
	return &CheckoutService{
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		menuRepo:     menuRepo,
		mailer:       mailer,
		now:          time.Now,
	}
}

// CreateJob creates a new checkout job
func (s *CheckoutService) CreateJob(ctx context.Context, name string) (*entity.CheckoutJob, error) {
	job := &entity.CheckoutJob{Name: name}
	if err := s.checkoutRepo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob retrieves a checkout job by ID
func (s *CheckoutService) GetJob(ctx context.Context, id uuid.UUID) (*entity.CheckoutJob, error) {
	job, err := s.checkoutRepo.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Checkout job")
	}
	return job, nil
}

// ListJobs lists checkout jobs, newest first
func (s *CheckoutService) ListJobs(ctx context.Context) ([]entity.CheckoutJob, error) {
	return s.checkoutRepo.ListJobs(ctx)
}

// DeleteJob removes a job and its compiled receipts
func (s *CheckoutService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetJob(ctx, id); err != nil {
		return err
	}
	return s.checkoutRepo.DeleteJob(ctx, id)
}

// SetProcessed toggles a job's processed flag
func (s *CheckoutService) SetProcessed(ctx context.Context, id uuid.UUID, processed bool) error {
	if _, err := s.GetJob(ctx, id); err != nil {
		return err
	}
	return s.checkoutRepo.SetProcessed(ctx, id, processed)
}

// ListReceipts returns a job's compiled receipts
func (s *CheckoutService) ListReceipts(ctx context.Context, jobID uuid.UUID) ([]entity.CompiledReceipt, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.checkoutRepo.ListReceipts(ctx, jobID)
}

// AddReceiptInput represents a manually added receipt
type AddReceiptInput struct {
	JobID      uuid.UUID
	CustomerID uuid.UUID
	Payment    int64
	Modifier   *int64
}

// AddReceipt manually adds a receipt to a job, outside compilation.
// Used for one-off corrections from the dashboard.
func (s *CheckoutService) AddReceipt(ctx context.Context, input *AddReceiptInput) (*entity.CompiledReceipt, error) {
	if _, err := s.GetJob(ctx, input.JobID); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	receipt := &entity.CompiledReceipt{
		JobID:    input.JobID,
		Customer: entity.SnapshotOf(customer),
		Receipt:  []entity.ReceiptLine{},
		Payment:  input.Payment,
		Modifier: input.Modifier,
	}
	if err := s.checkoutRepo.CreateReceipt(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// DeleteReceipt removes a single receipt from a job
func (s *CheckoutService) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.checkoutRepo.GetReceipt(ctx, id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}
	return s.checkoutRepo.DeleteReceipt(ctx, id)
}

// SetReceiptPaid toggles a receipt's paid flag
func (s *CheckoutService) SetReceiptPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	receipt, err := s.checkoutRepo.GetReceipt(ctx, id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}
	return s.checkoutRepo.SetReceiptPaid(ctx, id, paid)
}

// CompileInput represents the compile parameters. Start and End are
// caller-supplied calendar days; the compile window runs from the
// start of Start through the end of End.
type CompileInput struct {
	JobID uuid.UUID
	Start time.Time
	End   time.Time
}

// CompileResult is the outcome of a compile run
type CompileResult struct {
	Compiled     []entity.CompiledReceipt `json:"compiled"`
	LastCompInfo entity.LastCompInfo      `json:"last_comp_info"`
}

// Compile aggregates the order log over the window into one receipt per
// customer with a positive net payment, replacing any previous
// compilation of the job wholesale.
func (s *CheckoutService) Compile(ctx context.Context, input *CompileInput) (*CompileResult, error) {
	job, err := s.GetJob(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	// Half-open window so the end date is fully inclusive regardless
	// of its time of day.
	start := startOfDay(input.Start)
	end := startOfDay(input.End).AddDate(0, 0, 1)
	if end.Before(start) {
		return nil, apperror.NewBadRequestError("End date must not precede start date")
	}

	menu, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	menuNames := make(map[uuid.UUID]string, len(menu))
	for _, item := range menu {
		menuNames[item.ID] = item.Name
	}

	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// One range query over the whole window; group in memory per
	// customer instead of issuing a query per customer.
	orders, err := s.orderRepo.ListByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	ordersByCustomer := make(map[uuid.UUID][]entity.Order, len(customers))
	for _, order := range orders {
		ordersByCustomer[order.CustomerID] = append(ordersByCustomer[order.CustomerID], order)
	}

	compiled := make([]entity.CompiledReceipt, 0, len(customers))
	for i := range customers {
		customer := &customers[i]
		match := ordersByCustomer[customer.ID]
		if len(match) == 0 {
			continue
		}

		var totalPayment int64
		for _, order := range match {
			totalPayment += order.Payment
		}
		if totalPayment <= 0 {
			continue
		}

		// Aggregate quantities per menu item, preserving first-seen
		// order for the receipt lines.
		countByMenuID := make(map[uuid.UUID]int)
		var menuOrder []uuid.UUID
		for _, order := range match {
			for _, detail := range order.Details {
				if _, seen := countByMenuID[detail.MenuID]; !seen {
					menuOrder = append(menuOrder, detail.MenuID)
				}
				countByMenuID[detail.MenuID] += detail.Quantity
			}
		}

		receipt := make([]entity.ReceiptLine, 0, len(menuOrder))
		for _, menuID := range menuOrder {
			name, ok := menuNames[menuID]
			if !ok {
				name = DeletedItemLabel
			}
			receipt = append(receipt, entity.ReceiptLine{
				Name:     name,
				Quantity: countByMenuID[menuID],
			})
		}

		compiled = append(compiled, entity.CompiledReceipt{
			JobID:    job.ID,
			Customer: entity.SnapshotOf(customer),
			Receipt:  receipt,
			Payment:  totalPayment,
		})
	}

	lastComp := entity.LastCompInfo{
		Start:     input.Start,
		End:       input.End,
		Timestamp: s.now(),
	}

	// Wipe-and-regenerate inside one transaction so concurrent readers
	// never observe a half-compiled job.
	err = s.checkoutRepo.Transaction(ctx, func(repo repository.CheckoutRepository) error {
		if err := repo.DeleteReceiptsByJob(ctx, job.ID); err != nil {
			return err
		}
		if err := repo.CreateReceipts(ctx, compiled); err != nil {
			return err
		}
		return repo.SetLastComp(ctx, job.ID, lastComp.Start, lastComp.End, lastComp.Timestamp)
	})
	if err != nil {
		return nil, err
	}

	return &CompileResult{Compiled: compiled, LastCompInfo: lastComp}, nil
}

// Merge folds the source job's compiled receipts into the destination
// job's as additive modifiers, creating destination receipts for
// customers the destination does not know yet. Receipts are merged
// regardless of their paid flag.
func (s *CheckoutService) Merge(ctx context.Context, mergeID, toID uuid.UUID) ([]entity.CompiledReceipt, error) {
	mergeJob, err := s.checkoutRepo.GetJob(ctx, mergeID)
	if err != nil {
		return nil, err
	}
	if mergeJob == nil {
		return nil, apperror.ErrMergeJobMissing
	}
	if mergeJob.LastComp() == nil {
		return nil, apperror.ErrMergeNotCompiled
	}

	if _, err := s.GetJob(ctx, toID); err != nil {
		return nil, err
	}

	mergeList, err := s.checkoutRepo.ListReceipts(ctx, mergeID)
	if err != nil {
		return nil, err
	}
	toList, err := s.checkoutRepo.ListReceipts(ctx, toID)
	if err != nil {
		return nil, err
	}

	err = s.checkoutRepo.Transaction(ctx, func(repo repository.CheckoutRepository) error {
		for _, mergeItem := range mergeList {
			totalPayment := mergeItem.Total()

			matched := false
			for i := range toList {
				if toList[i].Customer.CustomerID != mergeItem.Customer.CustomerID {
					continue
				}
				// Modifiers accumulate across merges; never overwrite
				newModifier := toList[i].ModifierValue() + totalPayment
				if err := repo.SetReceiptModifier(ctx, toList[i].ID, newModifier); err != nil {
					return err
				}
				toList[i].Modifier = &newModifier
				matched = true
				break
			}
			if matched {
				continue
			}

			// The customer has no receipt in the destination: carry the
			// source's line items over so the entry stays readable, with
			// the whole balance in the modifier.
			modifier := totalPayment
			pushed := entity.CompiledReceipt{
				JobID:     toID,
				Customer:  mergeItem.Customer,
				Receipt:   mergeItem.Receipt,
				Payment:   0,
				Modifier:  &modifier,
				EmailSent: mergeItem.EmailSent,
				Paid:      mergeItem.Paid,
			}
			if err := repo.CreateReceipt(ctx, &pushed); err != nil {
				return err
			}
			toList = append(toList, pushed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toList, nil
}

// DispatchInput represents the email template pieces for a dispatch run
type DispatchInput struct {
	JobID    uuid.UUID
	Title    string
	Header   string
	Footer   string
	Footnote string
}

// DispatchFailure identifies a recipient whose reminder was not delivered
type DispatchFailure struct {
	ReceiptID uuid.UUID `json:"receipt_id"`
	Customer  string    `json:"customer"`
	Email     string    `json:"email"`
	Reason    string    `json:"reason"`
}

// DispatchResult is the outcome of a dispatch run
type DispatchResult struct {
	List   []entity.CompiledReceipt `json:"list"`
	Failed []DispatchFailure        `json:"failed,omitempty"`
}

// Dispatch sends one payment-reminder email per compiled receipt and
// marks each receipt emailSent on accepted delivery. A failed send is
// recorded and skipped; remaining recipients still get their reminder.
func (s *CheckoutService) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchResult, error) {
	if _, err := s.GetJob(ctx, input.JobID); err != nil {
		return nil, err
	}

	list, err := s.checkoutRepo.ListReceipts(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{List: list}
	for i := range list {
		item := &list[i]

		lines := make([]email.ReminderLine, len(item.Receipt))
		for j, line := range item.Receipt {
			lines[j] = email.ReminderLine{Name: line.Name, Quantity: line.Quantity}
		}

		res, sendErr := s.mailer.SendPaymentReminder(item.Customer.Email, input.Title, &email.ReminderData{
			Header:       input.Header,
			Footer:       input.Footer,
			Footnote:     input.Footnote,
			CustomerName: item.Customer.Name,
			Lines:        lines,
			Payment:      item.Payment,
			Modifier:     item.ModifierValue(),
		})

		success := sendErr == nil && res.Sent()
		if success {
			// emailSent only ever moves false -> true; a failed resend
			// must not clear an earlier delivery.
			if err := s.checkoutRepo.SetReceiptEmailSent(ctx, item.ID, true); err != nil {
				return nil, err
			}
			item.EmailSent = true
		}

		if !success {
			reason := "no recipient accepted"
			if sendErr != nil {
				reason = sendErr.Error()
			}
			result.Failed = append(result.Failed, DispatchFailure{
				ReceiptID: item.ID,
				Customer:  item.Customer.Name,
				Email:     item.Customer.Email,
				Reason:    reason,
			})
		}
	}

	return result, nil
}

// startOfDay truncates a time to midnight in its own location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
