package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/internal/domain/repository"
	"github.com/spadcafe/cafe-api/pkg/email"
	"github.com/spadcafe/cafe-api/pkg/pagination"
)

// In-memory repository fakes shared across the service tests.

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	clone := *customer
	return &clone, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	if search != "" {
		filtered := all[:0]
		for _, c := range all {
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
				filtered = append(filtered, c)
			}
		}
		all = filtered
	}
	return all, int64(len(all)), nil
}

func (r *fakeCustomerRepo) ListAll(ctx context.Context) ([]entity.Customer, error) {
	out := make([]entity.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		out = append(out, *customer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCustomerRepo) AddFunds(ctx context.Context, id uuid.UUID, delta int64) error {
	customer, ok := r.customers[id]
	if !ok {
		return nil
	}
	customer.Funds += delta
	return nil
}

type fakeMenuRepo struct {
	items map[uuid.UUID]*entity.MenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[uuid.UUID]*entity.MenuItem)}
}

func (r *fakeMenuRepo) Create(ctx context.Context, item *entity.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeMenuRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	clone := *item
	return &clone, nil
}

func (r *fakeMenuRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error) {
	out := make([]entity.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) Update(ctx context.Context, item *entity.MenuItem) error {
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeMenuRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeMenuRepo) List(ctx context.Context) ([]entity.MenuItem, error) {
	out := make([]entity.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out, nil
}

type fakeOrderRepo struct {
	orders []*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	clone.Details = append([]entity.OrderDetail(nil), order.Details...)
	r.orders = append(r.orders, &clone)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			clone := *order
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, order := range r.orders {
		if order.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeOrderRepo) SetDone(ctx context.Context, id uuid.UUID, done bool) error {
	for _, order := range r.orders {
		if order.ID == id {
			order.Done = done
		}
	}
	return nil
}

func (r *fakeOrderRepo) ListByRange(ctx context.Context, start, end time.Time) ([]entity.Order, error) {
	var out []entity.Order
	for _, order := range r.orders {
		if !order.Timestamp.Before(start) && order.Timestamp.Before(end) {
			out = append(out, *order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type fakeCheckoutRepo struct {
	jobs     map[uuid.UUID]*entity.CheckoutJob
	receipts []*entity.CompiledReceipt
}

func newFakeCheckoutRepo() *fakeCheckoutRepo {
	return &fakeCheckoutRepo{jobs: make(map[uuid.UUID]*entity.CheckoutJob)}
}

func (r *fakeCheckoutRepo) CreateJob(ctx context.Context, job *entity.CheckoutJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *fakeCheckoutRepo) GetJob(ctx context.Context, id uuid.UUID) (*entity.CheckoutJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	clone := *job
	return &clone, nil
}

func (r *fakeCheckoutRepo) ListJobs(ctx context.Context) ([]entity.CheckoutJob, error) {
	out := make([]entity.CheckoutJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (r *fakeCheckoutRepo) DeleteJob(ctx context.Context, id uuid.UUID) error {
	delete(r.jobs, id)
	return r.DeleteReceiptsByJob(ctx, id)
}

func (r *fakeCheckoutRepo) SetProcessed(ctx context.Context, id uuid.UUID, processed bool) error {
	if job, ok := r.jobs[id]; ok {
		job.Processed = processed
	}
	return nil
}

func (r *fakeCheckoutRepo) SetLastComp(ctx context.Context, id uuid.UUID, start, end, at time.Time) error {
	job, ok := r.jobs[id]
	if !ok {
		return nil
	}
	job.LastCompStart = &start
	job.LastCompEnd = &end
	job.LastCompAt = &at
	return nil
}

func (r *fakeCheckoutRepo) CreateReceipt(ctx context.Context, receipt *entity.CompiledReceipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	clone := *receipt
	clone.Receipt = append([]entity.ReceiptLine(nil), receipt.Receipt...)
	r.receipts = append(r.receipts, &clone)
	return nil
}

func (r *fakeCheckoutRepo) CreateReceipts(ctx context.Context, receipts []entity.CompiledReceipt) error {
	for i := range receipts {
		if err := r.CreateReceipt(ctx, &receipts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeCheckoutRepo) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.CompiledReceipt, error) {
	for _, receipt := range r.receipts {
		if receipt.ID == id {
			clone := *receipt
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCheckoutRepo) ListReceipts(ctx context.Context, jobID uuid.UUID) ([]entity.CompiledReceipt, error) {
	var out []entity.CompiledReceipt
	for _, receipt := range r.receipts {
		if receipt.JobID == jobID {
			out = append(out, *receipt)
		}
	}
	return out, nil
}

func (r *fakeCheckoutRepo) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	for i, receipt := range r.receipts {
		if receipt.ID == id {
			r.receipts = append(r.receipts[:i], r.receipts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCheckoutRepo) DeleteReceiptsByJob(ctx context.Context, jobID uuid.UUID) error {
	kept := r.receipts[:0]
	for _, receipt := range r.receipts {
		if receipt.JobID != jobID {
			kept = append(kept, receipt)
		}
	}
	r.receipts = kept
	return nil
}

func (r *fakeCheckoutRepo) SetReceiptModifier(ctx context.Context, id uuid.UUID, modifier int64) error {
	for _, receipt := range r.receipts {
		if receipt.ID == id {
			value := modifier
			receipt.Modifier = &value
		}
	}
	return nil
}

func (r *fakeCheckoutRepo) SetReceiptEmailSent(ctx context.Context, id uuid.UUID, sent bool) error {
	for _, receipt := range r.receipts {
		if receipt.ID == id {
			receipt.EmailSent = sent
		}
	}
	return nil
}

func (r *fakeCheckoutRepo) SetReceiptPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	for _, receipt := range r.receipts {
		if receipt.ID == id {
			receipt.Paid = paid
		}
	}
	return nil
}

func (r *fakeCheckoutRepo) Transaction(ctx context.Context, fn func(repo repository.CheckoutRepository) error) error {
	return fn(r)
}

type sentReminder struct {
	To      string
	Subject string
	Data    email.ReminderData
}

// fakeMailer records reminders and can simulate per-recipient failures
type fakeMailer struct {
	sent      []sentReminder
	errFor    map[string]error
	rejectFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		errFor:    make(map[string]error),
		rejectFor: make(map[string]bool),
	}
}

func (m *fakeMailer) SendPaymentReminder(to, subject string, data *email.ReminderData) (*email.SendResult, error) {
	if err := m.errFor[to]; err != nil {
		return nil, err
	}
	if m.rejectFor[to] {
		return &email.SendResult{Rejected: []string{to}}, nil
	}
	m.sent = append(m.sent, sentReminder{To: to, Subject: subject, Data: *data})
	return &email.SendResult{Accepted: []string{to}}, nil
}
