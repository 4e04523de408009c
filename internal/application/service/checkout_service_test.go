package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

type checkoutFixture struct {
	svc          *CheckoutService
	checkoutRepo *fakeCheckoutRepo
	orderRepo    *fakeOrderRepo
	customerRepo *fakeCustomerRepo
	menuRepo     *fakeMenuRepo
	mailer       *fakeMailer
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		checkoutRepo: newFakeCheckoutRepo(),
		orderRepo:    newFakeOrderRepo(),
		customerRepo: newFakeCustomerRepo(),
		menuRepo:     newFakeMenuRepo(),
		mailer:       newFakeMailer(),
	}
	f.svc = NewCheckoutService(f.checkoutRepo, f.orderRepo, f.customerRepo, f.menuRepo, f.mailer)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func (f *checkoutFixture) addCustomer(t *testing.T, name, email string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{Name: name, Email: email}
	require.NoError(t, f.customerRepo.Create(context.Background(), customer))
	return customer
}

func (f *checkoutFixture) addMenuItem(t *testing.T, name string, price int64) *entity.MenuItem {
	t.Helper()
	item := &entity.MenuItem{Name: name, Price: price}
	require.NoError(t, f.menuRepo.Create(context.Background(), item))
	return item
}

func (f *checkoutFixture) addOrder(t *testing.T, customerID uuid.UUID, ts time.Time, payment int64, details ...entity.OrderDetail) *entity.Order {
	t.Helper()
	order := &entity.Order{
		CustomerID: customerID,
		Timestamp:  ts,
		Payment:    payment,
		Details:    details,
	}
	require.NoError(t, f.orderRepo.Create(context.Background(), order))
	return order
}

func (f *checkoutFixture) addJob(t *testing.T, name string) *entity.CheckoutJob {
	t.Helper()
	job, err := f.svc.CreateJob(context.Background(), name)
	require.NoError(t, err)
	return job
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompileAggregatesOrdersPerCustomer(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	coffee := f.addMenuItem(t, "Coffee", 2500)
	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")

	f.addOrder(t, customer.ID, day(2025, 3, 3).Add(9*time.Hour), 5000,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 2})
	f.addOrder(t, customer.ID, day(2025, 3, 5).Add(12*time.Hour), 3000,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})

	result, err := f.svc.Compile(ctx, &CompileInput{
		JobID: job.ID,
		Start: day(2025, 3, 3),
		End:   day(2025, 3, 7),
	})
	require.NoError(t, err)

	require.Len(t, result.Compiled, 1)
	receipt := result.Compiled[0]
	assert.Equal(t, int64(8000), receipt.Payment)
	assert.Equal(t, customer.ID, receipt.Customer.CustomerID)
	require.Len(t, receipt.Receipt, 1)
	assert.Equal(t, "Coffee", receipt.Receipt[0].Name)
	assert.Equal(t, 3, receipt.Receipt[0].Quantity)
	assert.Nil(t, receipt.Modifier)
	assert.False(t, receipt.EmailSent)
	assert.False(t, receipt.Paid)
}

func TestCompilePreservesFirstSeenLineOrder(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	coffee := f.addMenuItem(t, "Coffee", 2500)
	bagel := f.addMenuItem(t, "Bagel", 3000)
	customer := f.addCustomer(t, "Sam", "sam@example.com")
	job := f.addJob(t, "Week 10")

	f.addOrder(t, customer.ID, day(2025, 3, 3).Add(time.Hour), 5500,
		entity.OrderDetail{MenuID: bagel.ID, MenuLabel: bagel.Name, Quantity: 1},
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})
	f.addOrder(t, customer.ID, day(2025, 3, 4).Add(time.Hour), 3000,
		entity.OrderDetail{MenuID: bagel.ID, MenuLabel: bagel.Name, Quantity: 1})

	result, err := f.svc.Compile(ctx, &CompileInput{JobID: job.ID, Start: day(2025, 3, 3), End: day(2025, 3, 5)})
	require.NoError(t, err)

	require.Len(t, result.Compiled, 1)
	lines := result.Compiled[0].Receipt
	require.Len(t, lines, 2)
	assert.Equal(t, entity.ReceiptLine{Name: "Bagel", Quantity: 2}, lines[0])
	assert.Equal(t, entity.ReceiptLine{Name: "Coffee", Quantity: 1}, lines[1])
}

func TestCompileSkipsCustomersWithoutPositivePayment(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	coffee := f.addMenuItem(t, "Coffee", 2500)
	active := f.addCustomer(t, "Active", "active@example.com")
	idle := f.addCustomer(t, "Idle", "idle@example.com")
	comped := f.addCustomer(t, "Comped", "comped@example.com")
	job := f.addJob(t, "Week 10")

	f.addOrder(t, active.ID, day(2025, 3, 3), 2500,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})
	// Fully covered by funds: net zero, nothing to bill
	f.addOrder(t, comped.ID, day(2025, 3, 3), 0,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})

	result, err := f.svc.Compile(ctx, &CompileInput{JobID: job.ID, Start: day(2025, 3, 3), End: day(2025, 3, 3)})
	require.NoError(t, err)

	require.Len(t, result.Compiled, 1)
	assert.Equal(t, active.ID, result.Compiled[0].Customer.CustomerID)
	for _, receipt := range result.Compiled {
		assert.NotEqual(t, idle.ID, receipt.Customer.CustomerID)
		assert.NotEqual(t, comped.ID, receipt.Customer.CustomerID)
	}
}

func TestCompileWindowIsEndInclusive(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	coffee := f.addMenuItem(t, "Coffee", 2500)
	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")

	// Late on the end date: still inside the window
	f.addOrder(t, customer.ID, day(2025, 3, 7).Add(23*time.Hour+59*time.Minute), 2500,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})
	// Midnight the day after: outside
	f.addOrder(t, customer.ID, day(2025, 3, 8), 9999,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})

	result, err := f.svc.Compile(ctx, &CompileInput{JobID: job.ID, Start: day(2025, 3, 3), End: day(2025, 3, 7)})
	require.NoError(t, err)

	require.Len(t, result.Compiled, 1)
	assert.Equal(t, int64(2500), result.Compiled[0].Payment)
}

func TestCompileLabelsDeletedMenuItems(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")

	goneID := uuid.New()
	f.addOrder(t, customer.ID, day(2025, 3, 3), 4000,
		entity.OrderDetail{MenuID: goneID, MenuLabel: "Seasonal Latte", Quantity: 2})

	result, err := f.svc.Compile(ctx, &CompileInput{JobID: job.ID, Start: day(2025, 3, 3), End: day(2025, 3, 3)})
	require.NoError(t, err)

	require.Len(t, result.Compiled, 1)
	require.Len(t, result.Compiled[0].Receipt, 1)
	assert.Equal(t, DeletedItemLabel, result.Compiled[0].Receipt[0].Name)
	assert.Equal(t, 2, result.Compiled[0].Receipt[0].Quantity)
}

func TestCompileReplacesPreviousReceipts(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	coffee := f.addMenuItem(t, "Coffee", 2500)
	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")

	f.addOrder(t, customer.ID, day(2025, 3, 3), 2500,
		entity.OrderDetail{MenuID: coffee.ID, MenuLabel: coffee.Name, Quantity: 1})

	input := &CompileInput{JobID: job.ID, Start: day(2025, 3, 3), End: day(2025, 3, 7)}
	_, err := f.svc.Compile(ctx, input)
	require.NoError(t, err)
	_, err = f.svc.Compile(ctx, input)
	require.NoError(t, err)

	receipts, err := f.svc.ListReceipts(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, receipts, 1, "recompiling must not duplicate receipts")
}

func TestCompileRecordsLastCompInfo(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	job := f.addJob(t, "Week 10")

	result, err := f.svc.Compile(ctx, &CompileInput{JobID: job.ID, Start: day(2025, 3, 3), End: day(2025, 3, 7)})
	require.NoError(t, err)

	assert.Equal(t, day(2025, 3, 3), result.LastCompInfo.Start)
	assert.Equal(t, day(2025, 3, 7), result.LastCompInfo.End)
	assert.Equal(t, testNow, result.LastCompInfo.Timestamp)

	stored, err := f.svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastComp())
	assert.Equal(t, testNow, stored.LastComp().Timestamp)
}

func TestCompileRejectsInvertedWindow(t *testing.T) {
	f := newCheckoutFixture()
	job := f.addJob(t, "Week 10")

	_, err := f.svc.Compile(context.Background(), &CompileInput{
		JobID: job.ID,
		Start: day(2025, 3, 7),
		End:   day(2025, 3, 3),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCompileUnknownJob(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Compile(context.Background(), &CompileInput{
		JobID: uuid.New(),
		Start: day(2025, 3, 3),
		End:   day(2025, 3, 7),
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

// markCompiled stamps a job as having been compiled so merge preconditions pass
func (f *checkoutFixture) markCompiled(t *testing.T, jobID uuid.UUID) {
	t.Helper()
	require.NoError(t, f.checkoutRepo.SetLastComp(context.Background(), jobID, day(2025, 3, 3), day(2025, 3, 7), testNow))
}

func (f *checkoutFixture) addReceipt(t *testing.T, jobID uuid.UUID, customer *entity.Customer, payment int64, modifier *int64) *entity.CompiledReceipt {
	t.Helper()
	receipt := &entity.CompiledReceipt{
		JobID:    jobID,
		Customer: entity.SnapshotOf(customer),
		Receipt:  []entity.ReceiptLine{{Name: "Coffee", Quantity: 1}},
		Payment:  payment,
		Modifier: modifier,
	}
	require.NoError(t, f.checkoutRepo.CreateReceipt(context.Background(), receipt))
	return receipt
}

func TestMergeAddsBalanceAsModifier(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	source := f.addJob(t, "Week 9")
	dest := f.addJob(t, "Week 10")
	f.markCompiled(t, source.ID)

	f.addReceipt(t, source.ID, customer, 1500, nil)
	f.addReceipt(t, dest.ID, customer, 8000, nil)

	merged, err := f.svc.Merge(ctx, source.ID, dest.ID)
	require.NoError(t, err)

	require.Len(t, merged, 1)
	assert.Equal(t, int64(8000), merged[0].Payment, "merge must never touch payment")
	assert.Equal(t, int64(1500), merged[0].ModifierValue())
	assert.Equal(t, int64(9500), merged[0].Total())
}

func TestMergeAccumulatesAcrossRuns(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	source := f.addJob(t, "Week 9")
	dest := f.addJob(t, "Week 10")
	f.markCompiled(t, source.ID)

	negative := int64(-3500)
	f.addReceipt(t, source.ID, customer, 1500, &negative) // total -2000
	f.addReceipt(t, dest.ID, customer, 8000, nil)

	_, err := f.svc.Merge(ctx, source.ID, dest.ID)
	require.NoError(t, err)
	merged, err := f.svc.Merge(ctx, source.ID, dest.ID)
	require.NoError(t, err)

	require.Len(t, merged, 1)
	assert.Equal(t, int64(-4000), merged[0].ModifierValue(), "modifiers accumulate, never overwrite")
	assert.Equal(t, int64(4000), merged[0].Total())
}

func TestMergeOrderDoesNotMatter(t *testing.T) {
	ctx := context.Background()

	mergeBoth := func(aFirst bool) int64 {
		f := newCheckoutFixture()
		customer := f.addCustomer(t, "Jordan", "jordan@example.com")
		a := f.addJob(t, "Week 8")
		b := f.addJob(t, "Week 9")
		dest := f.addJob(t, "Week 10")
		f.markCompiled(t, a.ID)
		f.markCompiled(t, b.ID)

		f.addReceipt(t, a.ID, customer, 1500, nil)
		negative := int64(-500)
		f.addReceipt(t, b.ID, customer, 0, &negative)
		f.addReceipt(t, dest.ID, customer, 8000, nil)

		order := []uuid.UUID{a.ID, b.ID}
		if !aFirst {
			order = []uuid.UUID{b.ID, a.ID}
		}
		for _, src := range order {
			_, err := f.svc.Merge(ctx, src, dest.ID)
			require.NoError(t, err)
		}

		merged, err := f.checkoutRepo.ListReceipts(ctx, dest.ID)
		require.NoError(t, err)
		require.Len(t, merged, 1)
		return merged[0].Total()
	}

	assert.Equal(t, mergeBoth(true), mergeBoth(false))
	assert.Equal(t, int64(9000), mergeBoth(true))
}

func TestMergeCreatesReceiptForUnknownCustomer(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	source := f.addJob(t, "Week 9")
	dest := f.addJob(t, "Week 10")
	f.markCompiled(t, source.ID)

	f.addReceipt(t, source.ID, customer, 1500, nil)

	merged, err := f.svc.Merge(ctx, source.ID, dest.ID)
	require.NoError(t, err)

	require.Len(t, merged, 1)
	pushed := merged[0]
	assert.Equal(t, dest.ID, pushed.JobID)
	assert.Equal(t, int64(0), pushed.Payment)
	assert.Equal(t, int64(1500), pushed.ModifierValue())
	assert.Equal(t, customer.ID, pushed.Customer.CustomerID)
	require.Len(t, pushed.Receipt, 1)
	assert.Equal(t, "Coffee", pushed.Receipt[0].Name)
}

func TestMergeRequiresExistingCompiledSource(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	dest := f.addJob(t, "Week 10")

	_, err := f.svc.Merge(ctx, uuid.New(), dest.ID)
	assert.ErrorIs(t, err, apperror.ErrMergeJobMissing)

	source := f.addJob(t, "Week 9")
	_, err = f.svc.Merge(ctx, source.ID, dest.ID)
	assert.ErrorIs(t, err, apperror.ErrMergeNotCompiled)
}

func TestMergeRequiresExistingDestination(t *testing.T) {
	f := newCheckoutFixture()

	source := f.addJob(t, "Week 9")
	f.markCompiled(t, source.ID)

	_, err := f.svc.Merge(context.Background(), source.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestDispatchSendsAndMarksEmailSent(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")
	modifier := int64(-2000)
	receipt := f.addReceipt(t, job.ID, customer, 8000, &modifier)

	result, err := f.svc.Dispatch(ctx, &DispatchInput{
		JobID:    job.ID,
		Title:    "Café payment reminder",
		Header:   "Week 10 billing",
		Footer:   "Pay by Friday",
		Footnote: "Automated message",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failed)

	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.sent[0]
	assert.Equal(t, "jordan@example.com", sent.To)
	assert.Equal(t, "Café payment reminder", sent.Subject)
	assert.Equal(t, int64(8000), sent.Data.Payment)
	assert.Equal(t, int64(-2000), sent.Data.Modifier)
	assert.Equal(t, int64(6000), sent.Data.Total())

	stored, err := f.checkoutRepo.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailSent)
}

func TestDispatchContinuesPastFailures(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	broken := f.addCustomer(t, "Broken", "broken@example.com")
	fine := f.addCustomer(t, "Fine", "fine@example.com")
	job := f.addJob(t, "Week 10")
	brokenReceipt := f.addReceipt(t, job.ID, broken, 3000, nil)
	fineReceipt := f.addReceipt(t, job.ID, fine, 4000, nil)

	f.mailer.errFor["broken@example.com"] = errors.New("smtp: connection refused")

	result, err := f.svc.Dispatch(ctx, &DispatchInput{JobID: job.ID, Title: "Reminder"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, brokenReceipt.ID, result.Failed[0].ReceiptID)
	assert.Equal(t, "broken@example.com", result.Failed[0].Email)
	assert.Contains(t, result.Failed[0].Reason, "connection refused")

	storedBroken, _ := f.checkoutRepo.GetReceipt(ctx, brokenReceipt.ID)
	assert.False(t, storedBroken.EmailSent)
	storedFine, _ := f.checkoutRepo.GetReceipt(ctx, fineReceipt.ID)
	assert.True(t, storedFine.EmailSent)
}

func TestDispatchDoesNotClearEarlierDelivery(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")
	receipt := f.addReceipt(t, job.ID, customer, 3000, nil)
	require.NoError(t, f.checkoutRepo.SetReceiptEmailSent(ctx, receipt.ID, true))

	f.mailer.rejectFor["jordan@example.com"] = true

	result, err := f.svc.Dispatch(ctx, &DispatchInput{JobID: job.ID, Title: "Reminder"})
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)

	stored, _ := f.checkoutRepo.GetReceipt(ctx, receipt.ID)
	assert.True(t, stored.EmailSent, "a failed resend must not clear an earlier delivery")
}

func TestAddAndDeleteReceipt(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")

	modifier := int64(500)
	receipt, err := f.svc.AddReceipt(ctx, &AddReceiptInput{
		JobID:      job.ID,
		CustomerID: customer.ID,
		Payment:    2000,
		Modifier:   &modifier,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), receipt.Total())

	require.NoError(t, f.svc.SetReceiptPaid(ctx, receipt.ID, true))
	stored, _ := f.checkoutRepo.GetReceipt(ctx, receipt.ID)
	assert.True(t, stored.Paid)

	require.NoError(t, f.svc.DeleteReceipt(ctx, receipt.ID))
	gone, _ := f.checkoutRepo.GetReceipt(ctx, receipt.ID)
	assert.Nil(t, gone)
}

func TestDeleteJobRemovesReceipts(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	customer := f.addCustomer(t, "Jordan", "jordan@example.com")
	job := f.addJob(t, "Week 10")
	f.addReceipt(t, job.ID, customer, 2000, nil)

	require.NoError(t, f.svc.DeleteJob(ctx, job.ID))

	receipts, err := f.checkoutRepo.ListReceipts(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}
