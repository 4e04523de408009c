package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
)

// CheckoutRepository defines the interface for checkout jobs and their
// compiled receipts.
type CheckoutRepository interface {
	CreateJob(ctx context.Context, job *entity.CheckoutJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*entity.CheckoutJob, error)
	ListJobs(ctx context.Context) ([]entity.CheckoutJob, error)
	// DeleteJob removes a job and all of its compiled receipts
	DeleteJob(ctx context.Context, id uuid.UUID) error
	SetProcessed(ctx context.Context, id uuid.UUID, processed bool) error
	// SetLastComp records the window and time of the most recent compile run
	SetLastComp(ctx context.Context, id uuid.UUID, start, end, at time.Time) error

	CreateReceipt(ctx context.Context, receipt *entity.CompiledReceipt) error
	CreateReceipts(ctx context.Context, receipts []entity.CompiledReceipt) error
	GetReceipt(ctx context.Context, id uuid.UUID) (*entity.CompiledReceipt, error)
	// ListReceipts returns a job's compiled receipts in creation order
	ListReceipts(ctx context.Context, jobID uuid.UUID) ([]entity.CompiledReceipt, error)
	DeleteReceipt(ctx context.Context, id uuid.UUID) error
	// DeleteReceiptsByJob wipes every compiled receipt under a job
	DeleteReceiptsByJob(ctx context.Context, jobID uuid.UUID) error
	SetReceiptModifier(ctx context.Context, id uuid.UUID, modifier int64) error
	SetReceiptEmailSent(ctx context.Context, id uuid.UUID, sent bool) error
	SetReceiptPaid(ctx context.Context, id uuid.UUID, paid bool) error

	// Transaction runs fn against a repository bound to a single storage
	// transaction, so multi-receipt rewrites appear atomic to readers.
	Transaction(ctx context.Context, fn func(repo CheckoutRepository) error) error
}
