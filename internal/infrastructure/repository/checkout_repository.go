package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	domainRepo "github.com/spadcafe/cafe-api/internal/domain/repository"
	"gorm.io/gorm"
)

type checkoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository creates a new checkout repository
func NewCheckoutRepository(db *gorm.DB) domainRepo.CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) CreateJob(ctx context.Context, job *entity.CheckoutJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *checkoutRepository) GetJob(ctx context.Context, id uuid.UUID) (*entity.CheckoutJob, error) {
	var job entity.CheckoutJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &job, err
}

func (r *checkoutRepository) ListJobs(ctx context.Context) ([]entity.CheckoutJob, error) {
	var jobs []entity.CheckoutJob
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *checkoutRepository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&entity.CompiledReceipt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.CheckoutJob{}, "id = ?", id).Error
	})
}

func (r *checkoutRepository) SetProcessed(ctx context.Context, id uuid.UUID, processed bool) error {
	result := r.db.WithContext(ctx).Model(&entity.CheckoutJob{}).
		Where("id = ?", id).
		Update("processed", processed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *checkoutRepository) SetLastComp(ctx context.Context, id uuid.UUID, start, end, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&entity.CheckoutJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_comp_start": start,
			"last_comp_end":   end,
			"last_comp_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *checkoutRepository) CreateReceipt(ctx context.Context, receipt *entity.CompiledReceipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *checkoutRepository) CreateReceipts(ctx context.Context, receipts []entity.CompiledReceipt) error {
	if len(receipts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&receipts).Error
}

func (r *checkoutRepository) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.CompiledReceipt, error) {
	var receipt entity.CompiledReceipt
	err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *checkoutRepository) ListReceipts(ctx context.Context, jobID uuid.UUID) ([]entity.CompiledReceipt, error) {
	var receipts []entity.CompiledReceipt
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *checkoutRepository) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.CompiledReceipt{}, "id = ?", id).Error
}

func (r *checkoutRepository) DeleteReceiptsByJob(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&entity.CompiledReceipt{}).Error
}

func (r *checkoutRepository) SetReceiptModifier(ctx context.Context, id uuid.UUID, modifier int64) error {
	return r.updateReceiptColumn(ctx, id, "modifier", modifier)
}

func (r *checkoutRepository) SetReceiptEmailSent(ctx context.Context, id uuid.UUID, sent bool) error {
	return r.updateReceiptColumn(ctx, id, "email_sent", sent)
}

func (r *checkoutRepository) SetReceiptPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	return r.updateReceiptColumn(ctx, id, "paid", paid)
}

func (r *checkoutRepository) updateReceiptColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.CompiledReceipt{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *checkoutRepository) Transaction(ctx context.Context, fn func(repo domainRepo.CheckoutRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&checkoutRepository{db: tx})
	})
}
