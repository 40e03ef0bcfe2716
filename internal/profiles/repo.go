package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

type Repository interface {
	Enqueue(ctx context.Context, customerID uuid.UUID) (*models.ProfileUpdateJob, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProfileUpdateJob, error)
	List(ctx context.Context, status *enums.JobStatus, page pagination.Page) ([]models.ProfileUpdateJob, int64, error)
	ClaimNextTx(tx *gorm.DB) (*models.ProfileUpdateJob, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, jobErr error, maxAttempts int) error
}

type gormRepository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &gormRepository{conn: conn}
}

// Enqueue adds a refresh job unless one is already waiting for the same
// customer.
func (r *gormRepository) Enqueue(ctx context.Context, customerID uuid.UUID) (*models.ProfileUpdateJob, error) {
	var existing models.ProfileUpdateJob
	err := r.conn.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, enums.JobQueued).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	job := &models.ProfileUpdateJob{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.JobQueued,
	}
	if err := r.conn.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *gormRepository) Get(ctx context.Context, id uuid.UUID) (*models.ProfileUpdateJob, error) {
	var job models.ProfileUpdateJob
	if err := r.conn.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *gormRepository) List(ctx context.Context, status *enums.JobStatus, page pagination.Page) ([]models.ProfileUpdateJob, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.ProfileUpdateJob{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.ProfileUpdateJob
	err := query.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&jobs).Error
	return jobs, total, err
}

// ClaimNextTx picks the highest-priority runnable job and flips it to
// processing. SKIP LOCKED keeps concurrent workers off the same row.
func (r *gormRepository) ClaimNextTx(tx *gorm.DB) (*models.ProfileUpdateJob, error) {
	var job models.ProfileUpdateJob
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", enums.JobQueued).
		Where("run_after IS NULL OR run_after <= ?", time.Now()).
		Order("priority DESC, created_at ASC").
		First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	job.Status = enums.JobProcessing
	job.Attempts++
	job.ClaimedAt = &now
	if err := tx.Model(&models.ProfileUpdateJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{
			"status":     enums.JobProcessing,
			"attempts":   job.Attempts,
			"claimed_at": now,
		}).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *gormRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Model(&models.ProfileUpdateJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.JobDone,
			"completed_at": time.Now(),
			"last_error":   nil,
		}).Error
}

// MarkFailed requeues the job until it runs out of attempts, then
// parks it as failed with the last error attached.
func (r *gormRepository) MarkFailed(ctx context.Context, id uuid.UUID, jobErr error, maxAttempts int) error {
	var job models.ProfileUpdateJob
	if err := r.conn.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return err
	}

	status := enums.JobQueued
	updates := map[string]any{
		"last_error": jobErr.Error(),
	}
	if job.Attempts >= maxAttempts {
		status = enums.JobFailed
		updates["completed_at"] = time.Now()
	} else {
		// Requeued jobs wait a minute per attempt before the next claim.
		updates["run_after"] = time.Now().Add(time.Duration(job.Attempts) * time.Minute)
	}
	updates["status"] = status

	return r.conn.WithContext(ctx).Model(&models.ProfileUpdateJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}
