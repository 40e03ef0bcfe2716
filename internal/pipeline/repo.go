package pipeline

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, pipeline *models.SalesPipeline) error
	Get(ctx context.Context, id uuid.UUID) (*models.SalesPipeline, error)
	List(ctx context.Context, filter PipelineFilter, page pagination.Page) ([]models.SalesPipeline, int64, error)
	Update(ctx context.Context, pipeline *models.SalesPipeline) error
	Delete(ctx context.Context, id uuid.UUID) error
	StageSummaries(ctx context.Context) ([]StageSummary, error)
}

type gormRepository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) Create(ctx context.Context, pipeline *models.SalesPipeline) error {
	return r.conn.WithContext(ctx).Create(pipeline).Error
}

func (r *gormRepository) Get(ctx context.Context, id uuid.UUID) (*models.SalesPipeline, error) {
	var pipeline models.SalesPipeline
	if err := r.conn.WithContext(ctx).First(&pipeline, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pipeline, nil
}

func (r *gormRepository) List(ctx context.Context, filter PipelineFilter, page pagination.Page) ([]models.SalesPipeline, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.SalesPipeline{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pipelines []models.SalesPipeline
	err := query.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&pipelines).Error
	return pipelines, total, err
}

func (r *gormRepository) Update(ctx context.Context, pipeline *models.SalesPipeline) error {
	return r.conn.WithContext(ctx).Save(pipeline).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.SalesPipeline{}, "id = ?", id).Error
}

func (r *gormRepository) StageSummaries(ctx context.Context) ([]StageSummary, error) {
	var summaries []StageSummary
	err := r.conn.WithContext(ctx).
		Model(&models.SalesPipeline{}).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("stage").
		Scan(&summaries).Error
	return summaries, err
}
