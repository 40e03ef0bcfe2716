package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// Repository is the persistence surface for products and movements.
// WithTx returns a repository bound to an open transaction so the
// service can group a mutation with the balance recalculation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductByTdsID(ctx context.Context, tdsID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, page pagination.Page) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	GetMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error)
	ListMovements(ctx context.Context, filter MovementFilter, page pagination.Page) ([]models.StockMovement, int64, error)
	ListProductMovements(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error)
	UpdateMovement(ctx context.Context, movement *models.StockMovement) error
	DeleteMovement(ctx context.Context, id uuid.UUID) error
	ApplyBalanceUpdates(ctx context.Context, updates []BalanceUpdate) error
}

type gormRepository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{conn: tx}
}

func (r *gormRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.conn.WithContext(ctx).Create(product).Error
}

func (r *gormRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.conn.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) GetProductByTdsID(ctx context.Context, tdsID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.conn.WithContext(ctx).First(&product, "tds_id = ?", tdsID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) ListProducts(ctx context.Context, filter ProductFilter, page pagination.Page) ([]models.Product, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.Product{})
	if filter.Chemical != "" {
		query = query.Where("chemical ILIKE ?", "%"+filter.Chemical+"%")
	}
	if filter.Brand != "" {
		query = query.Where("brand ILIKE ?", "%"+filter.Brand+"%")
	}
	if filter.UseCase != "" {
		query = query.Where("use_case = ?", filter.UseCase)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&products).Error
	return products, total, err
}

func (r *gormRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.conn.WithContext(ctx).Save(product).Error
}

func (r *gormRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (r *gormRepository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.conn.WithContext(ctx).Create(movement).Error
}

func (r *gormRepository) GetMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	var movement models.StockMovement
	if err := r.conn.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

func movementQuery(query *gorm.DB, filter MovementFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.BusinessModel != "" {
		query = query.Where("business_model = ?", filter.BusinessModel)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	return query
}

func (r *gormRepository) ListMovements(ctx context.Context, filter MovementFilter, page pagination.Page) ([]models.StockMovement, int64, error) {
	query := movementQuery(r.conn.WithContext(ctx).Model(&models.StockMovement{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []models.StockMovement
	err := query.
		Order("date DESC").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&movements).Error
	return movements, total, err
}

func (r *gormRepository) ListProductMovements(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := r.conn.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date ASC").
		Order("created_at ASC NULLS FIRST").
		Find(&movements).Error
	return movements, err
}

func (r *gormRepository) UpdateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.conn.WithContext(ctx).Save(movement).Error
}

func (r *gormRepository) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.StockMovement{}, "id = ?", id).Error
}

func (r *gormRepository) ApplyBalanceUpdates(ctx context.Context, updates []BalanceUpdate) error {
	for _, u := range updates {
		err := r.conn.WithContext(ctx).
			Model(&models.StockMovement{}).
			Where("id = ?", u.ID).
			Updates(map[string]any{
				"beginning_balance": u.BeginningBalance,
				"balance_kg":        u.BalanceKg,
			}).Error
		if err != nil {
			return fmt.Errorf("updating balance for movement %s: %w", u.ID, err)
		}
	}
	return nil
}
