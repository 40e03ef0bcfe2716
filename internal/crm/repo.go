package crm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

type Repository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, search string, page pagination.Page) ([]models.Customer, int64, error)
	SearchCustomersByName(ctx context.Context, name string, limit int) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListDisplayIDs(ctx context.Context, prefix string) ([]string, error)
	CustomersWithoutStage(ctx context.Context) ([]models.Customer, error)

	CreateInteraction(ctx context.Context, interaction *models.Interaction) error
	GetInteraction(ctx context.Context, id uuid.UUID) (*models.Interaction, error)
	ListInteractions(ctx context.Context, customerID uuid.UUID, filter InteractionFilter, page pagination.Page) ([]models.Interaction, int64, error)
	UpdateInteraction(ctx context.Context, interaction *models.Interaction) error
	DeleteInteraction(ctx context.Context, id uuid.UUID) error

	CountCustomers(ctx context.Context) (int64, error)
	CountInteractions(ctx context.Context, filter InteractionFilter) (int64, error)
	CountCustomersWithInteractions(ctx context.Context, filter InteractionFilter) (int64, error)
	StageDistribution(ctx context.Context) (map[string]int64, error)
}

type gormRepository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.conn.WithContext(ctx).Create(customer).Error
}

func (r *gormRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.conn.WithContext(ctx).First(&customer, "customer_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *gormRepository) ListCustomers(ctx context.Context, search string, page pagination.Page) ([]models.Customer, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		query = query.Where("customer_name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := query.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&customers).Error
	return customers, total, err
}

func (r *gormRepository) SearchCustomersByName(ctx context.Context, name string, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.conn.WithContext(ctx).
		Where("customer_name ILIKE ?", "%"+name+"%").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

func (r *gormRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.conn.WithContext(ctx).Save(customer).Error
}

func (r *gormRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.Customer{}, "customer_id = ?", id).Error
}

func (r *gormRepository) ListDisplayIDs(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	err := r.conn.WithContext(ctx).
		Model(&models.Customer{}).
		Where("display_id LIKE ?", strings.ReplaceAll(prefix, "%", "")+"%").
		Pluck("display_id", &ids).Error
	return ids, err
}

func (r *gormRepository) CustomersWithoutStage(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.conn.WithContext(ctx).
		Where("sales_stage IS NULL OR sales_stage = ''").
		Find(&customers).Error
	return customers, err
}

func (r *gormRepository) CreateInteraction(ctx context.Context, interaction *models.Interaction) error {
	return r.conn.WithContext(ctx).Create(interaction).Error
}

func (r *gormRepository) GetInteraction(ctx context.Context, id uuid.UUID) (*models.Interaction, error) {
	var interaction models.Interaction
	if err := r.conn.WithContext(ctx).First(&interaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &interaction, nil
}

func interactionQuery(query *gorm.DB, filter InteractionFilter) *gorm.DB {
	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("created_at <= ?", *filter.End)
	}
	return query
}

func (r *gormRepository) ListInteractions(ctx context.Context, customerID uuid.UUID, filter InteractionFilter, page pagination.Page) ([]models.Interaction, int64, error) {
	query := interactionQuery(
		r.conn.WithContext(ctx).Model(&models.Interaction{}).Where("customer_id = ?", customerID),
		filter,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var interactions []models.Interaction
	err := query.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&interactions).Error
	return interactions, total, err
}

func (r *gormRepository) UpdateInteraction(ctx context.Context, interaction *models.Interaction) error {
	return r.conn.WithContext(ctx).Save(interaction).Error
}

func (r *gormRepository) DeleteInteraction(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.Interaction{}, "id = ?", id).Error
}

func (r *gormRepository) CountCustomers(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error
	return total, err
}

func (r *gormRepository) CountInteractions(ctx context.Context, filter InteractionFilter) (int64, error) {
	var total int64
	err := interactionQuery(r.conn.WithContext(ctx).Model(&models.Interaction{}), filter).
		Count(&total).Error
	return total, err
}

func (r *gormRepository) CountCustomersWithInteractions(ctx context.Context, filter InteractionFilter) (int64, error) {
	var total int64
	err := interactionQuery(r.conn.WithContext(ctx).Model(&models.Interaction{}), filter).
		Distinct("customer_id").
		Count(&total).Error
	return total, err
}

func (r *gormRepository) StageDistribution(ctx context.Context) (map[string]int64, error) {
	type row struct {
		SalesStage string
		N          int64
	}
	var rows []row
	err := r.conn.WithContext(ctx).
		Model(&models.Customer{}).
		Select("sales_stage, COUNT(*) AS n").
		Where("sales_stage IS NOT NULL AND sales_stage != ''").
		Group("sales_stage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	distribution := map[string]int64{}
	for _, r := range rows {
		distribution[r.SalesStage] = r.N
	}
	return distribution, nil
}
