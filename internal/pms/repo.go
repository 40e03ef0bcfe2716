package pms

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

type Repository interface {
	CreateChemicalType(ctx context.Context, ct *models.ChemicalType) error
	GetChemicalType(ctx context.Context, id uuid.UUID) (*models.ChemicalType, error)
	ListChemicalTypes(ctx context.Context, search string, page pagination.Page) ([]models.ChemicalType, int64, error)
	UpdateChemicalType(ctx context.Context, ct *models.ChemicalType) error
	DeleteChemicalType(ctx context.Context, id uuid.UUID) error
	ChemicalCategories(ctx context.Context) ([]string, error)

	CreateTds(ctx context.Context, tds *models.Tds) error
	GetTds(ctx context.Context, id uuid.UUID) (*models.Tds, error)
	ListTds(ctx context.Context, filter TdsFilter, page pagination.Page) ([]models.Tds, int64, error)
	UpdateTds(ctx context.Context, tds *models.Tds) error
	DeleteTds(ctx context.Context, id uuid.UUID) error

	CreatePartner(ctx context.Context, partner *models.Partner) error
	GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, error)
	ListPartners(ctx context.Context, page pagination.Page) ([]models.Partner, int64, error)
	UpdatePartner(ctx context.Context, partner *models.Partner) error
	DeletePartner(ctx context.Context, id uuid.UUID) error

	UpsertCosting(ctx context.Context, costing *models.CostingPricing) error
	GetCosting(ctx context.Context, partnerID, tdsID uuid.UUID) (*models.CostingPricing, error)
	ListCosting(ctx context.Context, partnerID *uuid.UUID, page pagination.Page) ([]models.CostingPricing, int64, error)
	DeleteCosting(ctx context.Context, partnerID, tdsID uuid.UUID) error
}

type gormRepository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) CreateChemicalType(ctx context.Context, ct *models.ChemicalType) error {
	return r.conn.WithContext(ctx).Create(ct).Error
}

func (r *gormRepository) GetChemicalType(ctx context.Context, id uuid.UUID) (*models.ChemicalType, error) {
	var ct models.ChemicalType
	if err := r.conn.WithContext(ctx).First(&ct, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *gormRepository) ListChemicalTypes(ctx context.Context, search string, page pagination.Page) ([]models.ChemicalType, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.ChemicalType{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var types []models.ChemicalType
	err := query.Order("name ASC").Limit(page.Limit).Offset(page.Offset).Find(&types).Error
	return types, total, err
}

func (r *gormRepository) UpdateChemicalType(ctx context.Context, ct *models.ChemicalType) error {
	return r.conn.WithContext(ctx).Save(ct).Error
}

func (r *gormRepository) DeleteChemicalType(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.ChemicalType{}, "id = ?", id).Error
}

func (r *gormRepository) ChemicalCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.conn.WithContext(ctx).
		Model(&models.ChemicalType{}).
		Distinct("category").
		Where("category IS NOT NULL AND category != ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *gormRepository) CreateTds(ctx context.Context, tds *models.Tds) error {
	return r.conn.WithContext(ctx).Create(tds).Error
}

func (r *gormRepository) GetTds(ctx context.Context, id uuid.UUID) (*models.Tds, error) {
	var tds models.Tds
	if err := r.conn.WithContext(ctx).First(&tds, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tds, nil
}

func (r *gormRepository) ListTds(ctx context.Context, filter TdsFilter, page pagination.Page) ([]models.Tds, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.Tds{})
	if filter.ChemicalTypeID != nil {
		query = query.Where("chemical_type_id = ?", *filter.ChemicalTypeID)
	}
	if filter.Brand != "" {
		query = query.Where("brand ILIKE ?", "%"+filter.Brand+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Tds
	err := query.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&records).Error
	return records, total, err
}

func (r *gormRepository) UpdateTds(ctx context.Context, tds *models.Tds) error {
	return r.conn.WithContext(ctx).Save(tds).Error
}

func (r *gormRepository) DeleteTds(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.Tds{}, "id = ?", id).Error
}

func (r *gormRepository) CreatePartner(ctx context.Context, partner *models.Partner) error {
	return r.conn.WithContext(ctx).Create(partner).Error
}

func (r *gormRepository) GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	if err := r.conn.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *gormRepository) ListPartners(ctx context.Context, page pagination.Page) ([]models.Partner, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.Partner{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var partners []models.Partner
	err := query.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&partners).Error
	return partners, total, err
}

func (r *gormRepository) UpdatePartner(ctx context.Context, partner *models.Partner) error {
	return r.conn.WithContext(ctx).Save(partner).Error
}

func (r *gormRepository) DeletePartner(ctx context.Context, id uuid.UUID) error {
	return r.conn.WithContext(ctx).Delete(&models.Partner{}, "id = ?", id).Error
}

func (r *gormRepository) UpsertCosting(ctx context.Context, costing *models.CostingPricing) error {
	return r.conn.WithContext(ctx).Save(costing).Error
}

func (r *gormRepository) GetCosting(ctx context.Context, partnerID, tdsID uuid.UUID) (*models.CostingPricing, error) {
	var costing models.CostingPricing
	err := r.conn.WithContext(ctx).
		First(&costing, "partner_id = ? AND tds_id = ?", partnerID, tdsID).Error
	if err != nil {
		return nil, err
	}
	return &costing, nil
}

func (r *gormRepository) ListCosting(ctx context.Context, partnerID *uuid.UUID, page pagination.Page) ([]models.CostingPricing, int64, error) {
	query := r.conn.WithContext(ctx).Model(&models.CostingPricing{})
	if partnerID != nil {
		query = query.Where("partner_id = ?", *partnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.CostingPricing
	err := query.Order("updated_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&records).Error
	return records, total, err
}

func (r *gormRepository) DeleteCosting(ctx context.Context, partnerID, tdsID uuid.UUID) error {
	return r.conn.WithContext(ctx).
		Delete(&models.CostingPricing{}, "partner_id = ? AND tds_id = ?", partnerID, tdsID).Error
}
