package pms

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// Service manages the product master data: chemical types, technical
// data sheets, partners and costing rows.
type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// =============================
// Chemical types
// =============================

func (s *Service) CreateChemicalType(ctx context.Context, input CreateChemicalTypeInput) (*models.ChemicalType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "name is required")
	}

	ct := &models.ChemicalType{
		ID:           uuid.New(),
		Name:         name,
		Category:     input.Category,
		HSCode:       input.HSCode,
		Applications: pq.StringArray(input.Applications),
		SpecTemplate: input.SpecTemplate,
		Metadata:     input.Metadata,
	}
	if err := s.repo.CreateChemicalType(ctx, ct); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "chemical type already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating chemical type")
	}
	return ct, nil
}

func (s *Service) GetChemicalType(ctx context.Context, id uuid.UUID) (*models.ChemicalType, error) {
	ct, err := s.repo.GetChemicalType(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "chemical type not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading chemical type")
	}
	return ct, nil
}

func (s *Service) ListChemicalTypes(ctx context.Context, search string, page pagination.Page) ([]models.ChemicalType, int64, error) {
	types, total, err := s.repo.ListChemicalTypes(ctx, search, page)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing chemical types")
	}
	return types, total, nil
}

// ChemicalCategories lists the distinct catalogue categories, falling
// back to the core construction segments when the catalogue is empty.
func (s *Service) ChemicalCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ChemicalCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing chemical categories")
	}
	if len(categories) == 0 {
		return []string{"Cement", "Dry-Mix", "Admixtures", "Paint & Coatings"}, nil
	}
	return categories, nil
}

func (s *Service) UpdateChemicalType(ctx context.Context, id uuid.UUID, input UpdateChemicalTypeInput) (*models.ChemicalType, error) {
	ct, err := s.GetChemicalType(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "name cannot be empty")
		}
		ct.Name = name
	}
	if input.Category != nil {
		ct.Category = input.Category
	}
	if input.HSCode != nil {
		ct.HSCode = input.HSCode
	}
	if input.Applications != nil {
		ct.Applications = pq.StringArray(input.Applications)
	}
	if input.SpecTemplate != nil {
		ct.SpecTemplate = input.SpecTemplate
	}
	if input.Metadata != nil {
		ct.Metadata = input.Metadata
	}

	if err := s.repo.UpdateChemicalType(ctx, ct); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "chemical type already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating chemical type")
	}
	return ct, nil
}

func (s *Service) DeleteChemicalType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetChemicalType(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteChemicalType(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting chemical type")
	}
	return nil
}

// =============================
// TDS
// =============================

func (s *Service) CreateTds(ctx context.Context, input CreateTdsInput) (*models.Tds, error) {
	if input.ChemicalTypeID != nil {
		if _, err := s.GetChemicalType(ctx, *input.ChemicalTypeID); err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeNotFound {
				return nil, apperrors.New(apperrors.CodeValidation, "chemical type not found")
			}
			return nil, err
		}
	}

	tds := &models.Tds{
		ID:             uuid.New(),
		ChemicalTypeID: input.ChemicalTypeID,
		Brand:          input.Brand,
		Grade:          input.Grade,
		Owner:          input.Owner,
		Source:         input.Source,
		Specs:          input.Specs,
		Metadata:       input.Metadata,
	}
	if err := s.repo.CreateTds(ctx, tds); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating tds")
	}
	return tds, nil
}

func (s *Service) GetTds(ctx context.Context, id uuid.UUID) (*models.Tds, error) {
	tds, err := s.repo.GetTds(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "tds not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading tds")
	}
	return tds, nil
}

func (s *Service) ListTds(ctx context.Context, filter TdsFilter, page pagination.Page) ([]models.Tds, int64, error) {
	records, total, err := s.repo.ListTds(ctx, filter, page)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing tds")
	}
	return records, total, nil
}

func (s *Service) UpdateTds(ctx context.Context, id uuid.UUID, input UpdateTdsInput) (*models.Tds, error) {
	tds, err := s.GetTds(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ChemicalTypeID != nil {
		if _, err := s.GetChemicalType(ctx, *input.ChemicalTypeID); err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeNotFound {
				return nil, apperrors.New(apperrors.CodeValidation, "chemical type not found")
			}
			return nil, err
		}
		tds.ChemicalTypeID = input.ChemicalTypeID
	}
	if input.Brand != nil {
		tds.Brand = input.Brand
	}
	if input.Grade != nil {
		tds.Grade = input.Grade
	}
	if input.Owner != nil {
		tds.Owner = input.Owner
	}
	if input.Source != nil {
		tds.Source = input.Source
	}
	if input.Specs != nil {
		tds.Specs = input.Specs
	}
	if input.Metadata != nil {
		tds.Metadata = input.Metadata
	}

	if err := s.repo.UpdateTds(ctx, tds); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating tds")
	}
	return tds, nil
}

func (s *Service) DeleteTds(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTds(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTds(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting tds")
	}
	return nil
}

// TdsExists supports reference validation from other domains.
func (s *Service) TdsExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetTds(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.CodeInternal, err, "checking tds")
	}
	return true, nil
}

// =============================
// Partners
// =============================

func (s *Service) CreatePartner(ctx context.Context, input CreatePartnerInput) (*models.Partner, error) {
	partner := &models.Partner{
		ID:             uuid.New(),
		Partner:        input.Partner,
		PartnerCountry: input.PartnerCountry,
		Metadata:       input.Metadata,
	}
	if err := s.repo.CreatePartner(ctx, partner); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating partner")
	}
	return partner, nil
}

func (s *Service) GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	partner, err := s.repo.GetPartner(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "partner not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading partner")
	}
	return partner, nil
}

func (s *Service) ListPartners(ctx context.Context, page pagination.Page) ([]models.Partner, int64, error) {
	partners, total, err := s.repo.ListPartners(ctx, page)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing partners")
	}
	return partners, total, nil
}

func (s *Service) UpdatePartner(ctx context.Context, id uuid.UUID, input UpdatePartnerInput) (*models.Partner, error) {
	partner, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Partner != nil {
		partner.Partner = input.Partner
	}
	if input.PartnerCountry != nil {
		partner.PartnerCountry = input.PartnerCountry
	}
	if input.Metadata != nil {
		partner.Metadata = input.Metadata
	}

	if err := s.repo.UpdatePartner(ctx, partner); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating partner")
	}
	return partner, nil
}

func (s *Service) DeletePartner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPartner(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeletePartner(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting partner")
	}
	return nil
}

// PartnerName resolves a partner's display name for denormalized
// references. Unknown ids surface as validation errors so movement
// creation reports them as bad input.
func (s *Service) PartnerName(ctx context.Context, id uuid.UUID) (string, error) {
	partner, err := s.repo.GetPartner(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return "", apperrors.New(apperrors.CodeValidation, "Supplier not found")
		}
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "loading partner")
	}
	if partner.Partner == nil {
		return "", nil
	}
	return *partner.Partner, nil
}

// =============================
// Costing / pricing
// =============================

func (s *Service) UpsertCosting(ctx context.Context, input UpsertCostingInput) (*models.CostingPricing, error) {
	if _, err := s.GetPartner(ctx, input.PartnerID); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return nil, apperrors.New(apperrors.CodeValidation, "partner not found")
		}
		return nil, err
	}
	if _, err := s.GetTds(ctx, input.TdsID); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return nil, apperrors.New(apperrors.CodeValidation, "tds not found")
		}
		return nil, err
	}

	costing := &models.CostingPricing{
		PartnerID: input.PartnerID,
		TdsID:     input.TdsID,
		Rows:      input.Rows,
	}
	if err := s.repo.UpsertCosting(ctx, costing); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving costing rows")
	}
	return costing, nil
}

func (s *Service) GetCosting(ctx context.Context, partnerID, tdsID uuid.UUID) (*models.CostingPricing, error) {
	costing, err := s.repo.GetCosting(ctx, partnerID, tdsID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "costing not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading costing")
	}
	return costing, nil
}

func (s *Service) ListCosting(ctx context.Context, partnerID *uuid.UUID, page pagination.Page) ([]models.CostingPricing, int64, error) {
	records, total, err := s.repo.ListCosting(ctx, partnerID, page)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing costing")
	}
	return records, total, nil
}

func (s *Service) DeleteCosting(ctx context.Context, partnerID, tdsID uuid.UUID) error {
	if _, err := s.GetCosting(ctx, partnerID, tdsID); err != nil {
		return err
	}
	if err := s.repo.DeleteCosting(ctx, partnerID, tdsID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting costing")
	}
	return nil
}
