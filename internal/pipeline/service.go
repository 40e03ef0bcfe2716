package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// customerLoader resolves customer ids so opportunities never point at
// customers that do not exist.
type customerLoader interface {
	CustomerName(ctx context.Context, id uuid.UUID) (string, error)
}

// tdsLoader checks TDS references on opportunities.
type tdsLoader interface {
	TdsExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo      Repository
	customers customerLoader
	tds       tdsLoader
	log       *logger.Logger
}

func NewService(repo Repository, customers customerLoader, tds tdsLoader, log *logger.Logger) *Service {
	return &Service{repo: repo, customers: customers, tds: tds, log: log}
}

func (s *Service) Create(ctx context.Context, input CreatePipelineInput) (*models.SalesPipeline, error) {
	if _, err := s.customers.CustomerName(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	if input.TdsID != nil {
		ok, err := s.tds.TdsExists(ctx, *input.TdsID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.New(apperrors.CodeValidation, "TDS not found")
		}
	}

	stage := enums.StageLeadID
	if strings.TrimSpace(input.Stage) != "" {
		parsed, err := enums.ParsePipelineStage(input.Stage)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		stage = parsed
	}

	pipeline := &models.SalesPipeline{
		ID:                uuid.New(),
		CustomerID:        input.CustomerID,
		TdsID:             input.TdsID,
		ChemicalTypeID:    input.ChemicalTypeID,
		Stage:             stage,
		Amount:            input.Amount,
		ExpectedCloseDate: input.ExpectedCloseDate,
		CloseReason:       input.CloseReason,
		LeadSource:        input.LeadSource,
		ContactPerLead:    input.ContactPerLead,
		BusinessModel:     input.BusinessModel,
		Unit:              input.Unit,
		UnitPrice:         input.UnitPrice,
		Forex:             input.Forex,
		BusinessUnit:      input.BusinessUnit,
		Incoterm:          input.Incoterm,
		Metadata:          input.Metadata,
	}
	if input.Currency != nil {
		currency, err := enums.ParseCurrency(*input.Currency)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		pipeline.Currency = &currency
	}

	if err := s.validate(pipeline); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, pipeline); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create pipeline")
	}
	return pipeline, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.SalesPipeline, error) {
	pipeline, err := s.repo.Get(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Pipeline not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load pipeline")
	}
	return pipeline, nil
}

func (s *Service) List(ctx context.Context, filter PipelineFilter, page pagination.Page) ([]models.SalesPipeline, int64, error) {
	if filter.Stage != nil {
		if _, err := enums.ParsePipelineStage(*filter.Stage); err != nil {
			return nil, 0, apperrors.New(apperrors.CodeValidation, err.Error())
		}
	}
	pipelines, total, err := s.repo.List(ctx, filter, pagination.Normalize(page.Limit, page.Offset))
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list pipelines")
	}
	return pipelines, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdatePipelineInput) (*models.SalesPipeline, error) {
	pipeline, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Stage != nil {
		stage, err := enums.ParsePipelineStage(*input.Stage)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		pipeline.Stage = stage
	}
	if input.TdsID != nil {
		ok, err := s.tds.TdsExists(ctx, *input.TdsID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.New(apperrors.CodeValidation, "TDS not found")
		}
		pipeline.TdsID = input.TdsID
	}
	if input.ChemicalTypeID != nil {
		pipeline.ChemicalTypeID = input.ChemicalTypeID
	}
	if input.Amount != nil {
		pipeline.Amount = input.Amount
	}
	if input.Currency != nil {
		currency, err := enums.ParseCurrency(*input.Currency)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		pipeline.Currency = &currency
	}
	if input.ExpectedCloseDate != nil {
		pipeline.ExpectedCloseDate = input.ExpectedCloseDate
	}
	if input.CloseReason != nil {
		pipeline.CloseReason = input.CloseReason
	}
	if input.LeadSource != nil {
		pipeline.LeadSource = input.LeadSource
	}
	if input.ContactPerLead != nil {
		pipeline.ContactPerLead = input.ContactPerLead
	}
	if input.BusinessModel != nil {
		pipeline.BusinessModel = input.BusinessModel
	}
	if input.Unit != nil {
		pipeline.Unit = input.Unit
	}
	if input.UnitPrice != nil {
		pipeline.UnitPrice = input.UnitPrice
	}
	if input.Forex != nil {
		pipeline.Forex = input.Forex
	}
	if input.BusinessUnit != nil {
		pipeline.BusinessUnit = input.BusinessUnit
	}
	if input.Incoterm != nil {
		pipeline.Incoterm = input.Incoterm
	}
	if input.Metadata != nil {
		pipeline.Metadata = input.Metadata
	}

	if err := s.validate(pipeline); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pipeline); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update pipeline")
	}
	return pipeline, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to delete pipeline")
	}
	return nil
}

// AdvanceStage moves the opportunity to the next stage, applying any
// fields the target stage requires in the same step.
func (s *Service) AdvanceStage(ctx context.Context, id uuid.UUID, input AdvanceInput) (*models.SalesPipeline, error) {
	pipeline, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pipeline.Stage == enums.StageClosed {
		return nil, apperrors.New(apperrors.CodeValidation, "pipeline is already closed")
	}

	if input.BusinessModel != nil {
		pipeline.BusinessModel = input.BusinessModel
	}
	if input.Unit != nil {
		pipeline.Unit = input.Unit
	}
	if input.UnitPrice != nil {
		pipeline.UnitPrice = input.UnitPrice
	}
	if input.CloseReason != nil {
		pipeline.CloseReason = input.CloseReason
	}
	pipeline.Stage = pipeline.Stage.Next()

	if err := s.validate(pipeline); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pipeline); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to advance pipeline")
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"pipeline_id": pipeline.ID.String(),
		"stage":       pipeline.Stage.String(),
	}), "pipeline advanced")
	return pipeline, nil
}

func (s *Service) StageSummaries(ctx context.Context) ([]StageSummary, error) {
	summaries, err := s.repo.StageSummaries(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load stage summaries")
	}

	// Every stage appears on the board, empty or not, in pipeline order.
	byStage := map[string]StageSummary{}
	for _, summary := range summaries {
		byStage[summary.Stage] = summary
	}
	ordered := make([]StageSummary, 0, len(enums.PipelineStages()))
	for _, stage := range enums.PipelineStages() {
		if summary, ok := byStage[stage.String()]; ok {
			ordered = append(ordered, summary)
			continue
		}
		ordered = append(ordered, StageSummary{Stage: stage.String()})
	}
	return ordered, nil
}

// validate enforces stage-dependent requirements and option membership.
func (s *Service) validate(pipeline *models.SalesPipeline) error {
	if pipeline.Stage.RequiresCommercialTerms() {
		if emptyPtr(pipeline.BusinessModel) {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("business_model is required from stage %s onward", enums.StageValidation))
		}
		if _, err := enums.ParseBusinessModel(*pipeline.BusinessModel); err != nil {
			return apperrors.New(apperrors.CodeValidation, err.Error())
		}
		if emptyPtr(pipeline.Unit) {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("unit is required from stage %s onward", enums.StageValidation))
		}
		if pipeline.UnitPrice == nil || *pipeline.UnitPrice <= 0 {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("unit_price is required from stage %s onward", enums.StageValidation))
		}
	} else if pipeline.BusinessModel != nil && *pipeline.BusinessModel != "" {
		if _, err := enums.ParseBusinessModel(*pipeline.BusinessModel); err != nil {
			return apperrors.New(apperrors.CodeValidation, err.Error())
		}
	}

	if pipeline.Stage == enums.StageClosed && emptyPtr(pipeline.CloseReason) {
		return apperrors.New(apperrors.CodeValidation, "close_reason is required to close a pipeline")
	}

	if err := checkOption("forex", pipeline.Forex, models.ForexOptions); err != nil {
		return err
	}
	if err := checkOption("business_unit", pipeline.BusinessUnit, models.BusinessUnitOptions); err != nil {
		return err
	}
	if err := checkOption("incoterm", pipeline.Incoterm, models.IncotermOptions); err != nil {
		return err
	}
	if pipeline.Amount != nil && *pipeline.Amount < 0 {
		return apperrors.New(apperrors.CodeValidation, "amount cannot be negative")
	}
	return nil
}

func checkOption(field string, value *string, options []string) error {
	if value == nil || *value == "" {
		return nil
	}
	for _, option := range options {
		if *value == option {
			return nil
		}
	}
	return apperrors.New(apperrors.CodeValidation,
		fmt.Sprintf("%s must be one of: %s", field, strings.Join(options, ", ")))
}

func emptyPtr(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
