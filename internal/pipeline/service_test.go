package pipeline

import (
	"context"
	"io"
	"sort"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

type fakeRepository struct {
	pipelines map[uuid.UUID]*models.SalesPipeline
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{pipelines: map[uuid.UUID]*models.SalesPipeline{}}
}

func (f *fakeRepository) Create(_ context.Context, p *models.SalesPipeline) error {
	cp := *p
	f.pipelines[p.ID] = &cp
	return nil
}

func (f *fakeRepository) Get(_ context.Context, id uuid.UUID) (*models.SalesPipeline, error) {
	p, ok := f.pipelines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepository) List(_ context.Context, filter PipelineFilter, _ pagination.Page) ([]models.SalesPipeline, int64, error) {
	var out []models.SalesPipeline
	for _, p := range f.pipelines {
		if filter.CustomerID != nil && p.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Stage != nil && p.Stage.String() != *filter.Stage {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) Update(_ context.Context, p *models.SalesPipeline) error {
	if _, ok := f.pipelines[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	f.pipelines[p.ID] = &cp
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.pipelines, id)
	return nil
}

func (f *fakeRepository) StageSummaries(_ context.Context) ([]StageSummary, error) {
	byStage := map[string]*StageSummary{}
	for _, p := range f.pipelines {
		summary, ok := byStage[p.Stage.String()]
		if !ok {
			summary = &StageSummary{Stage: p.Stage.String()}
			byStage[p.Stage.String()] = summary
		}
		summary.Count++
		if p.Amount != nil {
			summary.Amount += *p.Amount
		}
	}
	var out []StageSummary
	for _, summary := range byStage {
		out = append(out, *summary)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Stage < out[b].Stage })
	return out, nil
}

type fakeCustomerLoader struct {
	known map[uuid.UUID]string
}

func (f *fakeCustomerLoader) CustomerName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := f.known[id]
	if !ok {
		return "", apperrors.New(apperrors.CodeValidation, "Customer not found")
	}
	return name, nil
}

type fakeTdsLoader struct {
	known map[uuid.UUID]bool
}

func (f *fakeTdsLoader) TdsExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func newTestService(repo Repository, customerID uuid.UUID) *Service {
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	customers := &fakeCustomerLoader{known: map[uuid.UUID]string{customerID: "Dashen Paints"}}
	return NewService(repo, customers, &fakeTdsLoader{known: map[uuid.UUID]bool{}}, log)
}

func assertCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := apperrors.CodeOf(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestCreateDefaultsToLeadID(t *testing.T) {
	customerID := uuid.New()
	svc := newTestService(newFakeRepository(), customerID)

	pipeline, err := svc.Create(context.Background(), CreatePipelineInput{CustomerID: customerID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pipeline.Stage != enums.StageLeadID {
		t.Fatalf("expected stage %s, got %s", enums.StageLeadID, pipeline.Stage)
	}
}

func TestCreateUnknownCustomerIsValidation(t *testing.T) {
	svc := newTestService(newFakeRepository(), uuid.New())
	_, err := svc.Create(context.Background(), CreatePipelineInput{CustomerID: uuid.New()})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCreateAtValidationRequiresCommercialTerms(t *testing.T) {
	customerID := uuid.New()
	svc := newTestService(newFakeRepository(), customerID)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePipelineInput{
		CustomerID: customerID,
		Stage:      enums.StageValidation.String(),
	})
	assertCode(t, err, apperrors.CodeValidation)

	pipeline, err := svc.Create(ctx, CreatePipelineInput{
		CustomerID:    customerID,
		Stage:         enums.StageValidation.String(),
		BusinessModel: strPtr(enums.BusinessModelStock.String()),
		Unit:          strPtr("25kg bag"),
		UnitPrice:     f64Ptr(42.5),
	})
	if err != nil {
		t.Fatalf("create with terms: %v", err)
	}
	if pipeline.Stage != enums.StageValidation {
		t.Fatalf("expected stage %s, got %s", enums.StageValidation, pipeline.Stage)
	}
}

func TestCreateRejectsUnknownOptions(t *testing.T) {
	customerID := uuid.New()
	svc := newTestService(newFakeRepository(), customerID)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePipelineInput{CustomerID: customerID, Forex: strPtr("Bank")})
	assertCode(t, err, apperrors.CodeValidation)

	_, err = svc.Create(ctx, CreatePipelineInput{CustomerID: customerID, BusinessUnit: strPtr("Unknown")})
	assertCode(t, err, apperrors.CodeValidation)

	_, err = svc.Create(ctx, CreatePipelineInput{CustomerID: customerID, Incoterm: strPtr("FOB")})
	assertCode(t, err, apperrors.CodeValidation)

	_, err = svc.Create(ctx, CreatePipelineInput{CustomerID: customerID, Currency: strPtr("GBP")})
	assertCode(t, err, apperrors.CodeValidation)

	if _, err := svc.Create(ctx, CreatePipelineInput{
		CustomerID:   customerID,
		Forex:        strPtr("LeanChems"),
		BusinessUnit: strPtr("Hayat"),
		Incoterm:     strPtr("Direct Import"),
		Currency:     strPtr("ETB"),
	}); err != nil {
		t.Fatalf("expected valid options to pass, got %v", err)
	}
}

func TestAdvanceStageWalksThePipeline(t *testing.T) {
	customerID := uuid.New()
	repo := newFakeRepository()
	svc := newTestService(repo, customerID)
	ctx := context.Background()

	pipeline, err := svc.Create(ctx, CreatePipelineInput{CustomerID: customerID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pipeline, err = svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{})
	if err != nil {
		t.Fatalf("advance to discovery: %v", err)
	}
	if pipeline.Stage != enums.StageDiscovery {
		t.Fatalf("expected %s, got %s", enums.StageDiscovery, pipeline.Stage)
	}

	if pipeline, err = svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{}); err != nil {
		t.Fatalf("advance to sample: %v", err)
	}
	if pipeline.Stage != enums.StageSample {
		t.Fatalf("expected %s, got %s", enums.StageSample, pipeline.Stage)
	}
}

func TestAdvanceToValidationNeedsTerms(t *testing.T) {
	customerID := uuid.New()
	svc := newTestService(newFakeRepository(), customerID)
	ctx := context.Background()

	pipeline, err := svc.Create(ctx, CreatePipelineInput{
		CustomerID: customerID,
		Stage:      enums.StageSample.String(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{})
	assertCode(t, err, apperrors.CodeValidation)

	advanced, err := svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{
		BusinessModel: strPtr(enums.BusinessModelDirectDelivery.String()),
		Unit:          strPtr("ton"),
		UnitPrice:     f64Ptr(1200),
	})
	if err != nil {
		t.Fatalf("advance with terms: %v", err)
	}
	if advanced.Stage != enums.StageValidation {
		t.Fatalf("expected %s, got %s", enums.StageValidation, advanced.Stage)
	}
}

func TestCloseRequiresReason(t *testing.T) {
	customerID := uuid.New()
	svc := newTestService(newFakeRepository(), customerID)
	ctx := context.Background()

	pipeline, err := svc.Create(ctx, CreatePipelineInput{
		CustomerID:    customerID,
		Stage:         enums.StageConfirmation.String(),
		BusinessModel: strPtr(enums.BusinessModelStock.String()),
		Unit:          strPtr("25kg bag"),
		UnitPrice:     f64Ptr(40),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{})
	assertCode(t, err, apperrors.CodeValidation)

	closed, err := svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{CloseReason: strPtr("Won, first order placed")})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Stage != enums.StageClosed {
		t.Fatalf("expected %s, got %s", enums.StageClosed, closed.Stage)
	}

	_, err = svc.AdvanceStage(ctx, pipeline.ID, AdvanceInput{})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestStageSummariesCoverAllStages(t *testing.T) {
	customerID := uuid.New()
	repo := newFakeRepository()
	svc := newTestService(repo, customerID)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePipelineInput{CustomerID: customerID, Amount: f64Ptr(500)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreatePipelineInput{CustomerID: customerID, Amount: f64Ptr(300)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	summaries, err := svc.StageSummaries(ctx)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != len(enums.PipelineStages()) {
		t.Fatalf("expected %d stages, got %d", len(enums.PipelineStages()), len(summaries))
	}
	if summaries[0].Stage != enums.StageLeadID.String() {
		t.Fatalf("expected board to start at %s, got %s", enums.StageLeadID, summaries[0].Stage)
	}
	if summaries[0].Count != 2 || summaries[0].Amount != 800 {
		t.Fatalf("unexpected lead summary: %+v", summaries[0])
	}
	for _, summary := range summaries[1:] {
		if summary.Count != 0 {
			t.Fatalf("expected empty stage %s, got count %d", summary.Stage, summary.Count)
		}
	}
}

func TestUpdateStageDowngradeKeepsValidation(t *testing.T) {
	customerID := uuid.New()
	svc := newTestService(newFakeRepository(), customerID)
	ctx := context.Background()

	pipeline, err := svc.Create(ctx, CreatePipelineInput{
		CustomerID:    customerID,
		Stage:         enums.StageProposal.String(),
		BusinessModel: strPtr(enums.BusinessModelStock.String()),
		Unit:          strPtr("drum"),
		UnitPrice:     f64Ptr(90),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, pipeline.ID, UpdatePipelineInput{Stage: strPtr(enums.StageDiscovery.String())})
	if err != nil {
		t.Fatalf("downgrade: %v", err)
	}
	if updated.Stage != enums.StageDiscovery {
		t.Fatalf("expected %s, got %s", enums.StageDiscovery, updated.Stage)
	}
}
