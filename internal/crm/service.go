package crm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// similarityThreshold is the score (0-100) above which two customer
// names are treated as duplicates.
const similarityThreshold = 85

const displayIDPrefix = "LC"

type Service struct {
	repo Repository
	ai   aiChatter
	log  *logger.Logger
}

func NewService(repo Repository, ai aiChatter, log *logger.Logger) *Service {
	return &Service{repo: repo, ai: ai, log: log}
}

func (s *Service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "customer_name is required")
	}

	similar, err := s.findSimilarNames(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(similar) > 0 {
		return nil, apperrors.New(apperrors.CodeConflict,
			fmt.Sprintf("a similar customer already exists: %s", strings.Join(similar, ", ")))
	}

	displayID := ""
	if input.DisplayID != nil && strings.TrimSpace(*input.DisplayID) != "" {
		displayID = strings.TrimSpace(*input.DisplayID)
	} else {
		displayID, err = s.nextDisplayID(ctx)
		if err != nil {
			return nil, err
		}
	}

	stage := "1"
	customer := &models.Customer{
		CustomerID:   uuid.New(),
		CustomerName: name,
		DisplayID:    &displayID,
		SalesStage:   &stage,
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "customer already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create customer")
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Customer not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load customer")
	}
	return customer, nil
}

func (s *Service) ListCustomers(ctx context.Context, search string, page pagination.Page) ([]models.Customer, int64, error) {
	customers, total, err := s.repo.ListCustomers(ctx, strings.TrimSpace(search), pagination.Normalize(page.Limit, page.Offset))
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list customers")
	}
	return customers, total, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if name == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "customer_name cannot be empty")
		}
		customer.CustomerName = name
	}
	if input.DisplayID != nil {
		customer.DisplayID = trimPtr(input.DisplayID)
	}
	if input.SalesStage != nil {
		if _, err := parseStage(*input.SalesStage); err != nil {
			return nil, err
		}
		customer.SalesStage = input.SalesStage
	}

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "display_id already in use")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update customer")
	}
	return customer, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to delete customer")
	}
	return nil
}

// CustomerName resolves a customer id to its name for cross-module
// lookups. Unknown ids map to a validation error so callers can surface
// them on their own inputs.
func (s *Service) CustomerName(ctx context.Context, id uuid.UUID) (string, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return "", apperrors.New(apperrors.CodeValidation, "Customer not found")
		}
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "failed to load customer")
	}
	return customer.CustomerName, nil
}

func (s *Service) CreateInteraction(ctx context.Context, customerID uuid.UUID, input CreateInteractionInput) (*models.Interaction, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	text := trimPtr(input.InputText)
	if text == nil && input.FileURL == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "input_text or file_url is required")
	}

	interaction := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customerID,
		UserID:     input.UserID,
		InputText:  text,
		AIResponse: input.AIResponse,
		FileURL:    input.FileURL,
		FileType:   input.FileType,
		TdsID:      input.TdsID,
	}
	if err := s.repo.CreateInteraction(ctx, interaction); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create interaction")
	}
	return interaction, nil
}

func (s *Service) GetInteraction(ctx context.Context, id uuid.UUID) (*models.Interaction, error) {
	interaction, err := s.repo.GetInteraction(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Interaction not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load interaction")
	}
	return interaction, nil
}

func (s *Service) ListInteractions(ctx context.Context, customerID uuid.UUID, filter InteractionFilter, page pagination.Page) ([]models.Interaction, int64, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, 0, err
	}
	interactions, total, err := s.repo.ListInteractions(ctx, customerID, filter, pagination.Normalize(page.Limit, page.Offset))
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list interactions")
	}
	return interactions, total, nil
}

func (s *Service) UpdateInteraction(ctx context.Context, id uuid.UUID, input UpdateInteractionInput) (*models.Interaction, error) {
	interaction, err := s.GetInteraction(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.InputText != nil {
		interaction.InputText = trimPtr(input.InputText)
	}
	if input.AIResponse != nil {
		interaction.AIResponse = input.AIResponse
	}
	if input.FileURL != nil {
		interaction.FileURL = input.FileURL
	}
	if input.FileType != nil {
		interaction.FileType = input.FileType
	}
	if input.TdsID != nil {
		interaction.TdsID = input.TdsID
	}
	if err := s.repo.UpdateInteraction(ctx, interaction); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update interaction")
	}
	return interaction, nil
}

func (s *Service) DeleteInteraction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetInteraction(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteInteraction(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to delete interaction")
	}
	return nil
}

func (s *Service) DashboardMetrics(ctx context.Context, filter InteractionFilter) (*DashboardMetrics, error) {
	totalCustomers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to count customers")
	}
	totalInteractions, err := s.repo.CountInteractions(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to count interactions")
	}
	engaged, err := s.repo.CountCustomersWithInteractions(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to count engaged customers")
	}
	distribution, err := s.repo.StageDistribution(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load stage distribution")
	}

	// Every stage key is present even when no customer sits in it.
	for stage := 1; stage <= 7; stage++ {
		key := strconv.Itoa(stage)
		if _, ok := distribution[key]; !ok {
			distribution[key] = 0
		}
	}

	return &DashboardMetrics{
		TotalCustomers:            totalCustomers,
		TotalInteractions:         totalInteractions,
		CustomersWithInteractions: engaged,
		SalesStagesDistribution:   distribution,
	}, nil
}

func (s *Service) findSimilarNames(ctx context.Context, name string) ([]string, error) {
	candidates, err := s.repo.SearchCustomersByName(ctx, firstToken(name), 50)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to search customers")
	}

	var similar []string
	for _, c := range candidates {
		if nameSimilarity(name, c.CustomerName) >= similarityThreshold {
			similar = append(similar, c.CustomerName)
			if len(similar) == 3 {
				break
			}
		}
	}
	return similar, nil
}

// nameSimilarity scores two names on a 0-100 scale using normalized
// Levenshtein distance over lowercased, whitespace-collapsed input.
func nameSimilarity(a, b string) int {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 - (dist*100)/longest
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

func (s *Service) nextDisplayID(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-CUST-", displayIDPrefix, time.Now().Year())
	existing, err := s.repo.ListDisplayIDs(ctx, prefix)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "failed to list display ids")
	}

	max := 0
	for _, id := range existing {
		suffix := strings.TrimPrefix(id, prefix)
		if suffix == id {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1), nil
}

// trimPtr trims the pointed-to string and drops it entirely when blank.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseStage(stage string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(stage))
	if err != nil || n < 1 || n > 7 {
		return 0, apperrors.New(apperrors.CodeValidation, "sales_stage must be a digit between 1 and 7")
	}
	return n, nil
}
