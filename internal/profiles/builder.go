package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/leanchem/leanchem-backend/pkg/ai"
	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
)

// customerStore is the slice of the CRM repository the builder needs.
type customerStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	CreateInteraction(ctx context.Context, interaction *models.Interaction) error
}

// webSearcher gathers public context about a company.
type webSearcher interface {
	CompanyContext(ctx context.Context, companyName string) string
	LinkedInContext(ctx context.Context, companyName string) string
}

type aiChatter interface {
	Generate(ctx context.Context, systemPrompt string, messages []ai.Message) (string, error)
	Configured() bool
}

// categoryLister supplies the product categories scored in the
// strategic-fit matrix.
type categoryLister interface {
	ChemicalCategories(ctx context.Context) ([]string, error)
}

// Builder assembles an AI-generated customer profile from web search
// results and scores the customer against the product catalogue.
type Builder struct {
	customers  customerStore
	search     webSearcher
	chat       aiChatter
	categories categoryLister
	log        *logger.Logger
}

func NewBuilder(customers customerStore, search webSearcher, chat aiChatter, categories categoryLister, log *logger.Logger) *Builder {
	return &Builder{
		customers:  customers,
		search:     search,
		chat:       chat,
		categories: categories,
		log:        log,
	}
}

// Profile is the outcome of one build run.
type Profile struct {
	CustomerID uuid.UUID      `json:"customer_id"`
	Text       string         `json:"text"`
	Scores     map[string]int `json:"scores"`
}

// Build generates and persists the profile for one customer. Search
// failures degrade the context; only a missing customer or a failed AI
// call abort the build.
func (b *Builder) Build(ctx context.Context, customerID uuid.UUID) (*Profile, error) {
	customer, err := b.customers.GetCustomer(ctx, customerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Customer not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load customer")
	}
	if !b.chat.Configured() {
		return nil, apperrors.New(apperrors.CodeDependency, "AI assistant is not configured")
	}

	var contextText strings.Builder
	if web := b.search.CompanyContext(ctx, customer.CustomerName); web != "" {
		contextText.WriteString("\nWeb Search Results:\n")
		contextText.WriteString(web)
	}
	if linkedin := b.search.LinkedInContext(ctx, customer.CustomerName); linkedin != "" {
		contextText.WriteString("\nLinkedIn Information:\n")
		contextText.WriteString(linkedin)
	}

	categories, err := b.categories.ChemicalCategories(ctx)
	if err != nil {
		return nil, err
	}

	text, err := b.chat.Generate(ctx, profileSystemPrompt(categories), []ai.Message{{
		Role: "user",
		Text: fmt.Sprintf("Generate a profile for: %s\n\nContext:%s", customer.CustomerName, contextText.String()),
	}})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "profile generation failed")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.CodeDependency, "AI returned an empty profile")
	}

	text = stripMarkdown(text)
	scores := parseFitMatrix(text, categories)

	profile := &Profile{CustomerID: customerID, Text: text, Scores: scores}
	if err := b.persist(ctx, customer, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// persist stores the scores on the customer and logs the profile as an
// interaction so it shows up on the timeline.
func (b *Builder) persist(ctx context.Context, customer *models.Customer, profile *Profile) error {
	var errs error

	raw, err := json.Marshal(profile.Scores)
	if err == nil {
		customer.ProductAlignmentScores = raw
		if err := b.customers.UpdateCustomer(ctx, customer); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("saving alignment scores: %w", err))
		}
	}

	note := fmt.Sprintf("System: AI profile generated for %s", customer.CustomerName)
	interaction := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customer.CustomerID,
		InputText:  &note,
		AIResponse: &profile.Text,
	}
	if err := b.customers.CreateInteraction(ctx, interaction); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("recording profile interaction: %w", err))
	}

	if errs != nil {
		return apperrors.Wrap(apperrors.CodeInternal, errs, "failed to persist profile")
	}
	return nil
}

func profileSystemPrompt(categories []string) string {
	var lines []string
	keys := map[string]string{}
	for _, cat := range categories {
		lines = append(lines, fmt.Sprintf("- %s (0=No Fit, 1=Low Fit, 2=Moderate Fit, 3=High Fit)", cat))
		keys[cat] = scoreKey(cat)
	}
	example := map[string]map[string]string{"strategic_fit_matrix": {}}
	for _, key := range keys {
		example["strategic_fit_matrix"][key] = "0-3"
	}
	exampleJSON, _ := json.MarshalIndent(example, "", "  ")

	return fmt.Sprintf(`You are an Industry-Intel Research Assistant and B2B Chemical-Supply Strategist for LeanChems. Analyse the target company and its construction-relevant subsidiaries operating in Ethiopia.

Score the strategic fit for each product category:
%s

Use exactly 4 numbered sections: "1. Company Snapshot", "2. Construction Footprint in Ethiopia", "3. Strategic Fit Assessment", "4. Recommended Next Steps". Keep the total under 800 words and avoid markdown tables.

CRITICAL: At the END of your response, include a JSON block with the Strategic-Fit Matrix scores:
%s

Use the exact category names as keys (lowercase, underscores for spaces).`,
		strings.Join(lines, "\n"), exampleJSON)
}

// scoreKey normalizes a category name into its JSON key form.
func scoreKey(category string) string {
	key := strings.ToLower(category)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, "&", "and")
	return key
}

var (
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe  = regexp.MustCompile(`\*([^*]+)\*`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	citeRe    = regexp.MustCompile(`\[(\d+)\]`)
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	matrixRe  = regexp.MustCompile(`(?is)\{[^{}]*"strategic_fit_matrix"[^{}]*\{[^{}]*\}[^{}]*\}`)
)

// stripMarkdown flattens the formatting the model tends to emit so the
// profile reads cleanly as plain text.
func stripMarkdown(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = citeRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")
	return text
}

// parseFitMatrix extracts the strategic-fit scores from the profile
// text, clamping each to 0-3 and defaulting missing categories to 0.
func parseFitMatrix(text string, categories []string) map[string]int {
	scores := map[string]int{}
	for _, cat := range categories {
		scores[cat] = 0
	}

	match := matrixRe.FindString(text)
	if match == "" {
		return scores
	}

	var parsed struct {
		Matrix map[string]any `json:"strategic_fit_matrix"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return scores
	}

	for _, cat := range categories {
		value, ok := parsed.Matrix[scoreKey(cat)]
		if !ok {
			value, ok = parsed.Matrix[strings.ToLower(cat)]
		}
		if !ok {
			value, ok = parsed.Matrix[cat]
		}
		if !ok {
			continue
		}
		scores[cat] = clampScore(value)
	}
	return scores
}

func clampScore(value any) int {
	var n int
	switch v := value.(type) {
	case float64:
		n = int(v)
	case string:
		fmt.Sscanf(v, "%d", &n)
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}
