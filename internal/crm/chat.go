package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/ai"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// aiChatter is the slice of the Gemini client the CRM needs.
type aiChatter interface {
	Generate(ctx context.Context, systemPrompt string, messages []ai.Message) (string, error)
	Configured() bool
}

// chatContextSize is how many past interactions seed the conversation.
const chatContextSize = 10

const chatSystemPrompt = `You are a sales assistant for LeanChems, a chemical trading company
operating in Ethiopia and Kenya. You help the sales team manage customer
relationships, draft responses, and analyse customer intent.
Answer concisely and professionally. When product details are referenced,
keep units and chemical names exact.`

const stageSystemPrompt = `You classify a customer into one of the seven stages of the
Brian Tracy sales process:
1. Prospecting
2. Building rapport and trust
3. Identifying needs
4. Presenting
5. Answering objections
6. Closing the sale
7. Getting resales and referrals
Reply with a single digit between 1 and 7 and nothing else.`

// ChatWithCustomer sends the user's message to the model with the
// customer's recent interaction history as context, records the exchange
// as a new interaction, and refreshes the customer's sales stage on a
// best-effort basis.
func (s *Service) ChatWithCustomer(ctx context.Context, customerID uuid.UUID, input ChatInput) (*models.Interaction, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(input.InputText)
	if text == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "input_text is required")
	}
	if !s.ai.Configured() {
		return nil, apperrors.New(apperrors.CodeDependency, "AI assistant is not configured")
	}

	messages, err := s.buildChatContext(ctx, customerID)
	if err != nil {
		return nil, err
	}

	userText := text
	if input.FileContent != nil && *input.FileContent != "" {
		userText = fmt.Sprintf("%s\n\nAttached document:\n%s", text, *input.FileContent)
	}
	messages = append(messages, ai.Message{Role: "user", Text: userText})

	system := fmt.Sprintf("%s\n\nCustomer: %s", chatSystemPrompt, customer.CustomerName)
	if customer.SalesStage != nil {
		system += fmt.Sprintf("\nCurrent sales stage: %s", *customer.SalesStage)
	}

	reply, err := s.ai.Generate(ctx, system, messages)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return nil, apperrors.New(apperrors.CodeDependency, "AI assistant is not configured")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "AI request failed")
	}

	interaction := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customerID,
		UserID:     input.UserID,
		InputText:  &text,
		AIResponse: &reply,
		FileURL:    input.FileURL,
		FileType:   input.FileType,
		TdsID:      input.TdsID,
	}
	if err := s.repo.CreateInteraction(ctx, interaction); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to store interaction")
	}

	// Stage refresh failures never fail the chat itself.
	if stage, err := s.AnalyzeSalesStage(ctx, customerID); err == nil {
		customer.SalesStage = &stage
		if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "failed to persist sales stage after chat")
		}
	} else {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "sales stage analysis failed after chat")
	}

	return interaction, nil
}

// buildChatContext loads the most recent interactions and replays them
// oldest first as alternating user/model turns.
func (s *Service) buildChatContext(ctx context.Context, customerID uuid.UUID) ([]ai.Message, error) {
	recent, _, err := s.repo.ListInteractions(ctx, customerID, InteractionFilter{},
		pagination.Page{Limit: chatContextSize})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load interaction history")
	}

	messages := make([]ai.Message, 0, len(recent)*2)
	for i := len(recent) - 1; i >= 0; i-- {
		interaction := recent[i]
		if interaction.InputText != nil && *interaction.InputText != "" {
			messages = append(messages, ai.Message{Role: "user", Text: *interaction.InputText})
		}
		if interaction.AIResponse != nil && *interaction.AIResponse != "" {
			messages = append(messages, ai.Message{Role: "model", Text: *interaction.AIResponse})
		}
	}
	return messages, nil
}

// AnalyzeSalesStage asks the model to classify the customer's current
// sales stage from their interaction history. Unparseable replies fall
// back to stage "1".
func (s *Service) AnalyzeSalesStage(ctx context.Context, customerID uuid.UUID) (string, error) {
	if !s.ai.Configured() {
		return "", apperrors.New(apperrors.CodeDependency, "AI assistant is not configured")
	}

	messages, err := s.buildChatContext(ctx, customerID)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "1", nil
	}
	messages = append(messages, ai.Message{
		Role: "user",
		Text: "Based on the conversation so far, which sales stage is this customer in?",
	})

	reply, err := s.ai.Generate(ctx, stageSystemPrompt, messages)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "sales stage analysis failed")
	}
	return parseStageReply(reply), nil
}

// parseStageReply extracts the first digit 1-7 from a model reply.
func parseStageReply(reply string) string {
	for _, r := range reply {
		if unicode.IsDigit(r) && r >= '1' && r <= '7' {
			return string(r)
		}
	}
	return "1"
}

// AutoFillSalesStage analyses and persists the stage for one customer.
func (s *Service) AutoFillSalesStage(ctx context.Context, customerID uuid.UUID) (string, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}
	stage, err := s.AnalyzeSalesStage(ctx, customerID)
	if err != nil {
		return "", err
	}
	customer.SalesStage = &stage
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "failed to persist sales stage")
	}
	return stage, nil
}

// BackfillSalesStages fills in the stage for every customer that has
// none. Individual failures are counted, not fatal.
func (s *Service) BackfillSalesStages(ctx context.Context) (*BackfillResult, error) {
	customers, err := s.repo.CustomersWithoutStage(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list customers without a stage")
	}

	result := &BackfillResult{}
	for i := range customers {
		customer := &customers[i]
		stage, err := s.AnalyzeSalesStage(ctx, customer.CustomerID)
		if err != nil {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "sales stage backfill failed for customer")
			result.Errors++
			continue
		}
		if stage == "1" {
			// Nothing learned beyond the default; leave untouched rows alone.
			result.Skipped++
			continue
		}
		customer.SalesStage = &stage
		if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "failed to persist backfilled sales stage")
			result.Errors++
			continue
		}
		result.Updated++
	}
	return result, nil
}
