package crm

import (
	"time"

	"github.com/google/uuid"
)

type CreateCustomerInput struct {
	CustomerName string  `json:"customer_name" validate:"required"`
	DisplayID    *string `json:"display_id"`
}

type UpdateCustomerInput struct {
	CustomerName *string `json:"customer_name"`
	DisplayID    *string `json:"display_id"`
	SalesStage   *string `json:"sales_stage"`
}

type CreateInteractionInput struct {
	UserID     *uuid.UUID `json:"user_id"`
	InputText  *string    `json:"input_text"`
	AIResponse *string    `json:"ai_response"`
	FileURL    *string    `json:"file_url"`
	FileType   *string    `json:"file_type"`
	TdsID      *uuid.UUID `json:"tds_id"`
}

type UpdateInteractionInput struct {
	InputText  *string    `json:"input_text"`
	AIResponse *string    `json:"ai_response"`
	FileURL    *string    `json:"file_url"`
	FileType   *string    `json:"file_type"`
	TdsID      *uuid.UUID `json:"tds_id"`
}

type ChatInput struct {
	UserID      *uuid.UUID `json:"user_id"`
	InputText   string     `json:"input_text" validate:"required"`
	TdsID       *uuid.UUID `json:"tds_id"`
	FileURL     *string    `json:"file_url"`
	FileType    *string    `json:"file_type"`
	FileContent *string    `json:"file_content"`
}

type InteractionFilter struct {
	Start *time.Time
	End   *time.Time
}

// DashboardMetrics summarises CRM activity for the dashboard.
type DashboardMetrics struct {
	TotalCustomers            int64            `json:"total_customers"`
	TotalInteractions         int64            `json:"total_interactions"`
	CustomersWithInteractions int64            `json:"customers_with_interactions"`
	SalesStagesDistribution   map[string]int64 `json:"sales_stages_distribution"`
}

// BackfillResult reports what a sales-stage backfill run touched.
type BackfillResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}
