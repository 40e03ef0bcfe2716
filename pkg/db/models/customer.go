package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Customer is a CRM customer. DisplayID is the human-facing sequential
// identifier (LC-2024-CUST-0001) minted on create.
type Customer struct {
	CustomerID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"customer_id"`
	CustomerName           string          `gorm:"not null" json:"customer_name"`
	DisplayID              *string         `gorm:"uniqueIndex" json:"display_id,omitempty"`
	SalesStage             *string         `json:"sales_stage,omitempty"`
	ProductAlignmentScores json.RawMessage `gorm:"type:jsonb" json:"product_alignment_scores,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// Interaction is one exchange on a customer's timeline, either a plain
// note or a question plus the assistant's reply.
type Interaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	InputText  *string    `json:"input_text,omitempty"`
	AIResponse *string    `json:"ai_response,omitempty"`
	FileURL    *string    `json:"file_url,omitempty"`
	FileType   *string    `json:"file_type,omitempty"`
	TdsID      *uuid.UUID `gorm:"type:uuid" json:"tds_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}
