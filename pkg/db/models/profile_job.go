package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// ProfileUpdateJob queues a customer profile refresh for the background
// worker. Claiming flips queued to processing atomically so concurrent
// workers never run the same job twice.
type ProfileUpdateJob struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status      enums.JobStatus `gorm:"not null;index;default:queued" json:"status"`
	Priority    int             `gorm:"not null;default:0" json:"priority"`
	RunAfter    *time.Time      `json:"run_after,omitempty"`
	Attempts    int             `gorm:"not null;default:0" json:"attempts"`
	LastError   *string         `json:"last_error,omitempty"`
	ClaimedAt   *time.Time      `json:"claimed_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (ProfileUpdateJob) TableName() string {
	return "profile_update_jobs"
}
