package types

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackStatus string

const (
	FeedbackPending    FeedbackStatus = "pending"
	FeedbackInProgress FeedbackStatus = "in_progress"
	FeedbackAnswered   FeedbackStatus = "answered"
	FeedbackClosed     FeedbackStatus = "closed"
)

type Feedback struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Email       string         `gorm:"not null;index;column:email" json:"email"`
	Text        string         `gorm:"not null;column:text" json:"text"`
	Response    string         `gorm:"column:response" json:"response,omitempty"`
	Status      FeedbackStatus `gorm:"not null;default:pending;column:status" json:"status"`
	AdminID     *uuid.UUID     `gorm:"type:uuid;column:admin_id" json:"admin_id,omitempty"`
	RespondedAt *time.Time     `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
