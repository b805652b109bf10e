package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/normalization"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

// One message per email per window keeps the public form from being flooded.
const (
	feedbackRateWindow = time.Hour
	feedbackRateLimit  = 3
)

var ErrFeedbackRateLimited = errors.New("too many feedback messages, try again later")

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, name, email, text string) (*types.Feedback, error)
	ListFeedback(ctx context.Context, status types.FeedbackStatus) ([]types.Feedback, error)
	RespondFeedback(ctx context.Context, feedbackID, adminID uuid.UUID, response string) (*types.Feedback, error)
	UpdateStatus(ctx context.Context, feedbackID uuid.UUID, status types.FeedbackStatus) (*types.Feedback, error)
}

type feedbackService struct {
	db           *gorm.DB
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
}

func NewFeedbackService(db *gorm.DB, log *logger.Logger, feedbackRepo repos.FeedbackRepo) FeedbackService {
	serviceLog := log.With("service", "FeedbackService")
	return &feedbackService{
		db:           db,
		log:          serviceLog,
		feedbackRepo: feedbackRepo,
	}
}

func (fs *feedbackService) SubmitFeedback(ctx context.Context, name, email, text string) (*types.Feedback, error) {
	name = strings.TrimSpace(name)
	email = normalization.ParseInputString(email)
	text = strings.TrimSpace(text)

	if name == "" {
		return nil, fmt.Errorf("A name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("A valid email is required")
	}
	if text == "" {
		return nil, fmt.Errorf("A message is required")
	}

	recent, err := fs.feedbackRepo.CountRecentByEmail(ctx, nil, email, time.Now().Add(-feedbackRateWindow))
	if err != nil {
		return nil, fmt.Errorf("Failed to check feedback rate: %w", err)
	}
	if recent >= feedbackRateLimit {
		return nil, ErrFeedbackRateLimited
	}

	feedback := &types.Feedback{
		ID:     uuid.New(),
		Name:   name,
		Email:  email,
		Text:   text,
		Status: types.FeedbackPending,
	}
	if _, err := fs.feedbackRepo.Create(ctx, nil, feedback); err != nil {
		return nil, fmt.Errorf("Failed to create feedback: %w", err)
	}

	fs.log.Info("Feedback submitted", "feedback_id", feedback.ID)
	return feedback, nil
}

func (fs *feedbackService) ListFeedback(ctx context.Context, status types.FeedbackStatus) ([]types.Feedback, error) {
	feedback, err := fs.feedbackRepo.List(ctx, nil, status)
	if err != nil {
		return nil, fmt.Errorf("Failed to list feedback: %w", err)
	}
	return feedback, nil
}

func (fs *feedbackService) RespondFeedback(ctx context.Context, feedbackID, adminID uuid.UUID, response string) (*types.Feedback, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("A response text is required")
	}

	now := time.Now()
	if err := fs.feedbackRepo.UpdateFields(ctx, nil, feedbackID, map[string]interface{}{
		"response":     response,
		"status":       types.FeedbackAnswered,
		"admin_id":     adminID,
		"responded_at": now,
	}); err != nil {
		return nil, fmt.Errorf("Failed to respond to feedback: %w", err)
	}

	return fs.feedbackRepo.GetByID(ctx, nil, feedbackID)
}

func (fs *feedbackService) UpdateStatus(ctx context.Context, feedbackID uuid.UUID, status types.FeedbackStatus) (*types.Feedback, error) {
	switch status {
	case types.FeedbackPending, types.FeedbackInProgress, types.FeedbackAnswered, types.FeedbackClosed:
	default:
		return nil, fmt.Errorf("Invalid feedback status: %s", status)
	}
	if err := fs.feedbackRepo.UpdateFields(ctx, nil, feedbackID, map[string]interface{}{
		"status": status,
	}); err != nil {
		return nil, fmt.Errorf("Failed to update feedback status: %w", err)
	}
	return fs.feedbackRepo.GetByID(ctx, nil, feedbackID)
}
