package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error)
	GetByID(ctx context.Context, tx *gorm.DB, feedbackID uuid.UUID) (*types.Feedback, error)
	List(ctx context.Context, tx *gorm.DB, status types.FeedbackStatus) ([]types.Feedback, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, feedbackID uuid.UUID, fields map[string]interface{}) error
	CountRecentByEmail(ctx context.Context, tx *gorm.DB, email string, since time.Time) (int64, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if err := transaction.WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, err
	}

	return feedback, nil
}

func (fr *feedbackRepo) GetByID(ctx context.Context, tx *gorm.DB, feedbackID uuid.UUID) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var result types.Feedback

	if err := transaction.WithContext(ctx).
		Where("id = ?", feedbackID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (fr *feedbackRepo) List(ctx context.Context, tx *gorm.DB, status types.FeedbackStatus) ([]types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	query := transaction.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var results []types.Feedback
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (fr *feedbackRepo) UpdateFields(ctx context.Context, tx *gorm.DB, feedbackID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Feedback{}).
		Where("id = ?", feedbackID).
		Updates(fields).Error; err != nil {
		return err
	}

	return nil
}

func (fr *feedbackRepo) CountRecentByEmail(ctx context.Context, tx *gorm.DB, email string, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.Feedback{}).
		Where("email = ? AND created_at > ?", email, since).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
