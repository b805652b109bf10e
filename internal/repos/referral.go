package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type ReferralStats struct {
	TotalReferrals    int64
	ActiveReferrals   int64
	TotalEarnedPoints int64
}

type ReferralRepo interface {
	Create(ctx context.Context, tx *gorm.DB, referral *types.Referral) (*types.Referral, error)
	GetByReferredID(ctx context.Context, tx *gorm.DB, referredID uuid.UUID) (*types.Referral, error)
	GetByReferrerID(ctx context.Context, tx *gorm.DB, referrerID uuid.UUID) ([]types.Referral, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, referralID uuid.UUID, fields map[string]interface{}) error
	StatsByReferrerID(ctx context.Context, tx *gorm.DB, referrerID uuid.UUID) (*ReferralStats, error)
	CreateTransaction(ctx context.Context, tx *gorm.DB, transactionRow *types.PointTransaction) (*types.PointTransaction, error)
	GetTransactionsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.PointTransaction, error)
}

type referralRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferralRepo(db *gorm.DB, baseLog *logger.Logger) ReferralRepo {
	repoLog := baseLog.With("repo", "ReferralRepo")
	return &referralRepo{db: db, log: repoLog}
}

func (rr *referralRepo) Create(ctx context.Context, tx *gorm.DB, referral *types.Referral) (*types.Referral, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(referral).Error; err != nil {
		return nil, err
	}

	return referral, nil
}

func (rr *referralRepo) GetByReferredID(ctx context.Context, tx *gorm.DB, referredID uuid.UUID) (*types.Referral, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Referral

	if err := transaction.WithContext(ctx).
		Where("referred_id = ?", referredID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (rr *referralRepo) GetByReferrerID(ctx context.Context, tx *gorm.DB, referrerID uuid.UUID) ([]types.Referral, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []types.Referral

	if err := transaction.WithContext(ctx).
		Preload("Referred").
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rr *referralRepo) UpdateFields(ctx context.Context, tx *gorm.DB, referralID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Referral{}).
		Where("id = ?", referralID).
		Updates(fields).Error; err != nil {
		return err
	}

	return nil
}

func (rr *referralRepo) StatsByReferrerID(ctx context.Context, tx *gorm.DB, referrerID uuid.UUID) (*ReferralStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	stats := &ReferralStats{}

	if err := transaction.WithContext(ctx).
		Model(&types.Referral{}).
		Where("referrer_id = ?", referrerID).
		Count(&stats.TotalReferrals).Error; err != nil {
		return nil, err
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Referral{}).
		Where("referrer_id = ? AND status = ?", referrerID, types.ReferralActive).
		Count(&stats.ActiveReferrals).Error; err != nil {
		return nil, err
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Referral{}).
		Select("COALESCE(SUM(total_earned_points), 0)").
		Where("referrer_id = ?", referrerID).
		Scan(&stats.TotalEarnedPoints).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (rr *referralRepo) CreateTransaction(ctx context.Context, tx *gorm.DB, transactionRow *types.PointTransaction) (*types.PointTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(transactionRow).Error; err != nil {
		return nil, err
	}

	return transactionRow, nil
}

func (rr *referralRepo) GetTransactionsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.PointTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []types.PointTransaction

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
