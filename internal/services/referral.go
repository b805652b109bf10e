package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

const referralCodeLength = 8

// Unambiguous alphabet, no 0/O or 1/I.
const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrSelfReferral         = errors.New("cannot use your own referral code")
	ErrAlreadyReferred      = errors.New("referral connection already exists")
	ErrInsufficientPoints   = errors.New("insufficient points balance")
)

type ReferralService interface {
	GenerateUniqueCode(ctx context.Context, tx *gorm.DB) (string, error)
	ConnectReferral(ctx context.Context, tx *gorm.DB, referred *types.User, code string) error
	AwardOrderPoints(ctx context.Context, tx *gorm.DB, order *types.Order) error
	SpendPoints(ctx context.Context, userID uuid.UUID, points int, description string) error
	GetReferralInfo(ctx context.Context, userID uuid.UUID) (*types.UserReferralInfo, error)
	GetReferrals(ctx context.Context, userID uuid.UUID) ([]types.Referral, error)
	GetPointsHistory(ctx context.Context, userID uuid.UUID) (*types.PointsHistory, error)
}

type referralService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	referralRepo    repos.ReferralRepo
	referralBaseURL string
}

func NewReferralService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	referralRepo repos.ReferralRepo,
	referralBaseURL string,
) ReferralService {
	serviceLog := log.With("service", "ReferralService")
	return &referralService{
		db:              db,
		log:             serviceLog,
		userRepo:        userRepo,
		referralRepo:    referralRepo,
		referralBaseURL: referralBaseURL,
	}
}

func (rs *referralService) GenerateUniqueCode(ctx context.Context, tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := randomCode(referralCodeLength)
		if err != nil {
			return "", fmt.Errorf("Failed to generate referral code: %w", err)
		}
		exists, err := rs.userRepo.ReferralCodeExists(ctx, tx, code)
		if err != nil {
			return "", fmt.Errorf("Failed to check referral code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("Failed to generate unique referral code")
}

func (rs *referralService) ConnectReferral(ctx context.Context, tx *gorm.DB, referred *types.User, code string) error {
	referrer, err := rs.userRepo.GetByReferralCode(ctx, tx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferralCodeNotFound
		}
		return fmt.Errorf("Failed to look up referral code: %w", err)
	}
	if referrer.ID == referred.ID {
		return ErrSelfReferral
	}

	if _, err := rs.referralRepo.GetByReferredID(ctx, tx, referred.ID); err == nil {
		return ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("Failed to check existing referral: %w", err)
	}

	referral := &types.Referral{
		ID:           uuid.New(),
		ReferrerID:   referrer.ID,
		ReferredID:   referred.ID,
		ReferralCode: code,
		Status:       types.ReferralActive,
	}
	if _, err := rs.referralRepo.Create(ctx, tx, referral); err != nil {
		return fmt.Errorf("Failed to create referral: %w", err)
	}

	referred.ReferredByUserID = &referrer.ID
	rs.log.Info("Referral connected", "referrer_id", referrer.ID, "referred_id", referred.ID)
	return nil
}

// AwardOrderPoints credits the referrer with a share of the order total.
// Orders from users without a referral connection award nothing.
func (rs *referralService) AwardOrderPoints(ctx context.Context, tx *gorm.DB, order *types.Order) error {
	referral, err := rs.referralRepo.GetByReferredID(ctx, tx, order.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("Failed to look up referral: %w", err)
	}
	if referral.Status != types.ReferralActive {
		return nil
	}

	points := int(math.Floor(order.TotalAmount * types.ReferralPercentage))
	if points <= 0 {
		return nil
	}

	referrer, err := rs.userRepo.GetByID(ctx, tx, referral.ReferrerID)
	if err != nil {
		return fmt.Errorf("Failed to load referrer: %w", err)
	}

	newBalance := referrer.PointsBalance + points
	if err := rs.userRepo.UpdateFields(ctx, tx, referrer.ID, map[string]interface{}{
		"points_balance": newBalance,
	}); err != nil {
		return fmt.Errorf("Failed to update referrer balance: %w", err)
	}

	transactionRow := &types.PointTransaction{
		ID:                 uuid.New(),
		UserID:             referrer.ID,
		TransactionType:    types.TransactionEarned,
		PointsAmount:       points,
		PointsBalanceAfter: newBalance,
		SourceType:         types.SourceReferral,
		ReferralID:         &referral.ID,
		OrderID:            &order.ID,
		Description:        fmt.Sprintf("Referral reward for order %s", order.OrderNumber),
	}
	if _, err := rs.referralRepo.CreateTransaction(ctx, tx, transactionRow); err != nil {
		return fmt.Errorf("Failed to create point transaction: %w", err)
	}

	referralFields := map[string]interface{}{
		"total_orders":        referral.TotalOrders + 1,
		"total_earned_points": referral.TotalEarnedPoints + points,
	}
	if referral.FirstOrderDate == nil {
		now := time.Now()
		referralFields["first_order_date"] = now
		referralFields["first_order_id"] = order.ID
	}
	if err := rs.referralRepo.UpdateFields(ctx, tx, referral.ID, referralFields); err != nil {
		return fmt.Errorf("Failed to update referral: %w", err)
	}

	rs.log.Info("Awarded referral points", "referrer_id", referrer.ID, "order_id", order.ID, "points", points)
	return nil
}

func (rs *referralService) SpendPoints(ctx context.Context, userID uuid.UUID, points int, description string) error {
	if points <= 0 {
		return fmt.Errorf("Points to spend must be positive")
	}
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := rs.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("Failed to load user: %w", err)
		}
		if user.PointsBalance < points {
			return ErrInsufficientPoints
		}

		newBalance := user.PointsBalance - points
		if err := rs.userRepo.UpdateFields(ctx, tx, userID, map[string]interface{}{
			"points_balance": newBalance,
		}); err != nil {
			return fmt.Errorf("Failed to update points balance: %w", err)
		}

		transactionRow := &types.PointTransaction{
			ID:                 uuid.New(),
			UserID:             userID,
			TransactionType:    types.TransactionSpent,
			PointsAmount:       -points,
			PointsBalanceAfter: newBalance,
			SourceType:         types.SourceUsage,
			Description:        description,
		}
		if _, err := rs.referralRepo.CreateTransaction(ctx, tx, transactionRow); err != nil {
			return fmt.Errorf("Failed to create point transaction: %w", err)
		}
		return nil
	})
}

func (rs *referralService) GetReferralInfo(ctx context.Context, userID uuid.UUID) (*types.UserReferralInfo, error) {
	user, err := rs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load user: %w", err)
	}

	stats, err := rs.referralRepo.StatsByReferrerID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load referral stats: %w", err)
	}

	return &types.UserReferralInfo{
		UserID:            user.ID,
		ReferralCode:      user.ReferralCode,
		ReferralURL:       fmt.Sprintf("%s?ref=%s", rs.referralBaseURL, user.ReferralCode),
		PointsBalance:     user.PointsBalance,
		ReferredByUserID:  user.ReferredByUserID,
		TotalReferrals:    stats.TotalReferrals,
		ActiveReferrals:   stats.ActiveReferrals,
		TotalEarnedPoints: stats.TotalEarnedPoints,
	}, nil
}

func (rs *referralService) GetReferrals(ctx context.Context, userID uuid.UUID) ([]types.Referral, error) {
	referrals, err := rs.referralRepo.GetByReferrerID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load referrals: %w", err)
	}
	return referrals, nil
}

func (rs *referralService) GetPointsHistory(ctx context.Context, userID uuid.UUID) (*types.PointsHistory, error) {
	user, err := rs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load user: %w", err)
	}

	transactions, err := rs.referralRepo.GetTransactionsByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load point transactions: %w", err)
	}

	history := &types.PointsHistory{
		Transactions:   transactions,
		CurrentBalance: user.PointsBalance,
	}
	for _, transaction := range transactions {
		if transaction.PointsAmount > 0 {
			history.TotalEarned += transaction.PointsAmount
		} else {
			history.TotalSpent += -transaction.PointsAmount
		}
	}
	return history, nil
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf), nil
}
