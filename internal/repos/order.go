package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error)
	GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error)
	GetByOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber string) (*types.Order, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.Order, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Order, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status types.OrderStatus) error
	SummaryByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OrderSummary, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	repoLog := baseLog.With("repo", "OrderRepo")
	return &orderRepo{db: db, log: repoLog}
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if err := transaction.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}

	return order, nil
}

func (or *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var result types.Order

	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", orderID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (or *orderRepo) GetByOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber string) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var result types.Order

	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("order_number = ?", orderNumber).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (or *orderRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []types.Order

	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (or *orderRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []types.Order

	if err := transaction.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (or *orderRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (or *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status types.OrderStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error; err != nil {
		return err
	}

	return nil
}

func (or *orderRepo) SummaryByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OrderSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	summary := &types.OrderSummary{
		OrdersByStatus: make(map[types.OrderStatus]int64),
	}

	type statusRow struct {
		Status types.OrderStatus
		Count  int64
		Amount float64
	}
	var rows []statusRow

	if err := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		summary.OrdersByStatus[row.Status] = row.Count
		summary.TotalOrders += row.Count
		summary.TotalAmount += row.Amount
	}

	return summary, nil
}
