package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

// ErrInsufficientStock is returned when a stock decrement would drive the
// quantity negative.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]types.Product, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]types.Product, error)
	List(ctx context.Context, tx *gorm.DB, includeInactive bool) ([]types.Product, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, productID uuid.UUID, fields map[string]interface{}) error
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error
	IncrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error
	Deactivate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}

	return product, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Product

	if err := transaction.WithContext(ctx).
		Preload("Category").
		Where("id = ?", productID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (pr *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []types.Product

	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (pr *productRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []types.Product

	if err := transaction.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (pr *productRepo) List(ctx context.Context, tx *gorm.DB, includeInactive bool) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).Preload("Category").Order("created_at ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var results []types.Product
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (pr *productRepo) UpdateFields(ctx context.Context, tx *gorm.DB, productID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Updates(fields).Error; err != nil {
		return err
	}

	return nil
}

// DecrementStock guards against oversell at the database level: the update
// only applies while enough quantity remains.
func (pr *productRepo) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func (pr *productRepo) IncrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
		return err
	}

	return nil
}

func (pr *productRepo) Deactivate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Update("is_active", false).Error; err != nil {
		return err
	}

	return nil
}
