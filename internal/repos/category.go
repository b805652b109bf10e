package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, category *types.VitaminCategory) (*types.VitaminCategory, error)
	GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.VitaminCategory, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.VitaminCategory, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) Create(ctx context.Context, tx *gorm.DB, category *types.VitaminCategory) (*types.VitaminCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}

	return category, nil
}

func (cr *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.VitaminCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.VitaminCategory

	if err := transaction.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (cr *categoryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.VitaminCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []types.VitaminCategory

	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (cr *categoryRepo) UpdateFields(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.VitaminCategory{}).
		Where("id = ?", categoryID).
		Updates(fields).Error; err != nil {
		return err
	}

	return nil
}

func (cr *categoryRepo) Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", categoryID).
		Delete(&types.VitaminCategory{}).Error; err != nil {
		return err
	}

	return nil
}
