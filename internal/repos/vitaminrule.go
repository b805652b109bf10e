package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type VitaminRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.VitaminRule) (*types.VitaminRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (*types.VitaminRule, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]types.VitaminRule, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.VitaminRule, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error
	AttachProduct(ctx context.Context, tx *gorm.DB, ruleID, productID uuid.UUID) error
	DetachProduct(ctx context.Context, tx *gorm.DB, ruleID, productID uuid.UUID) error
	GetActiveRuleProducts(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) ([]types.Product, error)
}

type vitaminRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVitaminRuleRepo(db *gorm.DB, baseLog *logger.Logger) VitaminRuleRepo {
	repoLog := baseLog.With("repo", "VitaminRuleRepo")
	return &vitaminRuleRepo{db: db, log: repoLog}
}

func (vr *vitaminRuleRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.VitaminRule) (*types.VitaminRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}

	return rule, nil
}

func (vr *vitaminRuleRepo) GetByID(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (*types.VitaminRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var result types.VitaminRule

	if err := transaction.WithContext(ctx).
		Where("id = ?", ruleID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetActive loads rules in ascending priority, ties broken by creation time,
// so downstream evaluation order is stable.
func (vr *vitaminRuleRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]types.VitaminRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []types.VitaminRule

	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (vr *vitaminRuleRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.VitaminRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []types.VitaminRule

	if err := transaction.WithContext(ctx).
		Order("priority ASC").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (vr *vitaminRuleRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.VitaminRule{}).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (vr *vitaminRuleRepo) UpdateFields(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.VitaminRule{}).
		Where("id = ?", ruleID).
		Updates(fields).Error; err != nil {
		return err
	}

	return nil
}

func (vr *vitaminRuleRepo) Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if err := transaction.WithContext(ctx).
		Where("rule_id = ?", ruleID).
		Delete(&types.RuleProduct{}).Error; err != nil {
		return err
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", ruleID).
		Delete(&types.VitaminRule{}).Error; err != nil {
		return err
	}

	return nil
}

func (vr *vitaminRuleRepo) AttachProduct(ctx context.Context, tx *gorm.DB, ruleID, productID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	link := types.RuleProduct{RuleID: ruleID, ProductID: productID}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error; err != nil {
		return err
	}

	return nil
}

func (vr *vitaminRuleRepo) DetachProduct(ctx context.Context, tx *gorm.DB, ruleID, productID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if err := transaction.WithContext(ctx).
		Where("rule_id = ? AND product_id = ?", ruleID, productID).
		Delete(&types.RuleProduct{}).Error; err != nil {
		return err
	}

	return nil
}

func (vr *vitaminRuleRepo) GetActiveRuleProducts(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []types.Product

	if err := transaction.WithContext(ctx).
		Joins("JOIN rule_products ON rule_products.product_id = products.id").
		Where("rule_products.rule_id = ?", ruleID).
		Where("products.is_active = ?", true).
		Order("rule_products.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
