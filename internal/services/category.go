package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, category *types.VitaminCategory) (*types.VitaminCategory, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.VitaminCategory, error)
	ListCategories(ctx context.Context) ([]types.VitaminCategory, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, fields map[string]interface{}) (*types.VitaminCategory, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	serviceLog := log.With("service", "CategoryService")
	return &categoryService{
		db:           db,
		log:          serviceLog,
		categoryRepo: categoryRepo,
	}
}

func (cs *categoryService) CreateCategory(ctx context.Context, category *types.VitaminCategory) (*types.VitaminCategory, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, fmt.Errorf("A category name is required")
	}
	category.ID = uuid.New()
	created, err := cs.categoryRepo.Create(ctx, nil, category)
	if err != nil {
		return nil, fmt.Errorf("Failed to create category: %w", err)
	}
	return created, nil
}

func (cs *categoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.VitaminCategory, error) {
	category, err := cs.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load category: %w", err)
	}
	return category, nil
}

func (cs *categoryService) ListCategories(ctx context.Context) ([]types.VitaminCategory, error) {
	categories, err := cs.categoryRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to list categories: %w", err)
	}
	return categories, nil
}

func (cs *categoryService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, fields map[string]interface{}) (*types.VitaminCategory, error) {
	if err := cs.categoryRepo.UpdateFields(ctx, nil, categoryID, fields); err != nil {
		return nil, fmt.Errorf("Failed to update category: %w", err)
	}
	return cs.GetCategory(ctx, categoryID)
}

func (cs *categoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if err := cs.categoryRepo.Delete(ctx, nil, categoryID); err != nil {
		return fmt.Errorf("Failed to delete category: %w", err)
	}
	return nil
}
