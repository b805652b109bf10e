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

type ProductService interface {
	CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]types.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, fields map[string]interface{}) (*types.Product, error)
	DeactivateProduct(ctx context.Context, productID uuid.UUID) error
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) ProductService {
	serviceLog := log.With("service", "ProductService")
	return &productService{
		db:          db,
		log:         serviceLog,
		productRepo: productRepo,
	}
}

func (ps *productService) CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("A product name is required")
	}
	if strings.TrimSpace(product.SKU) == "" {
		return nil, fmt.Errorf("A product SKU is required")
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("Product price cannot be negative")
	}
	if product.Quantity < 0 {
		return nil, fmt.Errorf("Product quantity cannot be negative")
	}

	product.ID = uuid.New()
	created, err := ps.productRepo.Create(ctx, nil, product)
	if err != nil {
		return nil, fmt.Errorf("Failed to create product: %w", err)
	}
	ps.log.Info("Product created", "product_id", created.ID, "sku", created.SKU)
	return created, nil
}

func (ps *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load product: %w", err)
	}
	return product, nil
}

func (ps *productService) ListProducts(ctx context.Context, includeInactive bool) ([]types.Product, error) {
	products, err := ps.productRepo.List(ctx, nil, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("Failed to list products: %w", err)
	}
	return products, nil
}

func (ps *productService) UpdateProduct(ctx context.Context, productID uuid.UUID, fields map[string]interface{}) (*types.Product, error) {
	if err := ps.productRepo.UpdateFields(ctx, nil, productID, fields); err != nil {
		return nil, fmt.Errorf("Failed to update product: %w", err)
	}
	return ps.GetProduct(ctx, productID)
}

func (ps *productService) DeactivateProduct(ctx context.Context, productID uuid.UUID) error {
	if err := ps.productRepo.Deactivate(ctx, nil, productID); err != nil {
		return fmt.Errorf("Failed to deactivate product: %w", err)
	}
	ps.log.Info("Product deactivated", "product_id", productID)
	return nil
}
