package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

var (
	ErrEmptyOrder          = errors.New("order has no items")
	ErrOrderNotOwned       = errors.New("order does not belong to the user")
	ErrOrderNotCancellable = errors.New("only processing orders can be cancelled")
)

type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" binding:"required"`
	ShippingAddress string           `json:"shipping_address" binding:"required"`
	Phone           string           `json:"phone" binding:"required"`
	Notes           string           `json:"notes"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*types.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]types.Order, error)
	GetOrderSummary(ctx context.Context, userID uuid.UUID) (*types.OrderSummary, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error)
	ListOrders(ctx context.Context) ([]types.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status types.OrderStatus) (*types.Order, error)
}

type orderService struct {
	db              *gorm.DB
	log             *logger.Logger
	orderRepo       repos.OrderRepo
	productRepo     repos.ProductRepo
	referralService ReferralService
}

func NewOrderService(
	db *gorm.DB,
	log *logger.Logger,
	orderRepo repos.OrderRepo,
	productRepo repos.ProductRepo,
	referralService ReferralService,
) OrderService {
	serviceLog := log.With("service", "OrderService")
	return &orderService{
		db:              db,
		log:             serviceLog,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		referralService: referralService,
	}
}

// CreateOrder checks and decrements stock for every item inside one
// transaction, so concurrent orders cannot oversell, then awards referral
// points to the buyer's referrer if one exists.
func (os *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*types.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var created *types.Order
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, pErr := os.productRepo.GetByIDs(ctx, tx, productIDs)
		if pErr != nil {
			return fmt.Errorf("Failed to load order products: %w", pErr)
		}
		productByID := make(map[uuid.UUID]types.Product, len(products))
		for _, product := range products {
			productByID[product.ID] = product
		}

		order := &types.Order{
			ID:              uuid.New(),
			UserID:          userID,
			OrderNumber:     generateOrderNumber(),
			Status:          types.OrderProcessing,
			ShippingAddress: input.ShippingAddress,
			Phone:           input.Phone,
			Notes:           input.Notes,
		}

		for _, item := range input.Items {
			product, ok := productByID[item.ProductID]
			if !ok {
				return fmt.Errorf("Product %s not found", item.ProductID)
			}
			if !product.IsActive {
				return fmt.Errorf("Product %s is not available", product.Name)
			}
			if item.Quantity <= 0 {
				return fmt.Errorf("Quantity for product %s must be positive", product.Name)
			}

			if dErr := os.productRepo.DecrementStock(ctx, tx, product.ID, item.Quantity); dErr != nil {
				if errors.Is(dErr, repos.ErrInsufficientStock) {
					return fmt.Errorf("Not enough stock for product %s: %w", product.Name, dErr)
				}
				return fmt.Errorf("Failed to decrement stock: %w", dErr)
			}

			totalPrice := product.Price * float64(item.Quantity)
			order.Items = append(order.Items, types.OrderItem{
				ID:         uuid.New(),
				OrderID:    order.ID,
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: totalPrice,
			})
			order.TotalAmount += totalPrice
		}

		if _, cErr := os.orderRepo.Create(ctx, tx, order); cErr != nil {
			return fmt.Errorf("Failed to create order: %w", cErr)
		}

		if rErr := os.referralService.AwardOrderPoints(ctx, tx, order); rErr != nil {
			return fmt.Errorf("Failed to award referral points: %w", rErr)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	os.log.Info("Order created", "order_id", created.ID, "order_number", created.OrderNumber, "total", created.TotalAmount)
	return created, nil
}

func (os *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error) {
	order, err := os.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

func (os *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]types.Order, error) {
	orders, err := os.orderRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load user orders: %w", err)
	}
	return orders, nil
}

func (os *orderService) GetOrderSummary(ctx context.Context, userID uuid.UUID) (*types.OrderSummary, error) {
	summary, err := os.orderRepo.SummaryByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load order summary: %w", err)
	}
	return summary, nil
}

// CancelOrder restores stock for every item. Only orders still in processing
// can be cancelled by the owner.
func (os *orderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error) {
	var cancelled *types.Order
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, oErr := os.orderRepo.GetByID(ctx, tx, orderID)
		if oErr != nil {
			return fmt.Errorf("Failed to load order: %w", oErr)
		}
		if order.UserID != userID {
			return ErrOrderNotOwned
		}
		if order.Status != types.OrderProcessing {
			return ErrOrderNotCancellable
		}

		for _, item := range order.Items {
			if iErr := os.productRepo.IncrementStock(ctx, tx, item.ProductID, item.Quantity); iErr != nil {
				return fmt.Errorf("Failed to restore stock: %w", iErr)
			}
		}

		if sErr := os.orderRepo.UpdateStatus(ctx, tx, orderID, types.OrderCancelled); sErr != nil {
			return fmt.Errorf("Failed to update order status: %w", sErr)
		}
		order.Status = types.OrderCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	os.log.Info("Order cancelled", "order_id", orderID)
	return cancelled, nil
}

func (os *orderService) ListOrders(ctx context.Context) ([]types.Order, error) {
	orders, err := os.orderRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to list orders: %w", err)
	}
	return orders, nil
}

func (os *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status types.OrderStatus) (*types.Order, error) {
	switch status {
	case types.OrderProcessing, types.OrderShipping, types.OrderDelivered, types.OrderCancelled:
	default:
		return nil, fmt.Errorf("Invalid order status: %s", status)
	}
	if err := os.orderRepo.UpdateStatus(ctx, nil, orderID, status); err != nil {
		return nil, fmt.Errorf("Failed to update order status: %w", err)
	}
	order, err := os.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load order: %w", err)
	}
	return order, nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%04d", time.Now().Format("20060102"), rand.Intn(10000))
}
