package types

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipping   OrderStatus = "shipping"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null;column:order_number" json:"order_number"`
	Status          OrderStatus `gorm:"not null;default:processing;column:status" json:"status"`
	TotalAmount     float64     `gorm:"not null;column:total_amount" json:"total_amount"`
	ShippingAddress string      `gorm:"not null;column:shipping_address" json:"shipping_address"`
	Phone           string      `gorm:"not null;column:phone" json:"phone"`
	Notes           string      `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index;column:order_id" json:"order_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;column:product_id" json:"product_id"`
	Quantity   int       `gorm:"not null;column:quantity" json:"quantity"`
	UnitPrice  float64   `gorm:"not null;column:unit_price" json:"unit_price"`
	TotalPrice float64   `gorm:"not null;column:total_price" json:"total_price"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type OrderSummary struct {
	TotalOrders    int64                 `json:"total_orders"`
	TotalAmount    float64               `json:"total_amount"`
	OrdersByStatus map[OrderStatus]int64 `json:"orders_by_status"`
}
