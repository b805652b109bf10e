package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VitaminCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (VitaminCategory) TableName() string {
	return "vitamin_categories"
}

// Product restriction tags are contraindications: a profile restriction
// appearing in the product's set is a hard exclusion signal for scoring.
type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SKU         string     `gorm:"uniqueIndex;not null;column:sku" json:"sku"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description,omitempty"`
	ImageURL    string     `gorm:"column:image_url" json:"image_url,omitempty"`
	Price       float64    `gorm:"not null;column:price" json:"price"`
	Size        string     `gorm:"column:size" json:"size,omitempty"`
	Quantity    int        `gorm:"not null;default:0;column:quantity" json:"quantity"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;column:category_id" json:"category_id,omitempty"`

	Restrictions     datatypes.JSONSlice[string] `gorm:"column:restrictions" json:"restrictions"`
	TargetComplaints datatypes.JSONSlice[string] `gorm:"column:target_complaints" json:"target_complaints"`
	TargetGoals      datatypes.JSONSlice[string] `gorm:"column:target_goals" json:"target_goals"`
	VitaminType      datatypes.JSONSlice[string] `gorm:"column:vitamin_type" json:"vitamin_type"`
	Benefits         datatypes.JSONSlice[string] `gorm:"column:benefits" json:"benefits"`

	Dosage    string    `gorm:"column:dosage" json:"dosage,omitempty"`
	IsActive  bool      `gorm:"not null;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Category *VitaminCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
