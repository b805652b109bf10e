package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AgeGroup string

const (
	AgeUnder18 AgeGroup = "under_18"
	Age18To30  AgeGroup = "18_30"
	Age31To45  AgeGroup = "31_45"
	Age46To60  AgeGroup = "46_60"
	Age60Plus  AgeGroup = "60_plus"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivityNone  ActivityLevel = "none"
	Activity1To2  ActivityLevel = "1_2_week"
	Activity3To5  ActivityLevel = "3_5_week"
	ActivityDaily ActivityLevel = "daily"
)

type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressMedium   StressLevel = "medium"
	StressHigh     StressLevel = "high"
	StressConstant StressLevel = "constant"
)

type Nutrition string

const (
	NutritionDaily Nutrition = "daily"
	Nutrition3To4  Nutrition = "3_4_week"
	NutritionRare  Nutrition = "rare"
)

// SurveyData is the request payload of a survey submission. Submitting again
// fully replaces the previous answers.
type SurveyData struct {
	AgeGroup        AgeGroup      `json:"age_group" binding:"required"`
	Gender          Gender        `json:"gender" binding:"required"`
	ActivityLevel   ActivityLevel `json:"activity_level" binding:"required"`
	StressLevel     StressLevel   `json:"stress_level" binding:"required"`
	Nutrition       Nutrition     `json:"nutrition" binding:"required"`
	Restrictions    []string      `json:"restrictions"`
	Complaints      []string      `json:"complaints"`
	Goals           []string      `json:"goals"`
	VitaminsCurrent []string      `json:"vitamins_current"`
}

// VitaminRule is a named condition set plus the vitamins it recommends.
// Condition is a JSON object mapping a condition key to either a single
// expected value or a list of acceptable values.
type VitaminRule struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string                      `gorm:"not null;column:name" json:"name"`
	Condition datatypes.JSON              `gorm:"not null;column:condition" json:"condition"`
	Vitamins  datatypes.JSONSlice[string] `gorm:"column:vitamins" json:"vitamins"`
	Priority  int                         `gorm:"not null;default:1;column:priority" json:"priority"`
	IsActive  bool                        `gorm:"not null;column:is_active" json:"is_active"`
	CreatedAt time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updated_at"`
}

func (VitaminRule) TableName() string {
	return "vitamin_rules"
}

// RuleProduct links a vitamin rule to a product it recommends.
type RuleProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RuleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rule_product;column:rule_id" json:"rule_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rule_product;column:product_id" json:"product_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (RuleProduct) TableName() string {
	return "rule_products"
}
