package types

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionEarned  TransactionType = "earned"
	TransactionSpent   TransactionType = "spent"
	TransactionExpired TransactionType = "expired"
	TransactionBonus   TransactionType = "bonus"
)

type SourceType string

const (
	SourceReferral SourceType = "referral"
	SourceOrder    SourceType = "order"
	SourceBonus    SourceType = "bonus"
	SourceAdmin    SourceType = "admin"
	SourceUsage    SourceType = "usage"
)

type ReferralStatus string

const (
	ReferralActive   ReferralStatus = "active"
	ReferralInactive ReferralStatus = "inactive"
)

// ReferralPercentage is the share of an order total awarded to the referrer
// as points.
const ReferralPercentage = 0.10

type Referral struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID        uuid.UUID      `gorm:"type:uuid;not null;index;column:referrer_id" json:"referrer_id"`
	ReferredID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex;column:referred_id" json:"referred_id"`
	ReferralCode      string         `gorm:"not null;column:referral_code" json:"referral_code"`
	RegistrationDate  time.Time      `gorm:"not null;column:registration_date" json:"registration_date"`
	FirstOrderDate    *time.Time     `gorm:"column:first_order_date" json:"first_order_date,omitempty"`
	FirstOrderID      *uuid.UUID     `gorm:"type:uuid;column:first_order_id" json:"first_order_id,omitempty"`
	TotalOrders       int            `gorm:"not null;default:0;column:total_orders" json:"total_orders"`
	TotalEarnedPoints int            `gorm:"not null;default:0;column:total_earned_points" json:"total_earned_points"`
	Status            ReferralStatus `gorm:"not null;default:active;column:status" json:"status"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`

	Referrer *User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	Referred *User `gorm:"foreignKey:ReferredID" json:"referred,omitempty"`
}

func (Referral) TableName() string {
	return "referrals"
}

type PointTransaction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	TransactionType    TransactionType `gorm:"not null;column:transaction_type" json:"transaction_type"`
	PointsAmount       int             `gorm:"not null;column:points_amount" json:"points_amount"`
	PointsBalanceAfter int             `gorm:"not null;column:points_balance_after" json:"points_balance_after"`
	SourceType         SourceType      `gorm:"not null;column:source_type" json:"source_type"`
	SourceID           *uuid.UUID      `gorm:"type:uuid;column:source_id" json:"source_id,omitempty"`
	Description        string          `gorm:"column:description" json:"description,omitempty"`
	ReferralID         *uuid.UUID      `gorm:"type:uuid;column:referral_id" json:"referral_id,omitempty"`
	OrderID            *uuid.UUID      `gorm:"type:uuid;column:order_id" json:"order_id,omitempty"`
	ExpiresAt          *time.Time      `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}

type PointsHistory struct {
	Transactions   []PointTransaction `json:"transactions"`
	TotalEarned    int                `json:"total_earned"`
	TotalSpent     int                `json:"total_spent"`
	CurrentBalance int                `json:"current_balance"`
}

type UserReferralInfo struct {
	UserID            uuid.UUID  `json:"user_id"`
	ReferralCode      string     `json:"referral_code"`
	ReferralURL       string     `json:"referral_url"`
	PointsBalance     int        `json:"points_balance"`
	ReferredByUserID  *uuid.UUID `json:"referred_by_user_id,omitempty"`
	TotalReferrals    int64      `json:"total_referrals"`
	ActiveReferrals   int64      `json:"active_referrals"`
	TotalEarnedPoints int64      `json:"total_earned_points"`
}
