package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Role      string    `gorm:"not null;default:user;column:role" json:"role"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url"`

	ReferralCode     string     `gorm:"uniqueIndex;column:referral_code" json:"referral_code"`
	PointsBalance    int        `gorm:"not null;default:0;column:points_balance" json:"points_balance"`
	ReferredByUserID *uuid.UUID `gorm:"type:uuid;column:referred_by_user_id" json:"referred_by_user_id,omitempty"`

	// Survey answers live on the user row, exactly one profile per user.
	AgeGroup          AgeGroup                    `gorm:"column:age_group" json:"age_group,omitempty"`
	Gender            Gender                      `gorm:"column:gender" json:"gender,omitempty"`
	ActivityLevel     ActivityLevel               `gorm:"column:activity_level" json:"activity_level,omitempty"`
	StressLevel       StressLevel                 `gorm:"column:stress_level" json:"stress_level,omitempty"`
	Nutrition         Nutrition                   `gorm:"column:nutrition" json:"nutrition,omitempty"`
	Restrictions      datatypes.JSONSlice[string] `gorm:"column:restrictions" json:"restrictions"`
	Complaints        datatypes.JSONSlice[string] `gorm:"column:complaints" json:"complaints"`
	Goals             datatypes.JSONSlice[string] `gorm:"column:goals" json:"goals"`
	VitaminsCurrent   datatypes.JSONSlice[string] `gorm:"column:vitamins_current" json:"vitamins_current"`
	SurveyCompleted   bool                        `gorm:"not null;default:false;column:survey_completed" json:"survey_completed"`
	SurveyCompletedAt *time.Time                  `gorm:"column:survey_completed_at" json:"survey_completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
