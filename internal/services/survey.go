package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type SurveyService interface {
	SaveSurvey(ctx context.Context, userID uuid.UUID, survey types.SurveyData) (*types.User, error)
	GetSurvey(ctx context.Context, userID uuid.UUID) (*types.SurveyData, bool, error)
}

type surveyService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewSurveyService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) SurveyService {
	serviceLog := log.With("service", "SurveyService")
	return &surveyService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

// SaveSurvey replaces any previous answers wholesale. Optional list answers
// normalize to empty lists so stale values never survive a resubmission.
func (ss *surveyService) SaveSurvey(ctx context.Context, userID uuid.UUID, survey types.SurveyData) (*types.User, error) {
	if err := validateSurvey(survey); err != nil {
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"age_group":           survey.AgeGroup,
		"gender":              survey.Gender,
		"activity_level":      survey.ActivityLevel,
		"stress_level":        survey.StressLevel,
		"nutrition":           survey.Nutrition,
		"restrictions":        datatypes.NewJSONSlice(emptyIfNil(survey.Restrictions)),
		"complaints":          datatypes.NewJSONSlice(emptyIfNil(survey.Complaints)),
		"goals":               datatypes.NewJSONSlice(emptyIfNil(survey.Goals)),
		"vitamins_current":    datatypes.NewJSONSlice(emptyIfNil(survey.VitaminsCurrent)),
		"survey_completed":    true,
		"survey_completed_at": now,
	}

	if err := ss.userRepo.UpdateFields(ctx, nil, userID, fields); err != nil {
		return nil, fmt.Errorf("Failed to save survey: %w", err)
	}

	user, err := ss.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load user after survey save: %w", err)
	}
	ss.log.Info("Survey saved", "user_id", userID)
	return user, nil
}

func (ss *surveyService) GetSurvey(ctx context.Context, userID uuid.UUID) (*types.SurveyData, bool, error) {
	user, err := ss.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, false, fmt.Errorf("Failed to load user: %w", err)
	}
	if !user.SurveyCompleted {
		return nil, false, nil
	}
	survey := &types.SurveyData{
		AgeGroup:        user.AgeGroup,
		Gender:          user.Gender,
		ActivityLevel:   user.ActivityLevel,
		StressLevel:     user.StressLevel,
		Nutrition:       user.Nutrition,
		Restrictions:    user.Restrictions,
		Complaints:      user.Complaints,
		Goals:           user.Goals,
		VitaminsCurrent: user.VitaminsCurrent,
	}
	return survey, true, nil
}

func validateSurvey(survey types.SurveyData) error {
	switch survey.AgeGroup {
	case types.AgeUnder18, types.Age18To30, types.Age31To45, types.Age46To60, types.Age60Plus:
	default:
		return fmt.Errorf("Invalid age group: %s", survey.AgeGroup)
	}
	switch survey.Gender {
	case types.GenderMale, types.GenderFemale, types.GenderOther:
	default:
		return fmt.Errorf("Invalid gender: %s", survey.Gender)
	}
	switch survey.ActivityLevel {
	case types.ActivityNone, types.Activity1To2, types.Activity3To5, types.ActivityDaily:
	default:
		return fmt.Errorf("Invalid activity level: %s", survey.ActivityLevel)
	}
	switch survey.StressLevel {
	case types.StressLow, types.StressMedium, types.StressHigh, types.StressConstant:
	default:
		return fmt.Errorf("Invalid stress level: %s", survey.StressLevel)
	}
	switch survey.Nutrition {
	case types.NutritionDaily, types.Nutrition3To4, types.NutritionRare:
	default:
		return fmt.Errorf("Invalid nutrition: %s", survey.Nutrition)
	}
	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
