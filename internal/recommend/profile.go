package recommend

import (
	"github.com/vitalab/vitashop-backend/internal/types"
)

// Profile is the normalized form of a user's questionnaire answers.
type Profile struct {
	AgeGroup        types.AgeGroup
	Gender          types.Gender
	ActivityLevel   types.ActivityLevel
	StressLevel     types.StressLevel
	Nutrition       types.Nutrition
	Restrictions    []string
	Complaints      []string
	Goals           []string
	VitaminsCurrent []string
	Completed       bool
}

// ProfileFromUser builds a Profile from the survey columns on the user row.
func ProfileFromUser(u *types.User) Profile {
	return Profile{
		AgeGroup:        u.AgeGroup,
		Gender:          u.Gender,
		ActivityLevel:   u.ActivityLevel,
		StressLevel:     u.StressLevel,
		Nutrition:       u.Nutrition,
		Restrictions:    u.Restrictions,
		Complaints:      u.Complaints,
		Goals:           u.Goals,
		VitaminsCurrent: u.VitaminsCurrent,
		Completed:       u.SurveyCompleted,
	}
}
