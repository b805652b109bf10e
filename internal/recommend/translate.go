package recommend

import (
	"fmt"
	"strings"

	"github.com/vitalab/vitashop-backend/internal/types"
)

var complaintTranslations = map[string]string{
	"fatigue":          "усталости",
	"low_immunity":     "сниженном иммунитете",
	"sleep_problems":   "проблемах со сном",
	"stress":           "стрессе",
	"skin_issues":      "проблемах с кожей",
	"joint_pain":       "болях в суставах",
	"digestive_issues": "проблемах с пищеварением",
	"memory_issues":    "проблемах с памятью",
}

var goalTranslations = map[string]string{
	"general_wellness": "общее самочувствие",
	"immunity":         "укрепление иммунитета",
	"energy":           "повышение энергии",
	"skin_health":      "здоровье кожи",
	"heart_health":     "здоровье сердца",
	"memory":           "улучшение памяти",
	"stress_relief":    "снятие стресса",
	"better_sleep":     "улучшение сна",
}

var ageGroupTranslations = map[types.AgeGroup]string{
	types.AgeUnder18: "до 18 лет",
	types.Age18To30:  "18-30 лет",
	types.Age31To45:  "31-45 лет",
	types.Age46To60:  "46-60 лет",
	types.Age60Plus:  "старше 60 лет",
}

var activityTranslations = map[types.ActivityLevel]string{
	types.ActivityNone:  "почти нет",
	types.Activity1To2:  "1-2 раза в неделю",
	types.Activity3To5:  "3-5 раз в неделю",
	types.ActivityDaily: "ежедневно",
}

var stressTranslations = map[types.StressLevel]string{
	types.StressLow:      "низкий",
	types.StressMedium:   "умеренный",
	types.StressHigh:     "высокий",
	types.StressConstant: "постоянный",
}

var nutritionTranslations = map[types.Nutrition]string{
	types.NutritionDaily: "ежедневно",
	types.Nutrition3To4:  "3-4 раза в неделю",
	types.NutritionRare:  "редко",
}

func translateComplaint(complaint string) string {
	if translated, ok := complaintTranslations[complaint]; ok {
		return translated
	}
	return complaint
}

func translateGoal(goal string) string {
	if translated, ok := goalTranslations[goal]; ok {
		return translated
	}
	return goal
}

func translateAgeGroup(ageGroup types.AgeGroup) string {
	if translated, ok := ageGroupTranslations[ageGroup]; ok {
		return translated
	}
	return "не указан"
}

func translateActivityLevel(level types.ActivityLevel) string {
	if translated, ok := activityTranslations[level]; ok {
		return translated
	}
	return "не указан"
}

func translateStressLevel(level types.StressLevel) string {
	if translated, ok := stressTranslations[level]; ok {
		return translated
	}
	return "не указан"
}

func translateNutrition(nutrition types.Nutrition) string {
	if translated, ok := nutritionTranslations[nutrition]; ok {
		return translated
	}
	return "не указано"
}

// analysisReport renders a purely descriptive multi-line summary of the
// profile translation and the ranked recommendations.
func analysisReport(profile Profile, recommendations []Recommendation) string {
	gender := "мужчина"
	if profile.Gender == types.GenderFemale {
		gender = "женщина"
	}

	lines := []string{
		fmt.Sprintf("Анализ профиля: %s, %s", gender, translateAgeGroup(profile.AgeGroup)),
		"Уровень активности: " + translateActivityLevel(profile.ActivityLevel),
		"Уровень стресса: " + translateStressLevel(profile.StressLevel),
		"Качество питания: " + translateNutrition(profile.Nutrition),
		"",
		fmt.Sprintf("Найдено %d персональных рекомендаций:", len(recommendations)),
	}
	for i, rec := range recommendations {
		lines = append(lines, fmt.Sprintf("%d. %s (приоритет: %s, балл: %d)", i+1, rec.Product.Name, rec.Tier, rec.Score))
	}
	return strings.Join(lines, "\n")
}
