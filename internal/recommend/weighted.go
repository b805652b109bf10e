package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

// restrictionPenalty is the additive hard veto applied when any profile
// restriction appears in the product's contraindication set. The product can
// still carry a large negative score, so callers filter score <= 0 before
// ranking.
const restrictionPenalty = -50

// RecommendationResult is the full output of the weighted path.
type RecommendationResult struct {
	Recommendations  []Recommendation `json:"recommendations"`
	TotalScore       int              `json:"total_score"`
	ExcludedProducts []string         `json:"excluded_products"`
	AnalysisReport   string           `json:"analysis_report"`
}

// Weighted scores every active product across six independent dimensions and
// ranks by descending score.
type Weighted struct {
	products ProductSource
	log      *logger.Logger
}

func NewWeighted(products ProductSource, log *logger.Logger) *Weighted {
	return &Weighted{
		products: products,
		log:      log.With("recommender", "weighted"),
	}
}

func (w *Weighted) Name() string {
	return "weighted"
}

func (w *Weighted) Recommend(ctx context.Context, profile Profile) ([]Recommendation, error) {
	result, err := w.RecommendWithReport(ctx, profile, MaxRecommendations)
	if err != nil {
		return nil, err
	}
	return result.Recommendations, nil
}

func (w *Weighted) RecommendWithReport(ctx context.Context, profile Profile, maxRecommendations int) (*RecommendationResult, error) {
	if maxRecommendations <= 0 {
		maxRecommendations = MaxRecommendations
	}

	products, err := w.products.ActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("Failed to load active products: %w", err)
	}

	var excluded []string
	scored := make([]Recommendation, 0, len(products))
	for _, product := range products {
		if alreadyTakingType(product, profile.VitaminsCurrent) {
			excluded = append(excluded, product.Name)
			continue
		}
		rec := scoreProduct(product, profile)
		if rec.Score <= 0 {
			continue
		}
		scored = append(scored, rec)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}

	totalScore := 0
	for _, rec := range scored {
		totalScore += rec.Score
	}

	return &RecommendationResult{
		Recommendations:  scored,
		TotalScore:       totalScore,
		ExcludedProducts: excluded,
		AnalysisReport:   analysisReport(profile, scored),
	}, nil
}

func scoreProduct(product types.Product, profile Profile) Recommendation {
	score := 0
	var reasons []string

	score += scoreByComplaints(product, profile, &reasons)
	score += scoreByGoals(product, profile, &reasons)
	score += scoreByDemographics(product, profile, &reasons)
	score += scoreByLifestyle(product, profile, &reasons)
	score += scoreByNutrition(product, profile, &reasons)
	score += scoreByRestrictions(product, profile)

	return Recommendation{
		Product: product,
		Score:   score,
		Tier:    tierFor(score),
		Reasons: reasons,
	}
}

func scoreByComplaints(product types.Product, profile Profile, reasons *[]string) int {
	score := 0
	for _, complaint := range profile.Complaints {
		if containsString(product.TargetComplaints, complaint) {
			score += 15
			*reasons = append(*reasons, "Помогает при "+translateComplaint(complaint))
		}
	}
	return score
}

func scoreByGoals(product types.Product, profile Profile, reasons *[]string) int {
	score := 0
	for _, goal := range profile.Goals {
		if containsString(product.TargetGoals, goal) {
			score += 12
			*reasons = append(*reasons, "Поддерживает цель: "+translateGoal(goal))
		}
	}
	return score
}

func scoreByDemographics(product types.Product, profile Profile, reasons *[]string) int {
	score := 0

	reproductiveAge := profile.AgeGroup == types.Age18To30 || profile.AgeGroup == types.Age31To45
	if profile.Gender == types.GenderFemale && reproductiveAge {
		if containsString(product.VitaminType, "iron") {
			score += 10
			*reasons = append(*reasons, "Рекомендуется женщинам репродуктивного возраста")
		}
	}

	if profile.AgeGroup == types.Age60Plus {
		if containsString(product.VitaminType, "vitamin_d") || containsString(product.VitaminType, "omega_3") {
			score += 8
			*reasons = append(*reasons, "Важно для людей старшего возраста")
		}
	}

	return score
}

// The three lifestyle rules are independent and may all fire.
func scoreByLifestyle(product types.Product, profile Profile, reasons *[]string) int {
	score := 0

	if profile.StressLevel == types.StressHigh || profile.StressLevel == types.StressConstant {
		if containsString(product.VitaminType, "magnesium") || containsString(product.VitaminType, "b_complex") {
			score += 10
			*reasons = append(*reasons, "Помогает справляться со стрессом")
		}
	}

	if profile.ActivityLevel == types.ActivityDaily {
		if containsString(product.VitaminType, "magnesium") || containsString(product.VitaminType, "omega_3") {
			score += 8
			*reasons = append(*reasons, "Поддерживает активный образ жизни")
		}
	}

	if profile.ActivityLevel == types.ActivityNone {
		if containsString(product.VitaminType, "vitamin_d") || containsString(product.VitaminType, "b_complex") {
			score += 6
			*reasons = append(*reasons, "Компенсирует низкую активность")
		}
	}

	return score
}

func scoreByNutrition(product types.Product, profile Profile, reasons *[]string) int {
	if profile.Nutrition != types.NutritionRare {
		return 0
	}
	if containsString(product.VitaminType, "multivitamin") || containsString(product.VitaminType, "b_complex") {
		*reasons = append(*reasons, "Компенсирует недостатки питания")
		return 12
	}
	return 0
}

func scoreByRestrictions(product types.Product, profile Profile) int {
	for _, restriction := range profile.Restrictions {
		if containsString(product.Restrictions, restriction) {
			return restrictionPenalty
		}
	}
	return 0
}

func tierFor(score int) Tier {
	switch {
	case score >= 25:
		return TierHigh
	case score >= 15:
		return TierMedium
	default:
		return TierLow
	}
}
