package recommend

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/vitalab/vitashop-backend/internal/types"
)

type fakeProductSource struct {
	products []types.Product
	err      error
}

func (f *fakeProductSource) ActiveProducts(ctx context.Context) ([]types.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func scorableProduct(name string, vitaminType ...string) types.Product {
	p := testProduct(name)
	p.VitaminType = datatypes.JSONSlice[string](vitaminType)
	return p
}

func TestWeightedStressAndSedentaryProfile(t *testing.T) {
	magnesium := scorableProduct("Magnesium B6", "magnesium")
	vitaminD := scorableProduct("Vitamin D3 2000", "vitamin_d")
	vitaminD.TargetComplaints = datatypes.JSONSlice[string]{"fatigue"}

	w := NewWeighted(&fakeProductSource{products: []types.Product{magnesium, vitaminD}}, newTestLogger())
	profile := Profile{
		StressLevel:   types.StressHigh,
		ActivityLevel: types.ActivityNone,
		Complaints:    []string{"fatigue"},
	}

	result, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(result.Recommendations))
	}

	byName := make(map[string]Recommendation)
	for _, rec := range result.Recommendations {
		byName[rec.Product.Name] = rec
	}

	// magnesium: +10 stress; vitamin D: +15 fatigue complaint, +6 no activity.
	if rec := byName["Magnesium B6"]; rec.Score != 10 {
		t.Errorf("magnesium score=%d, want 10", rec.Score)
	}
	if rec := byName["Vitamin D3 2000"]; rec.Score != 21 {
		t.Errorf("vitamin D score=%d, want 21", rec.Score)
	}

	if !containsString(byName["Magnesium B6"].Reasons, "Помогает справляться со стрессом") {
		t.Errorf("magnesium reasons missing stress text: %v", byName["Magnesium B6"].Reasons)
	}
	if !containsString(byName["Vitamin D3 2000"].Reasons, "Компенсирует низкую активность") {
		t.Errorf("vitamin D reasons missing activity text: %v", byName["Vitamin D3 2000"].Reasons)
	}

	if result.TotalScore != 31 {
		t.Errorf("total score=%d, want 31", result.TotalScore)
	}
}

func TestWeightedRestrictionVeto(t *testing.T) {
	vetoed := scorableProduct("Chromium Blend", "chromium")
	vetoed.Restrictions = datatypes.JSONSlice[string]{"diabetes"}
	safe := scorableProduct("Omega-3 Premium", "omega_3")
	safe.TargetGoals = datatypes.JSONSlice[string]{"heart_health"}

	profile := Profile{
		Restrictions: []string{"diabetes"},
		Goals:        []string{"heart_health"},
	}

	if rec := scoreProduct(vetoed, profile); rec.Score != restrictionPenalty {
		t.Errorf("vetoed product score=%d, want %d", rec.Score, restrictionPenalty)
	}

	w := NewWeighted(&fakeProductSource{products: []types.Product{vetoed, safe}}, newTestLogger())
	result, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}
	for _, rec := range result.Recommendations {
		if rec.Product.Name == "Chromium Blend" {
			t.Fatal("restricted product present in recommendations")
		}
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Product.Name != "Omega-3 Premium" {
		t.Fatalf("expected only the safe product, got %+v", result.Recommendations)
	}
}

func TestWeightedExcludesCurrentVitamins(t *testing.T) {
	magnesium := scorableProduct("Magnesium B6", "magnesium")
	zinc := scorableProduct("Zinc Picolinate", "zinc")
	zinc.TargetGoals = datatypes.JSONSlice[string]{"immunity"}

	w := NewWeighted(&fakeProductSource{products: []types.Product{magnesium, zinc}}, newTestLogger())
	profile := Profile{
		StressLevel:     types.StressHigh,
		Goals:           []string{"immunity"},
		VitaminsCurrent: []string{"magnesium"},
	}

	result, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}
	if !reflect.DeepEqual(result.ExcludedProducts, []string{"Magnesium B6"}) {
		t.Errorf("excluded products=%v, want magnesium only", result.ExcludedProducts)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Product.Name != "Zinc Picolinate" {
		t.Fatalf("expected only zinc, got %+v", result.Recommendations)
	}
}

func TestWeightedOrderingAndTiers(t *testing.T) {
	high := scorableProduct("Iron Plus", "iron")
	high.TargetComplaints = datatypes.JSONSlice[string]{"fatigue"}
	// +15 complaint, +10 female reproductive age = 25 -> high tier.
	medium := scorableProduct("B-Complex Forte", "b_complex")
	// +10 stress, +6 no activity = 16 -> medium tier.
	low := scorableProduct("Collagen Beauty", "collagen")
	low.TargetGoals = datatypes.JSONSlice[string]{"skin_health"}
	// +12 goal = 12 -> low tier.

	w := NewWeighted(&fakeProductSource{products: []types.Product{low, medium, high}}, newTestLogger())
	profile := Profile{
		AgeGroup:      types.Age18To30,
		Gender:        types.GenderFemale,
		StressLevel:   types.StressHigh,
		ActivityLevel: types.ActivityNone,
		Complaints:    []string{"fatigue"},
		Goals:         []string{"skin_health"},
	}

	result, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(result.Recommendations))
	}
	for i := 1; i < len(result.Recommendations); i++ {
		if result.Recommendations[i-1].Score < result.Recommendations[i].Score {
			t.Fatal("recommendations not sorted by descending score")
		}
	}

	wantTiers := map[string]Tier{
		"Iron Plus":       TierHigh,
		"B-Complex Forte": TierMedium,
		"Collagen Beauty": TierLow,
	}
	for _, rec := range result.Recommendations {
		if rec.Tier != wantTiers[rec.Product.Name] {
			t.Errorf("%s tier=%s, want %s", rec.Product.Name, rec.Tier, wantTiers[rec.Product.Name])
		}
	}
}

func TestWeightedNutritionCompensation(t *testing.T) {
	multi := scorableProduct("Multivitamin Daily", "multivitamin")
	w := NewWeighted(&fakeProductSource{products: []types.Product{multi}}, newTestLogger())

	result, err := w.RecommendWithReport(context.Background(), Profile{Nutrition: types.NutritionRare}, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(result.Recommendations))
	}
	rec := result.Recommendations[0]
	if rec.Score != 12 {
		t.Errorf("score=%d, want 12", rec.Score)
	}
	if !containsString(rec.Reasons, "Компенсирует недостатки питания") {
		t.Errorf("reasons missing nutrition text: %v", rec.Reasons)
	}

	// Good nutrition earns nothing, and a zero score filters the product out.
	result, err = w.RecommendWithReport(context.Background(), Profile{Nutrition: types.NutritionDaily}, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("got %d recommendations for well-fed profile, want 0", len(result.Recommendations))
	}
}

func TestWeightedAnalysisReport(t *testing.T) {
	magnesium := scorableProduct("Magnesium B6", "magnesium")
	w := NewWeighted(&fakeProductSource{products: []types.Product{magnesium}}, newTestLogger())
	profile := Profile{
		AgeGroup:      types.Age31To45,
		Gender:        types.GenderFemale,
		ActivityLevel: types.ActivityNone,
		StressLevel:   types.StressConstant,
		Nutrition:     types.NutritionRare,
	}

	result, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("RecommendWithReport returned error: %v", err)
	}

	report := result.AnalysisReport
	for _, want := range []string{
		"Анализ профиля: женщина, 31-45 лет",
		"Уровень активности: почти нет",
		"Уровень стресса: постоянный",
		"Качество питания: редко",
		"Найдено 1 персональных рекомендаций:",
		"1. Magnesium B6",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestWeightedIsDeterministic(t *testing.T) {
	products := []types.Product{
		scorableProduct("Magnesium B6", "magnesium"),
		scorableProduct("B-Complex Forte", "b_complex"),
	}
	w := NewWeighted(&fakeProductSource{products: products}, newTestLogger())
	profile := Profile{StressLevel: types.StressHigh}

	first, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := w.RecommendWithReport(context.Background(), profile, 0)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different results")
	}
	// Equal scores keep catalog order under the stable sort.
	if first.Recommendations[0].Product.Name != "Magnesium B6" {
		t.Errorf("tie not broken by catalog order: %q first", first.Recommendations[0].Product.Name)
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{score: 40, want: TierHigh},
		{score: 25, want: TierHigh},
		{score: 24, want: TierMedium},
		{score: 15, want: TierMedium},
		{score: 14, want: TierLow},
		{score: 1, want: TierLow},
	}
	for _, tc := range cases {
		if got := tierFor(tc.score); got != tc.want {
			t.Errorf("tierFor(%d)=%s, want %s", tc.score, got, tc.want)
		}
	}
}
