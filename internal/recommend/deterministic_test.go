package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeRuleSource struct {
	rules    []types.VitaminRule
	products map[uuid.UUID][]types.Product
	err      error
}

func (f *fakeRuleSource) ActiveRules(ctx context.Context) ([]types.VitaminRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules, nil
}

func (f *fakeRuleSource) ActiveRuleProducts(ctx context.Context, ruleID uuid.UUID) ([]types.Product, error) {
	return f.products[ruleID], nil
}

func mustCondition(t *testing.T, condition map[string]any) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(condition)
	if err != nil {
		t.Fatalf("marshal condition: %v", err)
	}
	return datatypes.JSON(raw)
}

func testRule(t *testing.T, name string, priority int, condition map[string]any) types.VitaminRule {
	t.Helper()
	return types.VitaminRule{
		ID:        uuid.New(),
		Name:      name,
		Condition: mustCondition(t, condition),
		Priority:  priority,
		IsActive:  true,
	}
}

func testProduct(name string) types.Product {
	return types.Product{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
}

func TestDeterministicNoMatchingRules(t *testing.T) {
	rules := &fakeRuleSource{
		rules: []types.VitaminRule{
			testRule(t, "stress", 1, map[string]any{"stress_level": []string{"high", "constant"}}),
		},
	}
	d := NewDeterministic(rules, newTestLogger())

	recs, err := d.Recommend(context.Background(), Profile{StressLevel: types.StressLow})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if recs == nil {
		t.Fatal("Recommend returned nil slice, want empty")
	}
	if len(recs) != 0 {
		t.Fatalf("Recommend returned %d recommendations, want 0", len(recs))
	}
}

func TestDeterministicMergesPriorityAcrossRules(t *testing.T) {
	shared := testProduct("Magnesium B6")
	stressRule := testRule(t, "stress", 1, map[string]any{"stress_level": []string{"high", "constant"}})
	sleepRule := testRule(t, "sleep", 2, map[string]any{"complaints": []string{"sleep_problems"}})

	rules := &fakeRuleSource{
		rules: []types.VitaminRule{stressRule, sleepRule},
		products: map[uuid.UUID][]types.Product{
			stressRule.ID: {shared},
			sleepRule.ID:  {shared},
		},
	}
	d := NewDeterministic(rules, newTestLogger())

	profile := Profile{
		StressLevel: types.StressHigh,
		Complaints:  []string{"sleep_problems"},
	}
	recs, err := d.Recommend(context.Background(), profile)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1 merged entry", len(recs))
	}

	rec := recs[0]
	if rec.Priority != 3 {
		t.Errorf("merged priority=%d, want 3", rec.Priority)
	}
	if len(rec.MatchedRules) != 2 {
		t.Errorf("matched rules=%d, want 2", len(rec.MatchedRules))
	}
	if len(rec.Reasons) != 2 {
		t.Errorf("reasons=%d, want 2", len(rec.Reasons))
	}
	if rec.Reasons[0] != "Рекомендовано на основе: высокий уровень стресса" {
		t.Errorf("unexpected first reason: %q", rec.Reasons[0])
	}
	if rec.Reasons[1] != "Рекомендовано на основе: жалобы: sleep_problems" {
		t.Errorf("unexpected second reason: %q", rec.Reasons[1])
	}
}

func TestDeterministicExcludesAlreadyTaking(t *testing.T) {
	rule := testRule(t, "fatigue", 1, map[string]any{"complaints": []string{"fatigue"}})
	rules := &fakeRuleSource{
		rules: []types.VitaminRule{rule},
		products: map[uuid.UUID][]types.Product{
			rule.ID: {
				testProduct("Magnesium Complex"),
				testProduct("Vitamin C 500"),
			},
		},
	}
	d := NewDeterministic(rules, newTestLogger())

	profile := Profile{
		Complaints:      []string{"fatigue"},
		VitaminsCurrent: []string{"magnesium"},
	}
	recs, err := d.Recommend(context.Background(), profile)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Product.Name != "Vitamin C 500" {
		t.Errorf("got %q, want the non-excluded product", recs[0].Product.Name)
	}
}

func TestDeterministicSortsAscendingAndCaps(t *testing.T) {
	var ruleList []types.VitaminRule
	products := make(map[uuid.UUID][]types.Product)
	// Rules arrive in descending priority to prove the sort, not the source
	// order, decides the output.
	for priority := 12; priority >= 1; priority-- {
		rule := testRule(t, fmt.Sprintf("rule-%d", priority), priority, map[string]any{"goals": []string{"energy"}})
		ruleList = append(ruleList, rule)
		products[rule.ID] = []types.Product{testProduct(fmt.Sprintf("Product %d", priority))}
	}
	rules := &fakeRuleSource{rules: ruleList, products: products}
	d := NewDeterministic(rules, newTestLogger())

	recs, err := d.Recommend(context.Background(), Profile{Goals: []string{"energy"}})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != MaxRecommendations {
		t.Fatalf("got %d recommendations, want cap of %d", len(recs), MaxRecommendations)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Priority > recs[i].Priority {
			t.Fatalf("recommendations not in ascending priority order: %d before %d", recs[i-1].Priority, recs[i].Priority)
		}
	}
	if recs[0].Priority != 1 {
		t.Errorf("first priority=%d, want 1", recs[0].Priority)
	}
}

func TestDeterministicSkipsInvalidCondition(t *testing.T) {
	bad := types.VitaminRule{
		ID:        uuid.New(),
		Name:      "broken",
		Condition: datatypes.JSON(`{"unknown_key": "x"}`),
		Priority:  1,
		IsActive:  true,
	}
	good := testRule(t, "goal", 2, map[string]any{"goals": []string{"immunity"}})
	rules := &fakeRuleSource{
		rules: []types.VitaminRule{bad, good},
		products: map[uuid.UUID][]types.Product{
			good.ID: {testProduct("Zinc Picolinate")},
		},
	}
	d := NewDeterministic(rules, newTestLogger())

	recs, err := d.Recommend(context.Background(), Profile{Goals: []string{"immunity"}})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 1 || recs[0].Product.Name != "Zinc Picolinate" {
		t.Fatalf("expected only the valid rule's product, got %+v", recs)
	}
}

func TestDeterministicIsDeterministic(t *testing.T) {
	rule := testRule(t, "wellness", 3, map[string]any{})
	rules := &fakeRuleSource{
		rules: []types.VitaminRule{rule},
		products: map[uuid.UUID][]types.Product{
			rule.ID: {testProduct("Multivitamin Daily"), testProduct("Omega-3 Premium")},
		},
	}
	d := NewDeterministic(rules, newTestLogger())
	profile := Profile{AgeGroup: types.Age18To30}

	first, err := d.Recommend(context.Background(), profile)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := d.Recommend(context.Background(), profile)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different recommendations")
	}
	if first[0].Reasons[0] != "Рекомендовано для вашего профиля" {
		t.Errorf("empty condition reason=%q, want generic fallback", first[0].Reasons[0])
	}
}
