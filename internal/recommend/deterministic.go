package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/types"
)

// MaxRecommendations caps the number of items either strategy returns.
const MaxRecommendations = 8

// Deterministic accumulates products referenced by every matching rule.
// Priority is an urgency rank: sums across matched rules, lower shown first.
type Deterministic struct {
	rules RuleSource
	log   *logger.Logger
}

func NewDeterministic(rules RuleSource, log *logger.Logger) *Deterministic {
	return &Deterministic{
		rules: rules,
		log:   log.With("recommender", "deterministic"),
	}
}

func (d *Deterministic) Name() string {
	return "deterministic"
}

func (d *Deterministic) Recommend(ctx context.Context, profile Profile) ([]Recommendation, error) {
	rules, err := d.rules.ActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("Failed to load active rules: %w", err)
	}

	type matchedRule struct {
		rule      types.VitaminRule
		condition Condition
	}
	var matched []matchedRule
	for _, rule := range rules {
		condition, err := ParseCondition(rule.Condition)
		if err != nil {
			d.log.Warn("Skipping rule with invalid condition", "rule_id", rule.ID, "error", err)
			continue
		}
		if condition.Matches(profile) {
			matched = append(matched, matchedRule{rule: rule, condition: condition})
		}
	}
	if len(matched) == 0 {
		return []Recommendation{}, nil
	}

	byProduct := make(map[uuid.UUID]*Recommendation)
	var order []uuid.UUID
	for _, m := range matched {
		products, err := d.rules.ActiveRuleProducts(ctx, m.rule.ID)
		if err != nil {
			return nil, fmt.Errorf("Failed to load products for rule %s: %w", m.rule.ID, err)
		}
		reason := matchReason(m.condition, profile)
		for _, product := range products {
			if existing, ok := byProduct[product.ID]; ok {
				existing.Priority += m.rule.Priority
				existing.MatchedRules = append(existing.MatchedRules, m.rule.ID)
				existing.Reasons = append(existing.Reasons, reason)
				continue
			}
			byProduct[product.ID] = &Recommendation{
				Product:      product,
				Priority:     m.rule.Priority,
				Reasons:      []string{reason},
				MatchedRules: []uuid.UUID{m.rule.ID},
			}
			order = append(order, product.ID)
		}
	}

	recommendations := make([]Recommendation, 0, len(order))
	for _, id := range order {
		rec := byProduct[id]
		if alreadyTakingProduct(rec.Product, profile.VitaminsCurrent) {
			continue
		}
		recommendations = append(recommendations, *rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority < recommendations[j].Priority
	})
	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}
	return recommendations, nil
}

// matchReason names the profile attributes the rule's condition actually
// intersected, falling back to a generic message.
func matchReason(condition Condition, profile Profile) string {
	var reasons []string

	if expected, ok := condition[KeyStressLevel]; ok && matchScalar(string(profile.StressLevel), expected) {
		if profile.StressLevel == types.StressHigh || profile.StressLevel == types.StressConstant {
			reasons = append(reasons, "высокий уровень стресса")
		}
	}

	if expected, ok := condition[KeyActivityLevel]; ok && matchScalar(string(profile.ActivityLevel), expected) {
		switch profile.ActivityLevel {
		case types.ActivityNone:
			reasons = append(reasons, "низкая физическая активность")
		case types.ActivityDaily:
			reasons = append(reasons, "высокая физическая активность")
		}
	}

	if expected, ok := condition[KeyComplaints]; ok {
		if matching := intersection(expected, profile.Complaints); len(matching) > 0 {
			reasons = append(reasons, "жалобы: "+strings.Join(matching, ", "))
		}
	}

	if expected, ok := condition[KeyGoals]; ok {
		if matching := intersection(expected, profile.Goals); len(matching) > 0 {
			reasons = append(reasons, "цели: "+strings.Join(matching, ", "))
		}
	}

	if len(reasons) == 0 {
		return "Рекомендовано для вашего профиля"
	}
	return "Рекомендовано на основе: " + strings.Join(reasons, ", ")
}

func intersection(expected ConditionValue, values []string) []string {
	candidates := expected.Any
	if candidates == nil && expected.One != "" {
		candidates = []string{expected.One}
	}
	var matching []string
	for _, candidate := range candidates {
		if containsString(values, candidate) {
			matching = append(matching, candidate)
		}
	}
	return matching
}
