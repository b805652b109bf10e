// Package recommend implements the survey-driven product recommendation
// engine: a deterministic rule-matching strategy and a weighted scoring
// strategy over the same inputs. Both are pure functions of the profile and
// the catalog/rule snapshots loaded per call.
package recommend

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitalab/vitashop-backend/internal/types"
)

// ProductSource loads the active product catalog.
type ProductSource interface {
	ActiveProducts(ctx context.Context) ([]types.Product, error)
}

// RuleSource loads active matching rules and the products linked to a rule.
type RuleSource interface {
	ActiveRules(ctx context.Context) ([]types.VitaminRule, error)
	ActiveRuleProducts(ctx context.Context, ruleID uuid.UUID) ([]types.Product, error)
}

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Recommendation is one ranked product with its human-readable justification.
// Priority and MatchedRules are set by the deterministic path, Score and Tier
// by the weighted path.
type Recommendation struct {
	Product      types.Product `json:"product"`
	Priority     int           `json:"priority,omitempty"`
	Score        int           `json:"score,omitempty"`
	Tier         Tier          `json:"tier,omitempty"`
	Reasons      []string      `json:"reasons"`
	MatchedRules []uuid.UUID   `json:"matched_rules,omitempty"`
}

// Recommender is the common surface of the two strategies. They stay separate
// implementations: accumulative urgency rank and capped point score with a
// hard veto genuinely differ and are selected per endpoint.
type Recommender interface {
	Name() string
	Recommend(ctx context.Context, profile Profile) ([]Recommendation, error)
}
