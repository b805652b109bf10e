// Package seed installs the default recommendation rule set on first boot.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/recommend"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/types"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

type ruleSpec struct {
	Name      string         `yaml:"name"`
	Priority  int            `yaml:"priority"`
	Condition map[string]any `yaml:"condition"`
	Vitamins  []string       `yaml:"vitamins"`
}

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// DefaultRules parses and validates the embedded rule set. Conditions are
// checked through the same parser the recommender uses, so a bad seed fails
// at startup instead of being silently skipped per request.
func DefaultRules() ([]types.VitaminRule, error) {
	var file rulesFile
	if err := yaml.Unmarshal(defaultRulesYAML, &file); err != nil {
		return nil, fmt.Errorf("Failed to parse default rules: %w", err)
	}

	rules := make([]types.VitaminRule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		if spec.Name == "" {
			return nil, fmt.Errorf("Default rule without a name")
		}
		if spec.Priority < 1 {
			return nil, fmt.Errorf("Default rule %q has invalid priority %d", spec.Name, spec.Priority)
		}

		raw, err := json.Marshal(spec.Condition)
		if err != nil {
			return nil, fmt.Errorf("Failed to encode condition for rule %q: %w", spec.Name, err)
		}
		if _, err := recommend.ParseCondition(raw); err != nil {
			return nil, fmt.Errorf("Invalid condition for rule %q: %w", spec.Name, err)
		}

		rules = append(rules, types.VitaminRule{
			ID:        uuid.New(),
			Name:      spec.Name,
			Condition: datatypes.JSON(raw),
			Vitamins:  datatypes.JSONSlice[string](spec.Vitamins),
			Priority:  spec.Priority,
			IsActive:  true,
		})
	}
	return rules, nil
}

// Rules inserts the default rule set when the rules table is empty.
func Rules(ctx context.Context, db *gorm.DB, ruleRepo repos.VitaminRuleRepo, log *logger.Logger) error {
	count, err := ruleRepo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to count vitamin rules: %w", err)
	}
	if count > 0 {
		log.Debug("Vitamin rules already present, skipping seed", "count", count)
		return nil
	}

	rules, err := DefaultRules()
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			if _, err := ruleRepo.Create(ctx, tx, &rules[i]); err != nil {
				return fmt.Errorf("Failed to seed rule %q: %w", rules[i].Name, err)
			}
		}
		log.Info("Seeded default vitamin rules", "count", len(rules))
		return nil
	})
}
