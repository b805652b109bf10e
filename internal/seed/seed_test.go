package seed

import (
	"testing"

	"github.com/vitalab/vitashop-backend/internal/recommend"
)

func TestDefaultRulesParseAndValidate(t *testing.T) {
	rules, err := DefaultRules()
	if err != nil {
		t.Fatalf("DefaultRules: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("no default rules")
	}

	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if seen[rule.Name] {
			t.Errorf("duplicate rule name %q", rule.Name)
		}
		seen[rule.Name] = true

		if !rule.IsActive {
			t.Errorf("rule %q not active", rule.Name)
		}
		if rule.Priority < 1 {
			t.Errorf("rule %q priority %d", rule.Name, rule.Priority)
		}
		if len(rule.Vitamins) == 0 {
			t.Errorf("rule %q has no vitamins", rule.Name)
		}
		if _, err := recommend.ParseCondition(rule.Condition); err != nil {
			t.Errorf("rule %q condition invalid: %v", rule.Name, err)
		}
	}
}
