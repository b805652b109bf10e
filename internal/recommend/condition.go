package recommend

import (
	"encoding/json"
	"fmt"
)

// ConditionKey is the closed set of profile attributes a rule condition may
// reference. Conditions referencing any other key fail at parse time instead
// of silently never matching.
type ConditionKey string

const (
	KeyAgeGroup        ConditionKey = "age_group"
	KeyGender          ConditionKey = "gender"
	KeyActivityLevel   ConditionKey = "activity_level"
	KeyStressLevel     ConditionKey = "stress_level"
	KeyNutrition       ConditionKey = "nutrition"
	KeyRestrictions    ConditionKey = "restrictions"
	KeyComplaints      ConditionKey = "complaints"
	KeyGoals           ConditionKey = "goals"
	KeyVitaminsCurrent ConditionKey = "vitamins_current"
)

// ConditionValue is either a single expected value or a set of acceptable
// values. Exactly one of One/Any is populated.
type ConditionValue struct {
	One string
	Any []string
}

// Condition maps attribute keys to expected values. A rule matches a profile
// iff every key present is satisfied; an empty condition matches every
// profile (rules with empty conditions apply universally).
type Condition map[ConditionKey]ConditionValue

// ParseCondition decodes a stored JSON condition object.
func ParseCondition(raw []byte) (Condition, error) {
	if len(raw) == 0 {
		return Condition{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode condition: %w", err)
	}
	cond := make(Condition, len(decoded))
	for rawKey, rawVal := range decoded {
		key := ConditionKey(rawKey)
		switch key {
		case KeyAgeGroup, KeyGender, KeyActivityLevel, KeyStressLevel, KeyNutrition,
			KeyRestrictions, KeyComplaints, KeyGoals, KeyVitaminsCurrent:
		default:
			return nil, fmt.Errorf("unknown condition key %q", rawKey)
		}
		value, err := parseConditionValue(rawVal)
		if err != nil {
			return nil, fmt.Errorf("condition key %q: %w", rawKey, err)
		}
		cond[key] = value
	}
	return cond, nil
}

func parseConditionValue(raw any) (ConditionValue, error) {
	switch v := raw.(type) {
	case string:
		return ConditionValue{One: v}, nil
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return ConditionValue{}, fmt.Errorf("expected string list, got element %T", item)
			}
			values = append(values, s)
		}
		return ConditionValue{Any: values}, nil
	default:
		return ConditionValue{}, fmt.Errorf("expected string or string list, got %T", raw)
	}
}

// Matches reports whether every key present in the condition is satisfied by
// the profile.
func (c Condition) Matches(p Profile) bool {
	for key, expected := range c {
		if !matchKey(key, expected, p) {
			return false
		}
	}
	return true
}

func matchKey(key ConditionKey, expected ConditionValue, p Profile) bool {
	switch key {
	case KeyAgeGroup:
		return matchScalar(string(p.AgeGroup), expected)
	case KeyGender:
		return matchScalar(string(p.Gender), expected)
	case KeyActivityLevel:
		return matchScalar(string(p.ActivityLevel), expected)
	case KeyStressLevel:
		return matchScalar(string(p.StressLevel), expected)
	case KeyNutrition:
		return matchScalar(string(p.Nutrition), expected)
	case KeyRestrictions:
		return matchSet(p.Restrictions, expected)
	case KeyComplaints:
		return matchSet(p.Complaints, expected)
	case KeyGoals:
		return matchSet(p.Goals, expected)
	case KeyVitaminsCurrent:
		return matchSet(p.VitaminsCurrent, expected)
	}
	return false
}

// matchScalar: expected set vs scalar profile value is membership, scalar vs
// scalar is equality.
func matchScalar(value string, expected ConditionValue) bool {
	if expected.Any != nil {
		return containsString(expected.Any, value)
	}
	return expected.One == value
}

// matchSet: expected set vs profile set matches on non-empty intersection
// (OR semantics within a field), scalar vs set is membership.
func matchSet(values []string, expected ConditionValue) bool {
	if expected.Any != nil {
		return intersects(expected.Any, values)
	}
	return containsString(values, expected.One)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, item := range a {
		if containsString(b, item) {
			return true
		}
	}
	return false
}
