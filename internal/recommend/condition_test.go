package recommend

import (
	"testing"

	"github.com/vitalab/vitashop-backend/internal/types"
)

func TestParseConditionRejectsUnknownKey(t *testing.T) {
	_, err := ParseCondition([]byte(`{"shoe_size": "42"}`))
	if err == nil {
		t.Fatal("expected error for unknown condition key, got nil")
	}
}

func TestParseConditionRejectsBadValueShape(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "number_value", raw: `{"stress_level": 3}`},
		{name: "nested_object", raw: `{"goals": {"any": ["energy"]}}`},
		{name: "mixed_list", raw: `{"complaints": ["fatigue", 1]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCondition([]byte(tc.raw)); err == nil {
				t.Fatalf("ParseCondition(%s) expected error, got nil", tc.raw)
			}
		})
	}
}

func TestConditionMatches(t *testing.T) {
	profile := Profile{
		AgeGroup:        types.Age18To30,
		Gender:          types.GenderFemale,
		ActivityLevel:   types.ActivityDaily,
		StressLevel:     types.StressHigh,
		Nutrition:       types.NutritionRare,
		Restrictions:    []string{"vegetarian"},
		Complaints:      []string{"fatigue", "stress"},
		Goals:           []string{"energy"},
		VitaminsCurrent: []string{"magnesium"},
	}

	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "empty_condition_matches_everything", raw: `{}`, want: true},
		{name: "scalar_equality", raw: `{"stress_level": "high"}`, want: true},
		{name: "scalar_inequality", raw: `{"stress_level": "low"}`, want: false},
		{name: "scalar_in_expected_set", raw: `{"stress_level": ["high", "constant"]}`, want: true},
		{name: "scalar_not_in_expected_set", raw: `{"stress_level": ["low", "medium"]}`, want: false},
		{name: "expected_scalar_in_profile_set", raw: `{"complaints": "fatigue"}`, want: true},
		{name: "expected_scalar_missing_from_profile_set", raw: `{"complaints": "joint_pain"}`, want: false},
		{name: "set_intersection", raw: `{"complaints": ["joint_pain", "stress"]}`, want: true},
		{name: "set_no_intersection", raw: `{"complaints": ["joint_pain", "skin_issues"]}`, want: false},
		{name: "all_keys_must_match", raw: `{"stress_level": "high", "gender": "male"}`, want: false},
		{name: "multiple_matching_keys", raw: `{"stress_level": "high", "gender": "female", "goals": ["energy"]}`, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond, err := ParseCondition([]byte(tc.raw))
			if err != nil {
				t.Fatalf("ParseCondition(%s) unexpected error: %v", tc.raw, err)
			}
			if got := cond.Matches(profile); got != tc.want {
				t.Fatalf("Matches(%s)=%v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
