package recommend

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/vitalab/vitashop-backend/internal/types"
)

func TestAlreadyTakingType(t *testing.T) {
	cases := []struct {
		name        string
		vitaminType []string
		current     []string
		want        bool
	}{
		{name: "exact_tag", vitaminType: []string{"magnesium"}, current: []string{"magnesium"}, want: true},
		{name: "underscore_normalized", vitaminType: []string{"omega_3"}, current: []string{"omega 3"}, want: true},
		{name: "no_overlap", vitaminType: []string{"zinc"}, current: []string{"magnesium"}, want: false},
		{name: "empty_current", vitaminType: []string{"zinc"}, current: nil, want: false},
		{name: "no_types", vitaminType: nil, current: []string{"zinc"}, want: false},
		// Known over-match of the substring check: "iron" is contained in
		// "environment". Documented behavior, kept for compatibility.
		{name: "substring_overmatch", vitaminType: []string{"iron"}, current: []string{"environment"}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := types.Product{VitaminType: datatypes.JSONSlice[string](tc.vitaminType)}
			if got := alreadyTakingType(product, tc.current); got != tc.want {
				t.Fatalf("alreadyTakingType(%v, %v)=%v, want %v", tc.vitaminType, tc.current, got, tc.want)
			}
		})
	}
}

func TestAlreadyTakingProduct(t *testing.T) {
	cases := []struct {
		name     string
		product  types.Product
		current  []string
		want     bool
	}{
		{
			name:    "name_contains_vitamin",
			product: types.Product{Name: "Magnesium Complex"},
			current: []string{"magnesium"},
			want:    true,
		},
		{
			name:    "benefit_contains_vitamin",
			product: types.Product{Name: "Calm Evening", Benefits: datatypes.JSONSlice[string]{"magnesium for sleep"}},
			current: []string{"magnesium"},
			want:    true,
		},
		{
			name:    "no_match",
			product: types.Product{Name: "Vitamin C 500", Benefits: datatypes.JSONSlice[string]{"immune support"}},
			current: []string{"magnesium"},
			want:    false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := alreadyTakingProduct(tc.product, tc.current); got != tc.want {
				t.Fatalf("alreadyTakingProduct(%q, %v)=%v, want %v", tc.product.Name, tc.current, got, tc.want)
			}
		})
	}
}
