package recommend

import (
	"strings"

	"github.com/vitalab/vitashop-backend/internal/types"
)

// The "already taking" checks below are intentionally approximate: they do
// case-insensitive substring containment in both directions between vitamin
// tokens and product text, so broad tokens can over-match. Kept for
// compatibility and isolated here so they can be tightened without touching
// the scoring logic.

// alreadyTakingProduct reports whether any currently taken vitamin entry
// fuzzily matches the product name or one of its benefit strings.
func alreadyTakingProduct(product types.Product, current []string) bool {
	name := normalizeVitaminToken(product.Name)
	for _, vitamin := range current {
		token := normalizeVitaminToken(vitamin)
		if token == "" {
			continue
		}
		if containsEither(name, token) {
			return true
		}
		for _, benefit := range product.Benefits {
			if containsEither(normalizeVitaminToken(benefit), token) {
				return true
			}
		}
	}
	return false
}

// alreadyTakingType reports whether any currently taken vitamin entry fuzzily
// matches one of the product's vitamin type tags.
func alreadyTakingType(product types.Product, current []string) bool {
	if len(product.VitaminType) == 0 {
		return false
	}
	for _, vitamin := range current {
		token := normalizeVitaminToken(vitamin)
		if token == "" {
			continue
		}
		for _, vitaminType := range product.VitaminType {
			if containsEither(normalizeVitaminToken(vitaminType), token) {
				return true
			}
		}
	}
	return false
}

func normalizeVitaminToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
