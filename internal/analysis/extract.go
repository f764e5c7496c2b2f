package analysis

import "strings"

// Placeholder values that mean "no allergens" in catalog data.
var emptyAllergenValues = map[string]bool{
	"none":         true,
	"n/a":          true,
	"no allergens": true,
	"nil":          true,
}

// ExtractAllergens parses a comma-delimited allergen warning field. Source
// order is preserved and duplicates are kept; only empties and placeholder
// values are dropped.
func ExtractAllergens(text string) []string {
	allergens := make([]string, 0)
	if strings.TrimSpace(text) == "" {
		return allergens
	}

	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item == "" || emptyAllergenValues[strings.ToLower(item)] {
			continue
		}
		allergens = append(allergens, item)
	}

	return allergens
}

// ExtractRecommendations parses a comma-delimited alternatives field, dropping
// fragments too short to name a product.
func ExtractRecommendations(text string) []string {
	recommendations := make([]string, 0)
	if strings.TrimSpace(text) == "" {
		return recommendations
	}

	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if len(item) <= 2 {
			continue
		}
		recommendations = append(recommendations, item)
	}

	return recommendations
}
