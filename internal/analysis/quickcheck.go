package analysis

import (
	"context"
	"strings"
)

// QuickCheckResult answers "does this product mention that allergen" without
// running the full scoring pipeline.
type QuickCheckResult struct {
	Found            bool             `json:"found"`
	ProductName      string           `json:"product_name,omitempty"`
	Brand            string           `json:"brand,omitempty"`
	Allergen         string           `json:"allergen"`
	ContainsAllergen bool             `json:"contains_allergen"`
	MatchedIn        string           `json:"matched_in,omitempty"`
	Confidence       Confidence       `json:"confidence,omitempty"`
	Message          string           `json:"message,omitempty"`
	SimilarProducts  []SimilarProduct `json:"similar_products,omitempty"`
}

// QuickCheck resolves the product through the normal matcher and scans its
// allergen warnings and ingredients for the given allergen, case-insensitively.
func (e *Engine) QuickCheck(ctx context.Context, productName, allergen string) (*QuickCheckResult, error) {
	result, err := e.Analyze(ctx, productName)
	if err != nil {
		return nil, err
	}

	check := &QuickCheckResult{
		Found:    result.Found,
		Allergen: allergen,
	}

	if !result.Found {
		check.Message = result.Message
		check.SimilarProducts = result.SimilarProducts
		return check, nil
	}

	check.ProductName = result.ProductName
	check.Brand = result.Brand
	check.Confidence = result.Confidence

	needle := strings.ToLower(strings.TrimSpace(allergen))
	if needle == "" {
		return check, nil
	}

	allergenText := strings.ToLower(strings.Join(result.DetectedAllergens, ", "))
	if strings.Contains(allergenText, needle) {
		check.ContainsAllergen = true
		check.MatchedIn = "allergen_warnings"
		return check, nil
	}

	if strings.Contains(strings.ToLower(result.Ingredients), needle) {
		check.ContainsAllergen = true
		check.MatchedIn = "ingredients"
	}

	return check, nil
}
