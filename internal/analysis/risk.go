package analysis

import "strings"

// Point values for the risk scale. This is a heuristic point scale, not a
// probabilistic model; the cut points are design constants with no calibration
// data behind them, which is why they stay overridable.
const (
	riskPointsFewAllergens  = 30 // 1-2 allergens
	riskPointsSomeAllergens = 60 // 3-4 allergens
	riskPointsManyAllergens = 90 // 5 or more
	riskPointsHighSeverity  = 20 // any high-severity allergen class
	riskPointsCrossContam   = 15 // cross-contamination language in ingredients

	DefaultRiskLowMax    = 20
	DefaultRiskMediumMax = 50
)

// Allergen classes with disproportionate severity per FDA major-allergen
// guidance. Matched case-insensitively as substrings of the allergen list.
var highSeverityAllergens = []string{"peanut", "tree nut", "shellfish", "fish", "sesame"}

var crossContamPhrases = []string{"may contain", "traces of"}

type RiskScorer struct {
	lowMax    int
	mediumMax int
}

func NewRiskScorer(lowMax, mediumMax int) *RiskScorer {
	if lowMax <= 0 {
		lowMax = DefaultRiskLowMax
	}
	if mediumMax <= lowMax {
		mediumMax = DefaultRiskMediumMax
	}

	return &RiskScorer{
		lowMax:    lowMax,
		mediumMax: mediumMax,
	}
}

// Level accumulates risk points from allergen count, allergen severity class,
// and cross-contamination warnings, then buckets the total. Total for any
// input, including empty lists.
func (s *RiskScorer) Level(allergens []string, ingredientsText string) RiskLevel {
	riskScore := 0

	switch n := len(allergens); {
	case n == 0:
		// no points
	case n <= 2:
		riskScore += riskPointsFewAllergens
	case n <= 4:
		riskScore += riskPointsSomeAllergens
	default:
		riskScore += riskPointsManyAllergens
	}

	allergenText := strings.ToLower(strings.Join(allergens, " "))
	for _, severe := range highSeverityAllergens {
		if strings.Contains(allergenText, severe) {
			riskScore += riskPointsHighSeverity
			break
		}
	}

	ingredientsLower := strings.ToLower(ingredientsText)
	for _, phrase := range crossContamPhrases {
		if strings.Contains(ingredientsLower, phrase) {
			riskScore += riskPointsCrossContam
			break
		}
	}

	switch {
	case riskScore <= s.lowMax:
		return RiskLow
	case riskScore <= s.mediumMax:
		return RiskMedium
	default:
		return RiskHigh
	}
}
