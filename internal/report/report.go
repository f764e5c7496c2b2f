package report

import (
	"fmt"
	"strings"

	"github.com/allerpredict/backend/internal/analysis"
)

// Render turns a structured analysis result into the plain-text report the
// generation step and the websocket channel consume. Found and not-found
// results render to different templates.
func Render(result *analysis.Result) string {
	if !result.Found {
		return renderNotFound(result)
	}
	return renderFound(result)
}

func renderFound(result *analysis.Result) string {
	allergenText := "None detected"
	if len(result.DetectedAllergens) > 0 {
		allergenText = strings.Join(result.DetectedAllergens, ", ")
	}

	recText := "No specific alternatives listed"
	if len(result.Recommendations) > 0 {
		var lines []string
		for _, rec := range result.Recommendations {
			lines = append(lines, fmt.Sprintf("- %s", rec))
		}
		recText = strings.Join(lines, "\n")
	}

	warningText := ""
	if result.Warning != "" {
		warningText = fmt.Sprintf("\nWARNING: %s\n", result.Warning)
	}

	return fmt.Sprintf(`PRODUCT ANALYSIS REPORT

Product: %s
Brand: %s
Category: %s
Name Match: %.1f%%
Overall Match: %.1f%%
Confidence: %s
%s
DESCRIPTION:
%s

INGREDIENTS:
%s

ALLERGEN ANALYSIS:
Detected Allergens: %s
Total Count: %d
Risk Level: %s

ETHICAL ASSESSMENT:
Ethical Score: %d/100
Details: %s

RECOMMENDED ALTERNATIVES:
%s

Analysis completed with %s confidence.
`,
		result.ProductName,
		result.Brand,
		result.Category,
		result.NameMatchScore,
		result.MatchScore,
		strings.ToUpper(string(result.Confidence)),
		warningText,
		result.Description,
		result.Ingredients,
		allergenText,
		result.AllergenCount,
		strings.ToUpper(string(result.RiskLevel)),
		result.EthicalScore,
		result.EthicalNotes,
		recText,
		result.Confidence,
	)
}

func renderNotFound(result *analysis.Result) string {
	var suggestions []string
	for _, p := range result.SimilarProducts {
		suggestions = append(suggestions, fmt.Sprintf("- %s (%s) - Name match: %.1f%%", p.Name, p.Brand, p.NameMatch))
	}

	similarText := "No similar products found."
	if len(suggestions) > 0 {
		similarText = strings.Join(suggestions, "\n")
	}

	return fmt.Sprintf(`PRODUCT NOT FOUND

%s

Did you mean one of these?
%s

Please search with the exact product name.
`,
		result.Message,
		similarText,
	)
}
