package analysis

// RiskLevel buckets the heuristic risk point scale.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// Confidence summarizes how trustworthy a match is, driven by name similarity.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the structured output of one analysis. It is a value returned to
// the caller; nothing in it is shared mutable state.
type Result struct {
	AnalysisID string `json:"analysis_id"`
	Found      bool   `json:"found"`

	// Populated when Found is false.
	Message         string           `json:"message,omitempty"`
	SimilarProducts []SimilarProduct `json:"similar_products,omitempty"`

	ProductName       string     `json:"product_name,omitempty"`
	Brand             string     `json:"brand,omitempty"`
	Category          string     `json:"category,omitempty"`
	Description       string     `json:"description,omitempty"`
	Ingredients       string     `json:"ingredients,omitempty"`
	DetectedAllergens []string   `json:"detected_allergens"`
	AllergenCount     int        `json:"allergen_count"`
	RiskLevel         RiskLevel  `json:"risk_level"`
	EthicalScore      int        `json:"ethical_score"`
	EthicalNotes      string     `json:"ethical_notes,omitempty"`
	Recommendations   []string   `json:"recommendations"`
	MatchScore        float64    `json:"match_score,omitempty"`
	NameMatchScore    float64    `json:"name_match_score,omitempty"`
	Confidence        Confidence `json:"confidence,omitempty"`
	Warning           string     `json:"warning,omitempty"`

	LatencyMS int `json:"latency_ms"`
}

// SimilarProduct is a "did you mean" suggestion attached to not-found results.
type SimilarProduct struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	NameMatch    float64 `json:"name_match"`
	OverallMatch float64 `json:"overall_match"`
}
