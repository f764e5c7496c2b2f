package analysis

import "strings"

// Keyword weights for the ethical score. Every matching keyword applies; hits
// are additive, not short-circuited, so a note mentioning both a lawsuit and
// child labor is penalized for both.
const (
	ethicsNeutralDefault = 75 // unknown is discounted slightly, not punished
	ethicsStartScore     = 100

	ethicsSeriousPenalty  = 30
	ethicsMajorPenalty    = 20
	ethicsModeratePenalty = 15
	ethicsPositiveBonus   = 10
)

var (
	ethicsSeriousKeywords  = []string{"child labor", "forced labor", "slavery", "exploitation"}
	ethicsMajorKeywords    = []string{"lawsuit", "accused", "investigation", "violation"}
	ethicsModerateKeywords = []string{"criticism", "controversy", "concern", "disputed"}
	ethicsPositiveKeywords = []string{"fair trade", "organic", "sustainable", "certified", "ethical"}
)

// CalculateEthicalScore derives a 0-100 score from free-text ethical notes.
// Empty notes return the neutral-positive default: absence of negative
// evidence is not evidence of harm.
func CalculateEthicalScore(notes string) int {
	if strings.TrimSpace(notes) == "" {
		return ethicsNeutralDefault
	}

	text := strings.ToLower(notes)
	score := ethicsStartScore

	for _, keyword := range ethicsSeriousKeywords {
		if strings.Contains(text, keyword) {
			score -= ethicsSeriousPenalty
		}
	}
	for _, keyword := range ethicsMajorKeywords {
		if strings.Contains(text, keyword) {
			score -= ethicsMajorPenalty
		}
	}
	for _, keyword := range ethicsModerateKeywords {
		if strings.Contains(text, keyword) {
			score -= ethicsModeratePenalty
		}
	}
	for _, keyword := range ethicsPositiveKeywords {
		if strings.Contains(text, keyword) {
			score += ethicsPositiveBonus
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}
