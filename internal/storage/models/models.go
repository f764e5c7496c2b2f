package models

import "time"

// AnalysisRecord is one row of analysis history.
type AnalysisRecord struct {
	ID             string
	Query          string
	Found          bool
	ProductName    string
	RiskLevel      string
	EthicalScore   int
	Confidence     string
	MatchScore     float64
	NameMatchScore float64
	LatencyMS      int
	CreatedAt      time.Time
}

type Feedback struct {
	ID         int
	AnalysisID string
	Helpful    bool
	Comment    string
	CreatedAt  time.Time
}
