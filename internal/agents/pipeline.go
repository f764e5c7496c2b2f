package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/analysis"
	"github.com/allerpredict/backend/internal/report"
	"github.com/allerpredict/backend/pkg/logger"
)

// The two workflow roles. The analyst step is the deterministic engine plus
// the report renderer; the recommender step is a prompt-template call into the
// language model. Each step is a plain function of its structured input, not a
// runtime agent object.
const (
	AnalystAgent     = "Product Safety Analyst"
	RecommenderAgent = "Product Recommendation Specialist"
)

// Recommender generates shopping guidance from a rendered analysis report.
type Recommender interface {
	GenerateRecommendations(ctx context.Context, analysisReport string) (string, error)
}

// Pipeline runs the two-step workflow: analyze, then recommend. The
// recommendation step is optional and best-effort; the pipeline degrades to a
// report-only outcome when it is missing or fails.
type Pipeline struct {
	engine      *analysis.Engine
	recommender Recommender
}

func NewPipeline(engine *analysis.Engine, recommender Recommender) *Pipeline {
	return &Pipeline{
		engine:      engine,
		recommender: recommender,
	}
}

// Outcome is the full pipeline output: the structured result plus the rendered
// and generated text layers around it.
type Outcome struct {
	Success         bool             `json:"success"`
	ProductQuery    string           `json:"product_query"`
	Result          *analysis.Result `json:"result"`
	Analysis        string           `json:"analysis"`
	Recommendations string           `json:"recommendations"`
	FullReport      string           `json:"full_report"`
	AgentsUsed      []string         `json:"agents_used"`
}

// Run analyzes the query and, for found products, generates recommendations.
// The optional user context is folded into the query as a note, so allergy
// hints influence the semantic side of matching.
func (p *Pipeline) Run(ctx context.Context, productQuery, userContext string) (*Outcome, error) {
	fullQuery := productQuery
	if userContext != "" {
		fullQuery = fmt.Sprintf("%s (User note: %s)", productQuery, userContext)
	}

	result, err := p.engine.Analyze(ctx, fullQuery)
	if err != nil {
		return nil, fmt.Errorf("analysis step failed: %w", err)
	}

	analysisText := report.Render(result)

	outcome := &Outcome{
		Success:      true,
		ProductQuery: productQuery,
		Result:       result,
		Analysis:     analysisText,
		FullReport:   analysisText,
		AgentsUsed:   []string{AnalystAgent},
	}

	if !result.Found || p.recommender == nil {
		return outcome, nil
	}

	recommendations, err := p.recommender.GenerateRecommendations(ctx, analysisText)
	if err != nil {
		logger.Warn("Recommendation step failed, returning analysis only",
			zap.String("query", productQuery),
			zap.Error(err),
		)
		return outcome, nil
	}

	outcome.Recommendations = recommendations
	outcome.FullReport = analysisText + "\n\n" + recommendations
	outcome.AgentsUsed = append(outcome.AgentsUsed, RecommenderAgent)

	return outcome, nil
}
