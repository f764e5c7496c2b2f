package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/catalog"
	"github.com/allerpredict/backend/internal/matcher"
	"github.com/allerpredict/backend/internal/metrics"
	"github.com/allerpredict/backend/internal/storage/models"
	"github.com/allerpredict/backend/pkg/logger"
	"github.com/allerpredict/backend/pkg/utils"
)

// Acceptance thresholds and confidence tiers over the winning candidate's
// scores. Hand-tuned values; see MatcherConfig for why they are overridable.
const (
	DefaultMinNameScore     = 0.4
	DefaultMinCombinedScore = 0.5
	DefaultHighConfidence   = 0.8
	DefaultMediumConfidence = 0.5
)

const lowConfidenceWarning = "Low confidence match - please verify product name"

// ResultCache stores finished analyses keyed by query hash. Optional; a nil
// cache disables it.
type ResultCache interface {
	GetAnalysis(ctx context.Context, queryHash string, result interface{}) (bool, error)
	SetAnalysis(ctx context.Context, queryHash string, result interface{}, ttl time.Duration) error
}

// HistoryStore persists analysis records. Optional; write failures never fail
// a request.
type HistoryStore interface {
	InsertAnalysisRecord(record *models.AnalysisRecord) error
}

type Config struct {
	MinNameScore     float64
	MinCombinedScore float64
	HighConfidence   float64
	MediumConfidence float64
	CacheTTL         time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinNameScore:     DefaultMinNameScore,
		MinCombinedScore: DefaultMinCombinedScore,
		HighConfidence:   DefaultHighConfidence,
		MediumConfidence: DefaultMediumConfidence,
		CacheTTL:         time.Hour,
	}
}

// Engine assembles matcher output and the field scorers into one structured
// result. It performs pure reads over the shared catalog; all per-query state
// is local, so concurrent Analyze calls need no coordination.
type Engine struct {
	store      *catalog.Store
	matcher    *matcher.Matcher
	riskScorer *RiskScorer
	cache      ResultCache
	history    HistoryStore
	cfg        Config
}

func NewEngine(store *catalog.Store, m *matcher.Matcher, riskScorer *RiskScorer, cfg Config) *Engine {
	if cfg.MinNameScore == 0 {
		cfg.MinNameScore = DefaultMinNameScore
	}
	if cfg.MinCombinedScore == 0 {
		cfg.MinCombinedScore = DefaultMinCombinedScore
	}
	if cfg.HighConfidence == 0 {
		cfg.HighConfidence = DefaultHighConfidence
	}
	if cfg.MediumConfidence == 0 {
		cfg.MediumConfidence = DefaultMediumConfidence
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}

	return &Engine{
		store:      store,
		matcher:    m,
		riskScorer: riskScorer,
		cfg:        cfg,
	}
}

// WithCache attaches an optional result cache.
func (e *Engine) WithCache(cache ResultCache) *Engine {
	e.cache = cache
	return e
}

// WithHistory attaches an optional history store.
func (e *Engine) WithHistory(history HistoryStore) *Engine {
	e.history = history
	return e
}

// Analyze maps a free-text product query onto the catalog and derives the
// safety/ethics report. A query that clears neither acceptance threshold
// returns a not-found result, not an error; only an embedding failure is an
// error.
func (e *Engine) Analyze(ctx context.Context, query string) (*Result, error) {
	startTime := time.Now()
	queryHash := utils.HashQuery(query)

	if e.cache != nil {
		var cached Result
		found, err := e.cache.GetAnalysis(ctx, queryHash, &cached)
		if err != nil {
			logger.Warn("Analysis cache lookup failed", zap.Error(err))
		}
		if found {
			metrics.CacheHits.WithLabelValues("analysis").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("analysis").Inc()
	}

	candidates, err := e.matcher.Match(ctx, query)
	if err != nil {
		metrics.AnalysisTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to match query: %w", err)
	}
	if len(candidates) == 0 {
		metrics.AnalysisTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("matcher returned no candidates for %q", query)
	}

	analysisID := uuid.New().String()
	best := candidates[0]

	metrics.NameMatchScore.Observe(best.NameScore)
	metrics.CombinedMatchScore.Observe(best.CombinedScore)

	var result *Result
	// Both thresholds must fail to reject: a strong name match alone, or a
	// strong combined score alone, is enough to accept. Semantic similarity
	// by itself is never trusted to pick a product.
	if best.NameScore < e.cfg.MinNameScore && best.CombinedScore < e.cfg.MinCombinedScore {
		result = e.notFoundResult(analysisID, query, candidates)
		metrics.AnalysisTotal.WithLabelValues("not_found").Inc()
	} else {
		result = e.foundResult(analysisID, best)
		metrics.AnalysisTotal.WithLabelValues("found").Inc()
		metrics.ConfidenceTotal.WithLabelValues(string(result.Confidence)).Inc()
		metrics.RiskLevelTotal.WithLabelValues(string(result.RiskLevel)).Inc()
	}

	result.LatencyMS = int(time.Since(startTime).Milliseconds())
	metrics.AnalysisDuration.WithLabelValues(statusLabel(result.Found)).Observe(time.Since(startTime).Seconds())

	e.record(result, query)

	if e.cache != nil {
		if err := e.cache.SetAnalysis(ctx, queryHash, result, e.cfg.CacheTTL); err != nil {
			logger.Warn("Failed to cache analysis", zap.Error(err))
		}
	}

	logger.Info("Query analyzed",
		zap.String("analysis_id", analysisID),
		zap.String("query", query),
		zap.Bool("found", result.Found),
		zap.Float64("name_score", best.NameScore),
		zap.Float64("combined_score", best.CombinedScore),
		zap.Int("latency_ms", result.LatencyMS),
	)

	return result, nil
}

func (e *Engine) foundResult(analysisID string, best matcher.Candidate) *Result {
	product := best.Product

	allergens := ExtractAllergens(product.AllergenWarnings)
	riskLevel := e.riskScorer.Level(allergens, product.Ingredients)
	ethicalScore := CalculateEthicalScore(product.EthicalNotes)
	recommendations := ExtractRecommendations(product.Recommendations)

	confidence := ConfidenceLow
	switch {
	case best.NameScore > e.cfg.HighConfidence:
		confidence = ConfidenceHigh
	case best.NameScore > e.cfg.MediumConfidence:
		confidence = ConfidenceMedium
	}

	result := &Result{
		AnalysisID:        analysisID,
		Found:             true,
		ProductName:       product.Name,
		Brand:             product.Brand,
		Category:          product.Category,
		Description:       product.Description,
		Ingredients:       product.Ingredients,
		DetectedAllergens: allergens,
		AllergenCount:     len(allergens),
		RiskLevel:         riskLevel,
		EthicalScore:      ethicalScore,
		EthicalNotes:      product.EthicalNotes,
		Recommendations:   recommendations,
		MatchScore:        asPercent(best.CombinedScore),
		NameMatchScore:    asPercent(best.NameScore),
		Confidence:        confidence,
	}

	if confidence == ConfidenceLow {
		result.Warning = lowConfidenceWarning
	}

	return result
}

func (e *Engine) notFoundResult(analysisID, query string, candidates []matcher.Candidate) *Result {
	similar := make([]SimilarProduct, 0, len(candidates))
	for _, c := range candidates {
		similar = append(similar, SimilarProduct{
			Name:         c.Product.Name,
			Brand:        c.Product.Brand,
			NameMatch:    asPercent(c.NameScore),
			OverallMatch: asPercent(c.CombinedScore),
		})
	}

	return &Result{
		AnalysisID:        analysisID,
		Found:             false,
		Message:           fmt.Sprintf("Product '%s' not found in database.", query),
		SimilarProducts:   similar,
		DetectedAllergens: make([]string, 0),
		RiskLevel:         RiskUnknown,
		EthicalScore:      0,
		Recommendations:   make([]string, 0),
	}
}

func (e *Engine) record(result *Result, query string) {
	if e.history == nil {
		return
	}

	err := e.history.InsertAnalysisRecord(&models.AnalysisRecord{
		ID:             result.AnalysisID,
		Query:          query,
		Found:          result.Found,
		ProductName:    result.ProductName,
		RiskLevel:      string(result.RiskLevel),
		EthicalScore:   result.EthicalScore,
		Confidence:     string(result.Confidence),
		MatchScore:     result.MatchScore,
		NameMatchScore: result.NameMatchScore,
		LatencyMS:      result.LatencyMS,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		logger.Warn("Failed to record analysis", zap.Error(err))
	}
}

// asPercent converts a score to a display percentage rounded to one decimal.
// Cosine similarity can be negative; the clamp happens here, at the display
// boundary, so the raw candidate scores stay untouched for ranking.
func asPercent(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*1000) / 10
}

func statusLabel(found bool) string {
	if found {
		return "found"
	}
	return "not_found"
}
