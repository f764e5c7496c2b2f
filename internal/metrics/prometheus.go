package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "allerpredict_analysis_duration_seconds",
			Help:    "Product analysis duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"status"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allerpredict_analysis_total",
			Help: "Total analyses by outcome",
		},
		[]string{"status"},
	)

	NameMatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allerpredict_name_match_score",
			Help:    "Name match score of the winning candidate",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	CombinedMatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allerpredict_combined_match_score",
			Help:    "Combined match score of the winning candidate",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ConfidenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allerpredict_confidence_total",
			Help: "Accepted matches by confidence tier",
		},
		[]string{"tier"},
	)

	RiskLevelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allerpredict_risk_level_total",
			Help: "Analyses by computed risk level",
		},
		[]string{"level"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allerpredict_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allerpredict_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allerpredict_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"type"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(NameMatchScore)
	prometheus.MustRegister(CombinedMatchScore)
	prometheus.MustRegister(ConfidenceTotal)
	prometheus.MustRegister(RiskLevelTotal)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(LLMTokensUsed)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
