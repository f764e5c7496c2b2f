package matcher

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/catalog"
	"github.com/allerpredict/backend/pkg/logger"
)

// Score weights and the brand discount. Name similarity dominates on purpose:
// semantic similarity alone confuses products that live in the same category
// (two different cookie brands score nearly identically on embeddings).
const (
	DefaultNameWeight     = 0.7
	DefaultSemanticWeight = 0.3
	brandDiscount         = 0.8
	DefaultTopCandidates  = 3
)

// Embedder encodes one query text into a vector comparable with the catalog
// embeddings.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	NameWeight     float64
	SemanticWeight float64
	TopCandidates  int
}

func DefaultConfig() Config {
	return Config{
		NameWeight:     DefaultNameWeight,
		SemanticWeight: DefaultSemanticWeight,
		TopCandidates:  DefaultTopCandidates,
	}
}

// Candidate is one scored catalog record for a single query. The product is
// borrowed from the store, never copied.
type Candidate struct {
	Index   int
	Product *catalog.Product

	NameScore float64
	// SemanticScore is the raw cosine similarity in [-1,1]. It is NOT clamped
	// here; anything presenting it as a percentage must clamp at that boundary.
	SemanticScore float64
	CombinedScore float64
}

type Matcher struct {
	store    *catalog.Store
	embedder Embedder
	cfg      Config
}

func New(store *catalog.Store, embedder Embedder, cfg Config) *Matcher {
	if cfg.NameWeight == 0 && cfg.SemanticWeight == 0 {
		cfg.NameWeight = DefaultNameWeight
		cfg.SemanticWeight = DefaultSemanticWeight
	}
	if cfg.TopCandidates <= 0 {
		cfg.TopCandidates = DefaultTopCandidates
	}

	return &Matcher{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Match scores every catalog record against the query and returns the top
// candidates ordered by descending combined score.
func (m *Matcher) Match(ctx context.Context, query string) ([]Candidate, error) {
	queryEmbedding, err := m.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	candidates := make([]Candidate, 0, m.store.Len())
	for i := 0; i < m.store.Len(); i++ {
		product := m.store.Product(i)

		nameScore := NameSimilarity(query, product.Name)
		if brandScore := brandDiscount * NameSimilarity(query, product.Brand); brandScore > nameScore {
			nameScore = brandScore
		}

		semanticScore := CosineSimilarity(queryEmbedding, m.store.Embedding(i))
		if semanticScore < 0 {
			logger.Debug("Negative cosine similarity for candidate",
				zap.String("query", query),
				zap.String("product", product.Name),
				zap.Float64("semantic_score", semanticScore),
			)
		}

		candidates = append(candidates, Candidate{
			Index:         i,
			Product:       product,
			NameScore:     nameScore,
			SemanticScore: semanticScore,
			CombinedScore: m.cfg.NameWeight*nameScore + m.cfg.SemanticWeight*semanticScore,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].CombinedScore > candidates[b].CombinedScore
	})

	top := m.cfg.TopCandidates
	if top > len(candidates) {
		top = len(candidates)
	}
	candidates = candidates[:top]

	if len(candidates) > 0 {
		logger.Debug("Query matched",
			zap.String("query", query),
			zap.String("best", candidates[0].Product.Name),
			zap.Float64("name_score", candidates[0].NameScore),
			zap.Float64("combined_score", candidates[0].CombinedScore),
		)
	}

	return candidates, nil
}
