package redis

import (
	"context"

	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/metrics"
	"github.com/allerpredict/backend/pkg/logger"
	"github.com/allerpredict/backend/pkg/utils"
)

// Embedder is the upstream encode call the cache wraps.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// CachingEmbedder serves query embeddings from redis before falling through to
// the upstream client. Cache failures degrade to a direct encode, never to a
// request failure.
type CachingEmbedder struct {
	upstream Embedder
	cache    *Client
}

func NewCachingEmbedder(upstream Embedder, cache *Client) *CachingEmbedder {
	return &CachingEmbedder{
		upstream: upstream,
		cache:    cache,
	}
}

func (e *CachingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	textHash := utils.HashQuery(text)

	embedding, found, err := e.cache.GetEmbedding(ctx, textHash)
	if err != nil {
		logger.Warn("Embedding cache lookup failed", zap.Error(err))
	}
	if found {
		metrics.CacheHits.WithLabelValues("embedding").Inc()
		return embedding, nil
	}
	metrics.CacheMisses.WithLabelValues("embedding").Inc()

	embedding, err = e.upstream.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.cache.SetEmbedding(ctx, textHash, embedding, e.cache.TTL()); err != nil {
		logger.Warn("Failed to cache embedding", zap.Error(err))
	}

	return embedding, nil
}
