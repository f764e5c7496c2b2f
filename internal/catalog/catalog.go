package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/allerpredict/backend/pkg/logger"
)

var (
	ErrEmptyCatalog = errors.New("catalog contains no products")
)

// Product is one record of the reference catalog. The catalog is read-only for
// the lifetime of the process; a product's identity is its position in the file.
type Product struct {
	Name             string `json:"name"`
	Brand            string `json:"brand"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	Ingredients      string `json:"ingredients"`
	AllergenWarnings string `json:"allergen_warnings"`
	EthicalNotes     string `json:"ethical_notes"`
	Recommendations  string `json:"recommendations"`
}

// BatchEmbedder encodes a batch of texts into fixed-length vectors.
type BatchEmbedder interface {
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Store holds the catalog together with the derived search representations.
// Everything is built once at startup and shared read-only across queries.
type Store struct {
	products    []Product
	searchTexts []string
	embeddings  [][]float32
}

// Load reads the product catalog from a JSON file. Records with an empty name
// are kept (matching degrades to brand and semantic paths) but logged, since
// name similarity is the dominant ranking signal.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			logger.Warn("Catalog record has no name, it can only match by brand or semantics",
				zap.Int("index", i),
				zap.String("brand", p.Brand),
			)
		}
	}

	store := &Store{
		products:    products,
		searchTexts: make([]string, len(products)),
	}
	for i := range products {
		store.searchTexts[i] = SearchText(&products[i])
	}

	logger.Info("Catalog loaded",
		zap.String("path", path),
		zap.Int("products", len(products)),
	)

	return store, nil
}

// SearchText builds the weighted text the embedding is computed over. The name
// is repeated three times and the brand twice so semantic similarity ranks name
// hits far above brand and category noise.
func SearchText(p *Product) string {
	parts := []string{p.Name, p.Name, p.Name, p.Brand, p.Brand, p.Category}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// BuildRepresentations encodes every product's search text. A failure for any
// record aborts the whole build: a partially embedded catalog would silently
// skew every subsequent ranking.
func (s *Store) BuildRepresentations(ctx context.Context, embedder BatchEmbedder) error {
	embeddings, err := embedder.GenerateBatchEmbeddings(ctx, s.searchTexts)
	if err != nil {
		return fmt.Errorf("failed to embed catalog: %w", err)
	}

	if len(embeddings) != len(s.products) {
		return fmt.Errorf("catalog embedding count mismatch: got %d, expected %d",
			len(embeddings), len(s.products))
	}

	for i, emb := range embeddings {
		if len(emb) == 0 {
			return fmt.Errorf("empty embedding for catalog record %d (%q)", i, s.products[i].Name)
		}
	}

	s.embeddings = embeddings

	logger.Info("Catalog representations built",
		zap.Int("products", len(s.products)),
		zap.Int("dimension", len(embeddings[0])),
	)

	return nil
}

func (s *Store) Len() int {
	return len(s.products)
}

func (s *Store) Product(i int) *Product {
	return &s.products[i]
}

func (s *Store) Products() []Product {
	return s.products
}

func (s *Store) SearchTextAt(i int) string {
	return s.searchTexts[i]
}

func (s *Store) Embedding(i int) []float32 {
	if s.embeddings == nil {
		return nil
	}
	return s.embeddings[i]
}

// ByCategory returns all products whose category matches case-insensitively.
func (s *Store) ByCategory(category string) []Product {
	want := strings.ToLower(strings.TrimSpace(category))

	var matching []Product
	for _, p := range s.products {
		if strings.ToLower(strings.TrimSpace(p.Category)) == want {
			matching = append(matching, p)
		}
	}
	return matching
}
