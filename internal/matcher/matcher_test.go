package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/allerpredict/backend/internal/catalog"
)

// fakeEmbedder returns a fixed vector for catalog texts and a configurable one
// for queries, so name and semantic scores can be controlled independently.
type fakeEmbedder struct {
	queryVec []float32
	err      error
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.queryVec, nil
}

func (f *fakeEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{1, 0}
	}
	return embeddings, nil
}

func newTestStore(t *testing.T, products []catalog.Product) *catalog.Store {
	t.Helper()

	data, err := json.Marshal(products)
	if err != nil {
		t.Fatalf("failed to marshal products: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	store, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	if err := store.BuildRepresentations(context.Background(), &fakeEmbedder{}); err != nil {
		t.Fatalf("failed to build representations: %v", err)
	}

	return store
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{Name: "Oreo", Brand: "Nabisco", Category: "Cookies"},
		{Name: "Nutella", Brand: "Ferrero", Category: "Spreads"},
		{Name: "Cheerios", Brand: "General Mills", Category: "Cereal"},
		{Name: "Doritos", Brand: "Frito-Lay", Category: "Chips"},
	}
}

func TestMatch(t *testing.T) {
	t.Run("exact name ranks first with full scores", func(t *testing.T) {
		store := newTestStore(t, testProducts())
		m := New(store, &fakeEmbedder{queryVec: []float32{1, 0}}, DefaultConfig())

		candidates, err := m.Match(context.Background(), "oreo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if candidates[0].Product.Name != "Oreo" {
			t.Errorf("best candidate = %q, want Oreo", candidates[0].Product.Name)
		}
		if candidates[0].NameScore != 1.0 {
			t.Errorf("NameScore = %v, want 1.0", candidates[0].NameScore)
		}
		if math.Abs(candidates[0].CombinedScore-1.0) > 1e-9 {
			t.Errorf("CombinedScore = %v, want 1.0", candidates[0].CombinedScore)
		}
	})

	t.Run("brand match applies the discount", func(t *testing.T) {
		store := newTestStore(t, testProducts())
		m := New(store, &fakeEmbedder{queryVec: []float32{0, 1}}, DefaultConfig())

		candidates, err := m.Match(context.Background(), "nabisco")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if candidates[0].Product.Name != "Oreo" {
			t.Fatalf("best candidate = %q, want Oreo", candidates[0].Product.Name)
		}
		if math.Abs(candidates[0].NameScore-0.8) > 1e-9 {
			t.Errorf("NameScore = %v, want 0.8 (discounted brand match)", candidates[0].NameScore)
		}
	})

	t.Run("returns at most TopCandidates results ordered by combined score", func(t *testing.T) {
		store := newTestStore(t, testProducts())
		m := New(store, &fakeEmbedder{queryVec: []float32{0, 1}}, DefaultConfig())

		candidates, err := m.Match(context.Background(), "cheerios cereal")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(candidates) != DefaultTopCandidates {
			t.Fatalf("len(candidates) = %d, want %d", len(candidates), DefaultTopCandidates)
		}
		for i := 1; i < len(candidates); i++ {
			if candidates[i].CombinedScore > candidates[i-1].CombinedScore {
				t.Errorf("candidates out of order at %d: %v > %v",
					i, candidates[i].CombinedScore, candidates[i-1].CombinedScore)
			}
		}
	})

	t.Run("raw semantic score is not clamped", func(t *testing.T) {
		store := newTestStore(t, testProducts())
		m := New(store, &fakeEmbedder{queryVec: []float32{-1, 0}}, DefaultConfig())

		candidates, err := m.Match(context.Background(), "oreo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if candidates[0].SemanticScore >= 0 {
			t.Errorf("SemanticScore = %v, want negative", candidates[0].SemanticScore)
		}
	})

	t.Run("embedding failure surfaces as error", func(t *testing.T) {
		store := newTestStore(t, testProducts())
		embedErr := errors.New("embedding service down")
		m := New(store, &fakeEmbedder{err: embedErr}, DefaultConfig())

		_, err := m.Match(context.Background(), "oreo")
		if !errors.Is(err, embedErr) {
			t.Errorf("error = %v, want wrapped %v", err, embedErr)
		}
	})
}
