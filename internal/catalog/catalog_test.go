package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeBatchEmbedder struct {
	dim   int
	short bool
	err   error
}

func (f *fakeBatchEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}

	n := len(texts)
	if f.short {
		n--
	}

	embeddings := make([][]float32, n)
	for i := range embeddings {
		embeddings[i] = make([]float32, f.dim)
		if f.dim > 0 {
			embeddings[i][0] = 1
		}
	}
	return embeddings, nil
}

func writeCatalog(t *testing.T, products []Product) string {
	t.Helper()

	data, err := json.Marshal(products)
	if err != nil {
		t.Fatalf("failed to marshal products: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads products and builds search texts", func(t *testing.T) {
		path := writeCatalog(t, []Product{
			{Name: "Oreo", Brand: "Nabisco", Category: "Cookies"},
			{Name: "Nutella", Brand: "Ferrero", Category: "Spreads"},
		})

		store, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if store.Len() != 2 {
			t.Errorf("Len = %d, want 2", store.Len())
		}
		want := "Oreo Oreo Oreo Nabisco Nabisco Cookies"
		if got := store.SearchTextAt(0); got != want {
			t.Errorf("SearchTextAt(0) = %q, want %q", got, want)
		}
	})

	t.Run("empty catalog is an error", func(t *testing.T) {
		path := writeCatalog(t, []Product{})

		_, err := Load(path)
		if !errors.Is(err, ErrEmptyCatalog) {
			t.Errorf("error = %v, want ErrEmptyCatalog", err)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for malformed json")
		}
	})

	t.Run("records with empty names are kept", func(t *testing.T) {
		path := writeCatalog(t, []Product{
			{Name: "", Brand: "Nabisco", Category: "Cookies"},
			{Name: "Oreo", Brand: "Nabisco", Category: "Cookies"},
		})

		store, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.Len() != 2 {
			t.Errorf("Len = %d, want 2", store.Len())
		}
	})
}

func TestSearchText(t *testing.T) {
	t.Run("name and brand are repeated for weight", func(t *testing.T) {
		p := &Product{Name: "Oreo", Brand: "Nabisco", Category: "Cookies"}
		want := "Oreo Oreo Oreo Nabisco Nabisco Cookies"
		if got := SearchText(p); got != want {
			t.Errorf("SearchText = %q, want %q", got, want)
		}
	})

	t.Run("result is trimmed when fields are missing", func(t *testing.T) {
		p := &Product{Name: "Oreo"}
		got := SearchText(p)
		if got == "" || got[0] == ' ' || got[len(got)-1] == ' ' {
			t.Errorf("SearchText = %q, want trimmed", got)
		}
	})
}

func TestBuildRepresentations(t *testing.T) {
	newStore := func(t *testing.T) *Store {
		path := writeCatalog(t, []Product{
			{Name: "Oreo", Brand: "Nabisco", Category: "Cookies"},
			{Name: "Nutella", Brand: "Ferrero", Category: "Spreads"},
		})
		store, err := Load(path)
		if err != nil {
			t.Fatalf("failed to load catalog: %v", err)
		}
		return store
	}

	t.Run("stores one embedding per product", func(t *testing.T) {
		store := newStore(t)

		err := store.BuildRepresentations(context.Background(), &fakeBatchEmbedder{dim: 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := 0; i < store.Len(); i++ {
			if len(store.Embedding(i)) != 4 {
				t.Errorf("Embedding(%d) has dim %d, want 4", i, len(store.Embedding(i)))
			}
		}
	})

	t.Run("count mismatch is an error", func(t *testing.T) {
		store := newStore(t)

		err := store.BuildRepresentations(context.Background(), &fakeBatchEmbedder{dim: 4, short: true})
		if err == nil {
			t.Fatal("expected error for embedding count mismatch")
		}
	})

	t.Run("empty embedding is an error", func(t *testing.T) {
		store := newStore(t)

		err := store.BuildRepresentations(context.Background(), &fakeBatchEmbedder{dim: 0})
		if err == nil {
			t.Fatal("expected error for empty embedding")
		}
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		store := newStore(t)
		embedErr := errors.New("embedding service down")

		err := store.BuildRepresentations(context.Background(), &fakeBatchEmbedder{err: embedErr})
		if !errors.Is(err, embedErr) {
			t.Errorf("error = %v, want wrapped %v", err, embedErr)
		}
	})
}

func TestByCategory(t *testing.T) {
	path := writeCatalog(t, []Product{
		{Name: "Oreo", Brand: "Nabisco", Category: "Cookies"},
		{Name: "Chips Ahoy", Brand: "Nabisco", Category: "cookies"},
		{Name: "Nutella", Brand: "Ferrero", Category: "Spreads"},
	})

	store, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	t.Run("matches case-insensitively", func(t *testing.T) {
		got := store.ByCategory("COOKIES")
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
	})

	t.Run("unknown category returns nothing", func(t *testing.T) {
		if got := store.ByCategory("frozen"); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}
