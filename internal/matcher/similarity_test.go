package matcher

import (
	"math"
	"testing"
)

func TestNameSimilarity(t *testing.T) {
	t.Run("exact match returns 1.0", func(t *testing.T) {
		if got := NameSimilarity("Oreo", "Oreo"); got != 1.0 {
			t.Errorf("NameSimilarity = %v, want 1.0", got)
		}
	})

	t.Run("match is case and whitespace insensitive", func(t *testing.T) {
		if got := NameSimilarity("  oreo ", "OREO"); got != 1.0 {
			t.Errorf("NameSimilarity = %v, want 1.0", got)
		}
	})

	t.Run("query contained in name returns 0.9", func(t *testing.T) {
		if got := NameSimilarity("oreo", "Oreo Cookies"); got != 0.9 {
			t.Errorf("NameSimilarity = %v, want 0.9", got)
		}
	})

	t.Run("name contained in query returns 0.9", func(t *testing.T) {
		if got := NameSimilarity("oreo cookies", "Oreo"); got != 0.9 {
			t.Errorf("NameSimilarity = %v, want 0.9", got)
		}
	})

	t.Run("shared words score 0.5 plus jaccard bonus", func(t *testing.T) {
		// common {butter}, union {peanut, almond, butter}
		want := 0.5 + 0.4*1.0/3.0
		got := NameSimilarity("peanut butter", "almond butter")
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("NameSimilarity = %v, want %v", got, want)
		}
	})

	t.Run("disjoint words fall back to character similarity", func(t *testing.T) {
		// LCS("abxy", "abcd") = 2, so 0.6 * (2*2 / 8) = 0.3
		got := NameSimilarity("abxy", "abcd")
		if math.Abs(got-0.3) > 1e-9 {
			t.Errorf("NameSimilarity = %v, want 0.3", got)
		}
	})

	t.Run("no common characters score 0", func(t *testing.T) {
		if got := NameSimilarity("abcd", "zzzz"); got != 0 {
			t.Errorf("NameSimilarity = %v, want 0", got)
		}
	})

	t.Run("empty strings score 0", func(t *testing.T) {
		if got := NameSimilarity("", "Oreo"); got != 0 {
			t.Errorf("NameSimilarity(empty query) = %v, want 0", got)
		}
		if got := NameSimilarity("oreo", ""); got != 0 {
			t.Errorf("NameSimilarity(empty name) = %v, want 0", got)
		}
	})

	t.Run("substring beats word overlap for partial queries", func(t *testing.T) {
		substring := NameSimilarity("nutella", "Nutella Hazelnut Spread")
		overlap := NameSimilarity("nutella spread jar", "Nutella Hazelnut Spread")
		if substring <= overlap {
			t.Errorf("substring score %v should exceed word overlap score %v", substring, overlap)
		}
	})
}

func TestCharacterSimilarity(t *testing.T) {
	t.Run("identical strings score 1", func(t *testing.T) {
		if got := characterSimilarity("oreo", "oreo"); got != 1.0 {
			t.Errorf("characterSimilarity = %v, want 1.0", got)
		}
	})

	t.Run("single character typo stays high", func(t *testing.T) {
		// LCS("oreos", "oreoz") = 4, so 2*4/10 = 0.8
		got := characterSimilarity("oreos", "oreoz")
		if math.Abs(got-0.8) > 1e-9 {
			t.Errorf("characterSimilarity = %v, want 0.8", got)
		}
	})

	t.Run("empty against non-empty scores 0", func(t *testing.T) {
		if got := characterSimilarity("", "oreo"); got != 0 {
			t.Errorf("characterSimilarity = %v, want 0", got)
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		a := []float32{0.5, 0.5, 0.1}
		got := CosineSimilarity(a, a)
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("CosineSimilarity = %v, want 1.0", got)
		}
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		got := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		if got != 0 {
			t.Errorf("CosineSimilarity = %v, want 0", got)
		}
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
		if math.Abs(got-(-1.0)) > 1e-9 {
			t.Errorf("CosineSimilarity = %v, want -1.0", got)
		}
	})

	t.Run("mismatched dimensions score 0", func(t *testing.T) {
		got := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
		if got != 0 {
			t.Errorf("CosineSimilarity = %v, want 0", got)
		}
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		got := CosineSimilarity([]float32{0, 0}, []float32{1, 0})
		if got != 0 {
			t.Errorf("CosineSimilarity = %v, want 0", got)
		}
	})
}
