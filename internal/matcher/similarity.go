package matcher

import (
	"math"
	"strings"
)

// Similarity ladder for a query against a product or brand name, in [0,1]:
// exact match 1.0, substring containment 0.9, shared words 0.5 plus a
// Jaccard-weighted bonus, otherwise a discounted character-level ratio that
// catches typos.
func NameSimilarity(query, name string) float64 {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	nameLower := strings.ToLower(strings.TrimSpace(name))

	if queryLower == "" || nameLower == "" {
		return 0
	}

	if queryLower == nameLower {
		return 1.0
	}

	if strings.Contains(nameLower, queryLower) || strings.Contains(queryLower, nameLower) {
		return 0.9
	}

	queryWords := wordSet(queryLower)
	nameWords := wordSet(nameLower)

	common := intersectionSize(queryWords, nameWords)
	if common > 0 {
		total := unionSize(queryWords, nameWords)
		return 0.5 + 0.4*float64(common)/float64(total)
	}

	return 0.6 * characterSimilarity(queryLower, nameLower)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func intersectionSize(a, b map[string]bool) int {
	count := 0
	for w := range a {
		if b[w] {
			count++
		}
	}
	return count
}

func unionSize(a, b map[string]bool) int {
	count := len(a)
	for w := range b {
		if !a[w] {
			count++
		}
	}
	return count
}

// characterSimilarity is a longest-common-subsequence ratio in [0,1]:
// 2*LCS / (len(a)+len(b)). It degrades gracefully for misspellings where the
// word-set comparison finds nothing.
func characterSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)

	lcs := lcsLength(ra, rb)
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

// lcsLength fills the DP table two rows at a time.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return prev[len(b)]
}

// CosineSimilarity is the normalized dot product of two vectors. The result is
// in [-1,1]; callers reading it as a percentage must clamp to [0,1] themselves.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
