package match

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Thresholds used across the order desk.
const (
	// ModelCutoff is the minimum similarity for a fuzzy model-name match.
	ModelCutoff = 0.75
	// PhraseCutoff is the minimum similarity between an utterance and a confirmation
	// phrase, and between a named model and a cancellation candidate.
	PhraseCutoff = 0.8
	// SuggestionCutoff is the minimum similarity for "did you mean" suggestions.
	SuggestionCutoff = 0.3
)

// tolerance absorbs float rounding so that a score sitting exactly on a threshold passes.
const tolerance = 1e-9

// Similarity returns the case-insensitive normalized Levenshtein similarity of a and b:
// 1 - distance/max(len(a), len(b)), measured in runes. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)

	return 1.0 - float64(distance)/float64(maxLen)
}

// AtLeast reports whether Similarity(a, b) reaches threshold.
func AtLeast(a, b string, threshold float64) bool {
	return Similarity(a, b)+tolerance >= threshold
}

// CloseMatches returns up to n candidates whose similarity to query reaches cutoff,
// best first. Candidates with equal scores keep their input order.
func CloseMatches(query string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}

	type scored struct {
		value string
		score float64
	}
	var hits []scored
	for _, c := range candidates {
		s := Similarity(query, c)
		if s+tolerance >= cutoff {
			hits = append(hits, scored{c, s})
		}
	}
	slices.SortStableFunc(hits, func(x, y scored) int {
		return cmp.Compare(y.score, x.score)
	})

	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}
