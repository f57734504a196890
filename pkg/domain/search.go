package domain

import (
	"cmp"
	"slices"
	"strings"
)

// Match ranks used by catalog search. Lower is better; RankNone means no match.
const (
	RankExact = iota + 1
	RankPrefix
	RankSubstring
	RankWord
	RankNone
)

// NormalizeTerm lower-cases and trims a search term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// SearchRank scores how well model matches an already normalized term.
func SearchRank(model, term string) int {
	m := strings.ToLower(model)
	switch {
	case term == "":
		return RankNone
	case m == term:
		return RankExact
	case strings.HasPrefix(m, term):
		return RankPrefix
	case strings.Contains(m, term):
		return RankSubstring
	}
	for _, w := range strings.Fields(term) {
		if strings.Contains(m, w) {
			return RankWord
		}
	}
	return RankNone
}

// RankVehicles filters and orders vehicles for term the way catalog search does:
// by rank, then stock descending, then model name. The input slice is not modified.
func RankVehicles(vehicles []Vehicle, term string, limit int) []Vehicle {
	term = NormalizeTerm(term)
	if term == "" || limit <= 0 {
		return nil
	}
	type ranked struct {
		v    Vehicle
		rank int
	}
	var hits []ranked
	for _, v := range vehicles {
		if r := SearchRank(v.Model, term); r != RankNone {
			hits = append(hits, ranked{v, r})
		}
	}
	slices.SortStableFunc(hits, func(a, b ranked) int {
		return cmp.Or(
			cmp.Compare(a.rank, b.rank),
			cmp.Compare(b.v.Stock, a.v.Stock),
			cmp.Compare(a.v.Model, b.v.Model),
		)
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Vehicle, len(hits))
	for i, h := range hits {
		out[i] = h.v
	}
	return out
}
