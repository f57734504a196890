package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func models(vs []Vehicle) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Model
	}
	return out
}

func TestSearchRank(t *testing.T) {
	assert.Equal(t, RankExact, SearchRank("Explorer", "explorer"))
	assert.Equal(t, RankPrefix, SearchRank("Explorer EV", "explorer"))
	assert.Equal(t, RankSubstring, SearchRank("F-150 Lightning", "lightning"))
	assert.Equal(t, RankWord, SearchRank("Bronco", "ford bronco"))
	assert.Equal(t, RankNone, SearchRank("Bronco", "tesla"))
	assert.Equal(t, RankNone, SearchRank("Bronco", ""))
}

func TestRankVehicles(t *testing.T) {
	inv := DefaultInventory()

	assert.Equal(t, []string{"Explorer", "Explorer EV"}, models(RankVehicles(inv, "  EXPLORER ", 5)))
	assert.Equal(t, []string{"F-150", "F-150 Lightning"}, models(RankVehicles(inv, "f-150", 5)))
	assert.Equal(t, []string{"Explorer"}, models(RankVehicles(inv, "explorer", 1)))
	assert.Equal(t, []string{"Bronco"}, models(RankVehicles(inv, "ford bronco", 5)))
	assert.Empty(t, RankVehicles(inv, "", 5))
	assert.Empty(t, RankVehicles(inv, "tesla", 5))

	// Prefix hits by stock, then the only substring hit.
	assert.Equal(t, []string{"Escape", "Explorer", "Explorer EV", "Maverick"}, models(RankVehicles(inv, "e", 10)))
}
