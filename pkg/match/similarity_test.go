package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"Mustang", "mustang", 1},
		{"abc", "", 0},
		{"kitten", "sitting", 1 - 3.0/7.0},
		{"bronco", "broncos", 1 - 1.0/7.0},
		{"café", "cafe", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-12)
		})
	}
}

func TestAtLeast_Boundary(t *testing.T) {
	phrase := "Confirm order for Mustang"

	// Five substitutions over 25 runes: exactly 0.80.
	assert.True(t, AtLeast("confirm order for xxxxxng", phrase, PhraseCutoff))
	// Six substitutions: 0.76.
	assert.False(t, AtLeast("confirm order for xxxxxxg", phrase, PhraseCutoff))
	assert.True(t, AtLeast("  ", "  ", PhraseCutoff))
}

func TestCloseMatches(t *testing.T) {
	candidates := []string{"bronco", "escape", "broncos", "mustang"}

	assert.Equal(t, []string{"bronco", "broncos"}, CloseMatches("bronco", candidates, 3, 0.8))
	assert.Equal(t, []string{"bronco"}, CloseMatches("bronco", candidates, 1, 0.8))
	assert.Empty(t, CloseMatches("tesla", candidates, 3, 0.8))
	assert.Empty(t, CloseMatches("bronco", candidates, 0, 0.1))
}
