package match

import (
	"testing"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func catalogModels() []string {
	var out []string
	for _, v := range domain.DefaultInventory() {
		out = append(out, v.Model)
	}
	return out
}

func TestClean(t *testing.T) {
	assert.Equal(t, "mustang", Clean("I want to BUY the   Mustang please"))
	assert.Equal(t, "f-150 lightning", Clean("order f-150 Lightning"))
	assert.Equal(t, "", Clean("can you get me a car"))
	assert.Equal(t, "", Clean(""))
}

func TestExtractModel(t *testing.T) {
	known := catalogModels()

	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{"cleaned exact", "I want to order the Mustang", "Mustang"},
		{"multi word model", "order f-150 lightning", "F-150 Lightning"},
		{"exact beats prefix", "buy explorer", "Explorer"},
		{"fuzzy", "order mustamg", "Mustang"},
		{"substring", "could i get the bronco today", "Bronco"},
		{"only stop words", "please", ""},
		{"nothing matches", "order a tesla", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractModel(tt.utterance, known))
		})
	}
}

func TestExtractModel_RawExact(t *testing.T) {
	// The cleaned form loses "get"; only the raw utterance matches.
	assert.Equal(t, "Get Away", ExtractModel("get away", []string{"Get Away"}))
}

func TestExtractModel_Dedupe(t *testing.T) {
	assert.Equal(t, "Mustang", ExtractModel("mustang", []string{" ", "Mustang", "mustang"}))
	assert.Equal(t, "", ExtractModel("mustang", nil))
}
