package inventory

import "strings"

// QueryType is the kind of information a catalog question asks for.
type QueryType string

const (
	QueryAvailability QueryType = "availability"
	QueryPrice        QueryType = "price"
	QueryQuantity     QueryType = "quantity"
	QueryDelivery     QueryType = "delivery"
	QueryGeneral      QueryType = "general"
)

var queryWords = map[string]struct{}{
	"is": {}, "the": {}, "available": {}, "in": {}, "stock": {}, "price": {}, "cost": {},
	"how": {}, "much": {}, "does": {}, "what": {}, "when": {}, "can": {}, "get": {},
	"delivery": {}, "time": {}, "many": {}, "units": {}, "do": {}, "you": {}, "have": {},
	"ford": {}, "of": {}, "a": {}, "an": {}, "are": {}, "there": {}, "any": {},
	"what's": {}, "whats": {}, "for": {}, "me": {}, "i": {}, "tell": {}, "about": {},
}

var queryTypeKeywords = []struct {
	kind     QueryType
	keywords []string
}{
	{QueryAvailability, []string{"available", "in stock", "have"}},
	{QueryPrice, []string{"price", "cost", "much", "expensive"}},
	{QueryQuantity, []string{"how many", "quantity", "units"}},
	{QueryDelivery, []string{"delivery", "when", "get", "receive"}},
}

// CleanQuery lower-cases a question and drops the question words around the model name.
// Trailing punctuation is stripped from every word.
func CleanQuery(utterance string) string {
	words := strings.Fields(strings.ToLower(utterance))
	kept := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "?!.,;:'\"")
		if w == "" {
			continue
		}
		if _, skip := queryWords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// DetectQueryType classifies a question. Availability wins over price, price over
// quantity, quantity over delivery; anything else is general.
func DetectQueryType(utterance string) QueryType {
	text := strings.ToLower(utterance)
	for _, k := range queryTypeKeywords {
		for _, kw := range k.keywords {
			if strings.Contains(text, kw) {
				return k.kind
			}
		}
	}
	return QueryGeneral
}
