package match

import "strings"

var stopWords = map[string]struct{}{
	"order": {}, "buy": {}, "purchase": {}, "book": {}, "get": {}, "want": {}, "cancel": {},
	"my": {}, "the": {}, "a": {}, "an": {}, "for": {}, "of": {}, "please": {}, "to": {},
	"i": {}, "can": {}, "you": {}, "me": {}, "car": {}, "vehicle": {}, "what": {},
}

// StopWords returns the words Clean removes, in no particular order.
func StopWords() []string {
	out := make([]string, 0, len(stopWords))
	for w := range stopWords {
		out = append(out, w)
	}
	return out
}

// Clean lower-cases the utterance, drops verbs, articles and filler words, and rejoins
// what is left with single spaces.
func Clean(utterance string) string {
	words := strings.Fields(strings.ToLower(utterance))
	kept := words[:0]
	for _, w := range words {
		if _, skip := stopWords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
