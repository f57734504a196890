package match

import "strings"

// ExtractModel finds the vehicle model an utterance refers to among knownModels and
// returns it in its catalog casing, or "" when nothing matches.
//
// The first strategy that succeeds wins: the cleaned utterance equals a model, the raw
// utterance equals a model, the cleaned utterance fuzzily matches a model at ModelCutoff,
// a model appears verbatim inside the raw utterance.
func ExtractModel(utterance string, knownModels []string) string {
	cleaned := Clean(utterance)
	if cleaned == "" {
		return ""
	}

	models, lowered := dedupe(knownModels)
	if len(models) == 0 {
		return ""
	}

	for i, m := range lowered {
		if m == cleaned {
			return models[i]
		}
	}

	raw := strings.ToLower(strings.TrimSpace(utterance))
	for i, m := range lowered {
		if m == raw {
			return models[i]
		}
	}

	if best := CloseMatches(cleaned, lowered, 1, ModelCutoff); len(best) == 1 {
		for i, m := range lowered {
			if m == best[0] {
				return models[i]
			}
		}
	}

	for i, m := range lowered {
		if strings.Contains(raw, m) {
			return models[i]
		}
	}

	return ""
}

// dedupe drops blank and case-insensitive duplicate models, keeping first-seen order.
func dedupe(models []string) (canonical, lowered []string) {
	seen := make(map[string]struct{}, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		l := strings.ToLower(m)
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		canonical = append(canonical, m)
		lowered = append(lowered, l)
	}
	return canonical, lowered
}
