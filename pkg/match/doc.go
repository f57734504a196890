// Package match provides the fuzzy text matching used to recognise vehicle models and
// confirmation phrases in free-text utterances.
package match
