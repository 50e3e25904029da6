package main

import "strings"

// SearchLogic selects how multiple search terms combine.
type SearchLogic int

const (
	SearchAnd SearchLogic = iota
	SearchOr
)

func (l SearchLogic) String() string {
	if l == SearchOr {
		return "OR"
	}
	return "AND"
}

// passesSearch reports whether a record matches the search terms. A
// term matches when it is a substring of at least one field's
// lower-cased string form; each field is checked independently.
// Callers must treat an empty term list as "filter inactive" and skip
// the call entirely.
func passesSearch(rec *Record, terms []string, logic SearchLogic) bool {
	if logic == SearchOr {
		for _, term := range terms {
			if matchesAnyField(rec, term) {
				return true
			}
		}
		return false
	}
	for _, term := range terms {
		if !matchesAnyField(rec, term) {
			return false
		}
	}
	return true
}

func matchesAnyField(rec *Record, term string) bool {
	term = strings.ToLower(term)
	for _, key := range rec.Keys() {
		if strings.Contains(strings.ToLower(rec.FieldString(key)), term) {
			return true
		}
	}
	return false
}

// cleanTerms drops empty and whitespace-only terms while preserving
// order, producing the final ordered term list the engine consumes.
func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
