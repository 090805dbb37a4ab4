// Package query is the catalog query engine: pure functions that filter,
// aggregate and suggest over an immutable slice of podcasts.
//
// Every function is safe for concurrent use as long as callers do not mutate
// the catalog slice they pass in. Filter state is owned by the caller and
// passed by value on each call.
package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases s with locale-insensitive rules. It is the only
// comparison primitive used by filtering, suggestions and the vocabulary.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(s)
}

func containsNormalized(candidate, normalizedNeedle string) bool {
	return strings.Contains(Normalize(candidate), normalizedNeedle)
}
