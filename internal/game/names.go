package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BasicStage is the evolution_type value of Basic Pokémon.
const BasicStage = "Basic"

// foldName returns the comparison key for a card, element or category name:
// accents stripped and case folded, so "Pokémon" and "POKEMON" compare equal.
// Transformers and casers carry state, so each call builds its own.
func foldName(s string) string {
	s = strings.TrimSpace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

func sameName(a, b string) bool {
	return foldName(a) == foldName(b)
}
