package validator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName canonicalizes a dish name for duplicate detection:
// leading/trailing whitespace is trimmed, runs of inner whitespace
// collapse to a single space, and the result is Unicode-casefolded.
// Two names that differ only in case or whitespace normalize equal.
func NormalizeName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	return cases.Fold().String(collapsed)
}

// titleTag picks the casing rules for TitleCase. cases.Caser values are
// not safe for concurrent use, so each call constructs its own.
var titleTag = language.English

// TitleCase returns the name in the canonical form the cleaning stage
// produces: every word capitalized, the rest lowercased.
func TitleCase(name string) string {
	return cases.Title(titleTag).String(name)
}

// IsTitleCase reports whether the name is already in the cleaned form.
// Cleaning trims and collapses whitespace before casing, so a name with
// stray whitespace is not clean even when every word is capitalized.
// The empty string is considered clean; emptiness is a separate
// constraint's concern.
func IsTitleCase(name string) bool {
	return name == TitleCase(strings.Join(strings.Fields(name), " "))
}
