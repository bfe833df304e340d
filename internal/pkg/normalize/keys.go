// Package normalize holds the header heuristics used to read loosely structured
// worksheets: column alias resolution, weekday and professor normalization, slugs and
// the merge of timetable rows that only differ in their programme/semester cell.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s, maps ß to ss and strips combining marks ("Gebäude" -> "gebaude").
func fold(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ß", "ss")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key returns the comparison form of a header or alias: folded, with every
// character that is not a letter or digit removed. "Program / Semester" -> "programsemester".
func Key(s string) string {
	folded := fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug derives the URL identifier of a name: folded, runs of anything that is not a
// letter or digit collapsed to one hyphen, no leading or trailing hyphen.
func Slug(name string) string {
	folded := fold(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Clean trims s and collapses inner whitespace runs to a single space.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
