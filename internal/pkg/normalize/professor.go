package normalize

import "strings"

var academicTitles = map[string]bool{
	"prof": true, "professor": true, "professorin": true, "dr": true, "dring": true,
	"drrernat": true, "drphil": true, "drmed": true, "drjur": true, "drhc": true,
	"dipl": true, "dipling": true, "diplinf": true, "ing": true, "apl": true, "hon": true,
	"pd": true, "phd": true, "msc": true, "bsc": true, "mba": true,
	"mr": true, "mrs": true, "ms": true, "frau": true, "herr": true,
}

// Professor cleans a display name without altering its titles.
func Professor(name string) string {
	return Clean(name)
}

// ProfessorKey reduces a name to its matching form: folded tokens, academic titles
// and salutations dropped. "Prof. Dr.-Ing. Anna Weber" -> "anna weber".
func ProfessorKey(name string) string {
	tokens := strings.Fields(name)
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		k := Key(t)
		if k == "" || academicTitles[k] {
			continue
		}
		kept = append(kept, k)
	}
	return strings.Join(kept, " ")
}

// MatchProfessor reports whether query names (part of) the professor. Titles are
// ignored on both sides; an empty query matches everyone.
func MatchProfessor(name, query string) bool {
	q := ProfessorKey(query)
	if q == "" {
		return strings.TrimSpace(query) == "" || ContainsFold(name, query)
	}
	return strings.Contains(ProfessorKey(name), q)
}
