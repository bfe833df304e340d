package normalize

import (
	"sort"
	"strconv"
	"strings"
)

// UniqueValues returns the sorted distinct non-empty trimmed values.
func UniqueValues(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// EqualFold compares trimmed values case-insensitively.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ContainsFold reports whether needle (trimmed) occurs in haystack, ignoring case.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

// ParseBool reads spreadsheet checkbox-like cells: true, yes, ja, 1, x, wahr, verified.
func ParseBool(s string) bool {
	switch Key(s) {
	case "true", "yes", "ja", "1", "x", "wahr", "verified", "y", "j":
		return true
	}
	return strings.TrimSpace(s) == "✓"
}

// ParseFloat reads a number that may use a decimal comma; bad input reads as 0.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseInt reads a whole number, tolerating "3.0" style cells; bad input reads as 0.
func ParseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(ParseFloat(s))
}
