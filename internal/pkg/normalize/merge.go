package normalize

import "strings"

const keySeparator = "\x1f"

// MergeByColumn collapses rows that agree on every header except column. The first
// occurrence of each group survives, its column cell becomes the ", "-joined distinct
// values of the group in first-seen order. Cells that already hold a comma separated
// list are split before de-duplication, comparison is case-insensitive, blanks are
// dropped. All returned cells are trimmed. If column is not part of header the rows
// are returned unmerged.
func MergeByColumn(header []string, rows []map[string]string, column string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))

	present := false
	for _, h := range header {
		if h == column {
			present = true
			break
		}
	}
	if column == "" || !present {
		for _, row := range rows {
			out = append(out, trimmedCopy(header, row))
		}
		return out
	}

	type group struct {
		index int
		seen  map[string]bool
		parts []string
	}
	groups := make(map[string]*group)

	for _, row := range rows {
		key := compositeKey(header, row, column)
		g, ok := groups[key]
		if !ok {
			g = &group{index: len(out), seen: map[string]bool{}}
			groups[key] = g
			out = append(out, trimmedCopy(header, row))
		}
		for _, part := range splitList(row[column]) {
			lower := strings.ToLower(part)
			if g.seen[lower] {
				continue
			}
			g.seen[lower] = true
			g.parts = append(g.parts, part)
		}
		out[g.index][column] = strings.Join(g.parts, ", ")
	}

	return out
}

func compositeKey(header []string, row map[string]string, skip string) string {
	var b strings.Builder
	for _, h := range header {
		if h == skip {
			continue
		}
		b.WriteString(strings.TrimSpace(row[h]))
		b.WriteString(keySeparator)
	}
	return b.String()
}

func trimmedCopy(header []string, row map[string]string) map[string]string {
	c := make(map[string]string, len(header))
	for _, h := range header {
		c[h] = strings.TrimSpace(row[h])
	}
	return c
}

func splitList(cell string) []string {
	var parts []string
	for _, p := range strings.Split(cell, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
