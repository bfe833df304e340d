// Package workbook is the spreadsheet-shaped storage layer of the site. Every store
// exposes named worksheets made of a header row and data rows; records are positional
// so a row read from a worksheet can be written back in place.
package workbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/normalize"
)

// Record is one data row. Row is the zero-based position below the header.
type Record struct {
	Row    int
	Values map[string]string
}

// Sheet is a snapshot of one worksheet.
type Sheet struct {
	Name    string
	Header  []string
	Records []Record
}

// Column resolves the header matching one of the aliases.
func (s *Sheet) Column(aliases ...string) (string, bool) {
	return normalize.FindColumn(s.Header, aliases...)
}

// Value returns the trimmed cell of r in the column matching aliases.
func (s *Sheet) Value(r Record, aliases ...string) string {
	return normalize.Value(s.Header, r.Values, aliases...)
}

// Rows returns the record values in order.
func (s *Sheet) Rows() []map[string]string {
	rows := make([]map[string]string, len(s.Records))
	for i, r := range s.Records {
		rows[i] = r.Values
	}
	return rows
}

// Workbook is implemented by every backing store.
type Workbook interface {
	// Source names the store for diagnostics ("google-sheets", "postgres", ...).
	Source() string
	// Sheet reads a whole worksheet.
	Sheet(ctx context.Context, name string) (*Sheet, error)
	// AppendRow adds a row; keys of values must match header cells.
	AppendRow(ctx context.Context, name string, values map[string]string) error
	// UpdateRow overwrites the given cells of an existing row.
	UpdateRow(ctx context.Context, name string, row int, values map[string]string) error
}

// Loader is implemented by stores that can be bulk loaded (seeding, sync).
type Loader interface {
	ReplaceSheet(ctx context.Context, name string, header []string, rows [][]string) error
}

// SheetNames maps the logical worksheets of the site onto worksheet titles.
type SheetNames struct {
	Courses       string
	Materials     string
	Opportunities string
	Jobs          string
	Events        string
	Timetable     string
	Users         string
	Comments      string
}

// ByLogical returns logical key -> worksheet title; keys match the sample files.
func (n SheetNames) ByLogical() map[string]string {
	return map[string]string{
		"courses":       n.Courses,
		"materials":     n.Materials,
		"opportunities": n.Opportunities,
		"jobs":          n.Jobs,
		"events":        n.Events,
		"timetable":     n.Timetable,
		"users":         n.Users,
		"comments":      n.Comments,
	}
}

// All returns every configured worksheet title.
func (n SheetNames) All() []string {
	return []string{n.Courses, n.Materials, n.Opportunities, n.Jobs, n.Events, n.Timetable, n.Users, n.Comments}
}

// buildSheet turns raw rows into a Sheet. Header cells are trimmed and blank header
// columns are ignored; short rows are padded; rows with no content are skipped but
// keep their position.
func buildSheet(name string, header []string, rows [][]string) *Sheet {
	s := &Sheet{Name: name, Header: cleanHeader(header)}
	for i, cells := range rows {
		if r, ok := buildRecord(header, cells, i); ok {
			s.Records = append(s.Records, r)
		}
	}
	return s
}

func buildRecord(header, cells []string, row int) (Record, bool) {
	values := make(map[string]string, len(header))
	empty := true
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		if strings.TrimSpace(v) != "" {
			empty = false
		}
		values[h] = v
	}
	return Record{Row: row, Values: values}, !empty
}

func cleanHeader(header []string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// columnIndex finds the header position of key, comparing normalized keys.
func columnIndex(header []string, key string) int {
	k := normalize.Key(key)
	for i, h := range header {
		if strings.TrimSpace(h) == key || (k != "" && normalize.Key(h) == k) {
			return i
		}
	}
	return -1
}

// alignRow lays values out along header. Unknown keys are an error.
func alignRow(sheet string, header []string, values map[string]string) ([]string, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: worksheet %q has no header row", apperrors.ErrColumnNotFound, sheet)
	}
	row := make([]string, len(header))
	for k, v := range values {
		idx := columnIndex(header, k)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q in worksheet %q", apperrors.ErrColumnNotFound, k, sheet)
		}
		row[idx] = v
	}
	return row, nil
}

// applyRow writes values over cells, growing cells to the header width.
func applyRow(sheet string, header, cells []string, values map[string]string) ([]string, error) {
	out := make([]string, len(header))
	copy(out, cells)
	for k, v := range values {
		idx := columnIndex(header, k)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q in worksheet %q", apperrors.ErrColumnNotFound, k, sheet)
		}
		out[idx] = v
	}
	return out, nil
}

func sheetNotFound(name string) error {
	return fmt.Errorf("%w: %q", apperrors.ErrSheetNotFound, name)
}

func rowNotFound(name string, row int) error {
	return fmt.Errorf("%w: row %d of %q", apperrors.ErrRowNotFound, row, name)
}
