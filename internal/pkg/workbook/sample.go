package workbook

import (
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"io/fs"
)

// SampleSource is the Source of the bundled sample workbook
const SampleSource = "sample"

//go:embed sample/*.csv
var sampleFS embed.FS

// SampleRows returns the header and rows of the bundled sample worksheet for a
// logical key such as "courses".
func SampleRows(logical string) ([]string, [][]string, error) {
	f, err := sampleFS.Open("sample/" + logical + ".csv")
	if err != nil {
		return nil, nil, fmt.Errorf("open sample %s: %w", logical, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse sample %s: %w", logical, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sample %s is empty", logical)
	}
	return records[0], records[1:], nil
}

// LoadSample writes every bundled sample worksheet into l under the configured titles.
func LoadSample(ctx context.Context, l Loader, names SheetNames) error {
	for logical, title := range names.ByLogical() {
		if title == "" {
			continue
		}
		header, rows, err := SampleRows(logical)
		if err != nil {
			return err
		}
		if err := l.ReplaceSheet(ctx, title, header, rows); err != nil {
			return fmt.Errorf("load sample %s into %q: %w", logical, title, err)
		}
	}
	return nil
}

// NewSampleMemory returns a memory workbook holding the sample data.
func NewSampleMemory(names SheetNames) (*Memory, error) {
	m := NewMemory()
	m.source = SampleSource
	if err := LoadSample(context.Background(), m, names); err != nil {
		return nil, err
	}
	return m, nil
}

// sampleLogicalKeys lists the bundled sample files.
func sampleLogicalKeys() ([]string, error) {
	entries, err := fs.Glob(sampleFS, "sample/*.csv")
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e[len("sample/"):len(e)-len(".csv")])
	}
	return keys, nil
}
