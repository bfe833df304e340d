package workbook

import (
	"context"
	"sort"
	"sync"
)

type memorySheet struct {
	header []string
	rows   [][]string
}

// Memory is an in-process workbook. It backs tests and serves as the sample-data
// fallback when the configured store is unreachable.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string]*memorySheet
	source string
}

// NewMemory creates an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string]*memorySheet), source: "memory"}
}

// Source implements Workbook.
func (m *Memory) Source() string {
	return m.source
}

// Sheet implements Workbook. The returned sheet is a copy.
func (m *Memory) Sheet(_ context.Context, name string) (*Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sheets[name]
	if !ok {
		return nil, sheetNotFound(name)
	}
	return buildSheet(name, s.header, s.rows), nil
}

// AppendRow implements Workbook.
func (m *Memory) AppendRow(_ context.Context, name string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sheets[name]
	if !ok {
		return sheetNotFound(name)
	}
	row, err := alignRow(name, s.header, values)
	if err != nil {
		return err
	}
	s.rows = append(s.rows, row)
	return nil
}

// UpdateRow implements Workbook.
func (m *Memory) UpdateRow(_ context.Context, name string, row int, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sheets[name]
	if !ok {
		return sheetNotFound(name)
	}
	if row < 0 || row >= len(s.rows) {
		return rowNotFound(name, row)
	}
	updated, err := applyRow(name, s.header, s.rows[row], values)
	if err != nil {
		return err
	}
	s.rows[row] = updated
	return nil
}

// ReplaceSheet implements Loader.
func (m *Memory) ReplaceSheet(_ context.Context, name string, header []string, rows [][]string) error {
	s := &memorySheet{header: append([]string(nil), header...)}
	for _, r := range rows {
		s.rows = append(s.rows, append([]string(nil), r...))
	}

	m.mu.Lock()
	m.sheets[name] = s
	m.mu.Unlock()
	return nil
}

// SheetNames lists the worksheets held, sorted.
func (m *Memory) SheetNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.sheets))
	for n := range m.sheets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
