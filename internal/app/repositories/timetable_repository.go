package repositories

import (
	"context"

	"github.com/yigit/universe/internal/pkg/workbook"
)

// TimetableRepository reads the raw availability worksheet
type TimetableRepository struct {
	sheetRepository
}

// NewTimetableRepository creates a new TimetableRepository
func NewTimetableRepository(wb workbook.Workbook, sheet string) *TimetableRepository {
	return &TimetableRepository{sheetRepository{wb: wb, name: sheet}}
}

// GetRows returns the header and the non-empty rows keyed by header text
func (r *TimetableRepository) GetRows(ctx context.Context) ([]string, []map[string]string, error) {
	s, err := r.sheet(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s.Header, s.Rows(), nil
}
