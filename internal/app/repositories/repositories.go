// Package repositories maps worksheet records onto models.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository      *CourseRepository
	MaterialRepository    *MaterialRepository
	OpportunityRepository *OpportunityRepository
	TimetableRepository   *TimetableRepository
	UserRepository        *UserRepository
	CommentRepository     *CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(wb workbook.Workbook, names workbook.SheetNames) *Repositories {
	return &Repositories{
		CourseRepository:      NewCourseRepository(wb, names.Courses),
		MaterialRepository:    NewMaterialRepository(wb, names.Materials),
		OpportunityRepository: NewOpportunityRepository(wb, names),
		TimetableRepository:   NewTimetableRepository(wb, names.Timetable),
		UserRepository:        NewUserRepository(wb, names.Users),
		CommentRepository:     NewCommentRepository(wb, names.Comments),
	}
}

// sheetRepository reads one worksheet. A missing worksheet reads as empty.
type sheetRepository struct {
	wb   workbook.Workbook
	name string
}

func (r sheetRepository) sheet(ctx context.Context) (*workbook.Sheet, error) {
	s, err := r.wb.Sheet(ctx, r.name)
	if errors.Is(err, apperrors.ErrSheetNotFound) {
		return &workbook.Sheet{Name: r.name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading worksheet %q: %w", r.name, err)
	}
	return s, nil
}

// column resolves a header for writing; the worksheet must carry it.
func column(s *workbook.Sheet, what string, aliases ...string) (string, error) {
	col, ok := s.Column(aliases...)
	if !ok {
		return "", fmt.Errorf("%w: %s column in worksheet %q", apperrors.ErrColumnNotFound, what, s.Name)
	}
	return col, nil
}
