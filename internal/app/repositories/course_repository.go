package repositories

import (
	"context"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/pkg/normalize"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// Header aliases of the courses worksheet
var (
	CourseNameAliases        = []string{"course", "coursename", "name", "kurs", "kursname", "title"}
	CourseDescriptionAliases = []string{"description", "beschreibung", "details", "summary"}
	CourseIconAliases        = []string{"icon", "symbol", "emoji"}
	CourseProgrammeAliases   = []string{"studyprogramme", "studyprogram", "programme", "program", "studiengang"}
)

// DefaultCourseIcon is used when a row has no icon tag
const DefaultCourseIcon = "default"

// CourseRepository reads the courses worksheet
type CourseRepository struct {
	sheetRepository
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(wb workbook.Workbook, sheet string) *CourseRepository {
	return &CourseRepository{sheetRepository{wb: wb, name: sheet}}
}

// GetAll returns every course with a name, in worksheet order
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	s, err := r.sheet(ctx)
	if err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(s.Records))
	for _, rec := range s.Records {
		name := normalize.Clean(s.Value(rec, CourseNameAliases...))
		if name == "" {
			continue
		}
		icon := s.Value(rec, CourseIconAliases...)
		if icon == "" {
			icon = DefaultCourseIcon
		}
		courses = append(courses, models.Course{
			Name:        name,
			Slug:        normalize.Slug(name),
			Professor:   normalize.Professor(s.Value(rec, normalize.ProfessorAliases...)),
			Description: s.Value(rec, CourseDescriptionAliases...),
			Icon:        icon,
			Programme:   s.Value(rec, CourseProgrammeAliases...),
		})
	}
	return courses, nil
}
