package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/normalize"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	List(ctx context.Context, filter dto.CourseFilter) (*dto.CourseListResponse, error)
	Programmes(ctx context.Context) ([]string, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	Detail(ctx context.Context, slug, viewerEmail string) (*dto.CourseDetailResponse, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo *repositories.CourseRepository
	materials  MaterialService
	comments   CommentService
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repositories.CourseRepository, materials MaterialService, comments CommentService) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		materials:  materials,
		comments:   comments,
	}
}

// List returns the courses matching the filter together with the programme facet.
// Query matches name or professor by substring; programme must match exactly.
func (s *courseServiceImpl) List(ctx context.Context, filter dto.CourseFilter) (*dto.CourseListResponse, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}

	programmes := make([]string, 0, len(courses))
	for _, c := range courses {
		programmes = append(programmes, c.Programme)
	}

	query := strings.TrimSpace(filter.Query)
	filtered := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if query != "" && !normalize.ContainsFold(c.Name, query) && !normalize.MatchProfessor(c.Professor, query) {
			continue
		}
		if strings.TrimSpace(filter.Programme) != "" && !normalize.EqualFold(c.Programme, filter.Programme) {
			continue
		}
		filtered = append(filtered, c)
	}

	return &dto.CourseListResponse{
		Courses:    filtered,
		Programmes: normalize.UniqueValues(programmes),
		Total:      len(courses),
	}, nil
}

// Programmes returns the distinct programmes of all courses
func (s *courseServiceImpl) Programmes(ctx context.Context) ([]string, error) {
	resp, err := s.List(ctx, dto.CourseFilter{})
	if err != nil {
		return nil, err
	}
	return resp.Programmes, nil
}

// GetBySlug finds the course whose derived slug matches
func (s *courseServiceImpl) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apperrors.ErrCourseNotFound
	}

	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	for i := range courses {
		if courses[i].Slug == slug {
			return &courses[i], nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

// Detail builds the course page: the course, its materials and their comments
func (s *courseServiceImpl) Detail(ctx context.Context, slug, viewerEmail string) (*dto.CourseDetailResponse, error) {
	course, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	materials, err := s.materials.ForCourse(ctx, course.Slug)
	if err != nil {
		return nil, err
	}
	withComments, err := s.comments.AttachToMaterials(ctx, materials)
	if err != nil {
		return nil, err
	}

	return &dto.CourseDetailResponse{
		Course:    *course,
		Materials: withComments,
		CanVerify: s.materials.CanVerify(viewerEmail),
	}, nil
}
