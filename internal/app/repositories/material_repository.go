package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/normalize"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// Header aliases of the materials worksheet
var (
	MaterialSlugAliases        = []string{"courseslug", "slug"}
	MaterialCourseAliases      = []string{"course", "coursename", "kurs"}
	MaterialTitleAliases       = []string{"title", "titel", "name", "material"}
	MaterialURLAliases         = []string{"url", "link", "href"}
	MaterialAuthorAliases      = []string{"authoremail", "author", "email", "uploadedby"}
	MaterialRatingAliases      = []string{"rating", "averagerating", "bewertung"}
	MaterialRatingCountAliases = []string{"ratingcount", "ratings", "votes", "anzahlbewertungen"}
	MaterialVerifiedAliases    = []string{"verified", "verifiziert", "approved"}
)

// MaterialRepository reads and updates the materials worksheet
type MaterialRepository struct {
	sheetRepository
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(wb workbook.Workbook, sheet string) *MaterialRepository {
	return &MaterialRepository{sheetRepository{wb: wb, name: sheet}}
}

// GetAll returns every material with a title
func (r *MaterialRepository) GetAll(ctx context.Context) ([]models.Material, error) {
	s, err := r.sheet(ctx)
	if err != nil {
		return nil, err
	}
	return materialsFromSheet(s), nil
}

// FindByID looks up a material by course slug and title
func (r *MaterialRepository) FindByID(ctx context.Context, courseSlug, title string) (*models.Material, error) {
	materials, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range materials {
		if normalize.EqualFold(materials[i].CourseSlug, courseSlug) && normalize.EqualFold(materials[i].Title, title) {
			return &materials[i], nil
		}
	}
	return nil, apperrors.ErrMaterialNotFound
}

// UpdateRating writes the rating average and count of the material row
func (r *MaterialRepository) UpdateRating(ctx context.Context, m *models.Material) error {
	s, err := r.sheet(ctx)
	if err != nil {
		return err
	}
	ratingCol, err := column(s, "rating", MaterialRatingAliases...)
	if err != nil {
		return err
	}
	countCol, err := column(s, "rating count", MaterialRatingCountAliases...)
	if err != nil {
		return err
	}

	err = r.wb.UpdateRow(ctx, r.name, m.Row, map[string]string{
		ratingCol: strconv.FormatFloat(m.Rating, 'f', -1, 64),
		countCol:  strconv.Itoa(m.RatingCount),
	})
	if err != nil {
		return fmt.Errorf("error updating rating of %q: %w", m.Title, err)
	}
	return nil
}

// MarkVerified sets the verified cell of the material row
func (r *MaterialRepository) MarkVerified(ctx context.Context, m *models.Material) error {
	s, err := r.sheet(ctx)
	if err != nil {
		return err
	}
	col, err := column(s, "verified", MaterialVerifiedAliases...)
	if err != nil {
		return err
	}
	if err := r.wb.UpdateRow(ctx, r.name, m.Row, map[string]string{col: "TRUE"}); err != nil {
		return fmt.Errorf("error verifying %q: %w", m.Title, err)
	}
	return nil
}

func materialsFromSheet(s *workbook.Sheet) []models.Material {
	// "Course" must not be read as the slug column when a real slug column exists
	_, hasSlug := s.Column(MaterialSlugAliases...)

	materials := make([]models.Material, 0, len(s.Records))
	for _, rec := range s.Records {
		title := s.Value(rec, MaterialTitleAliases...)
		if title == "" {
			continue
		}
		slug := ""
		if hasSlug {
			slug = s.Value(rec, MaterialSlugAliases...)
		} else {
			slug = normalize.Slug(s.Value(rec, MaterialCourseAliases...))
		}
		materials = append(materials, models.Material{
			CourseSlug:  slug,
			Title:       title,
			URL:         s.Value(rec, MaterialURLAliases...),
			AuthorEmail: s.Value(rec, MaterialAuthorAliases...),
			Rating:      normalize.ParseFloat(s.Value(rec, MaterialRatingAliases...)),
			RatingCount: normalize.ParseInt(s.Value(rec, MaterialRatingCountAliases...)),
			Verified:    normalize.ParseBool(s.Value(rec, MaterialVerifiedAliases...)),
			Row:         rec.Row,
		})
	}
	return materials
}
