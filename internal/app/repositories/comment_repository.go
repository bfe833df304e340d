package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/pkg/helpers"
	"github.com/yigit/universe/internal/pkg/normalize"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// Header aliases of the comments worksheet
var (
	CommentIDAliases          = []string{"id", "commentid"}
	CommentTypeAliases        = []string{"type", "typ", "kind"}
	CommentReferenceAliases   = []string{"referenceid", "reference", "ref", "target"}
	CommentAuthorEmailAliases = []string{"authoremail", "email"}
	CommentAuthorNameAliases  = []string{"authorname", "author", "name"}
	CommentTextAliases        = []string{"comment", "text", "kommentar", "message"}
)

// CommentRepository reads and appends comments
type CommentRepository struct {
	sheetRepository
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(wb workbook.Workbook, sheet string) *CommentRepository {
	return &CommentRepository{sheetRepository{wb: wb, name: sheet}}
}

// GetAll returns every comment with text, in worksheet order
func (r *CommentRepository) GetAll(ctx context.Context) ([]models.Comment, error) {
	s, err := r.sheet(ctx)
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(s.Records))
	for _, rec := range s.Records {
		text := s.Value(rec, CommentTextAliases...)
		if text == "" {
			continue
		}
		t, _ := models.ParseCommentType(s.Value(rec, CommentTypeAliases...))
		comments = append(comments, models.Comment{
			ID:          s.Value(rec, CommentIDAliases...),
			Type:        t,
			ReferenceID: s.Value(rec, CommentReferenceAliases...),
			AuthorEmail: s.Value(rec, CommentAuthorEmailAliases...),
			AuthorName:  s.Value(rec, CommentAuthorNameAliases...),
			Text:        text,
			CreatedAt:   helpers.ParseTimestamp(s.Value(rec, CreatedAliases...)),
		})
	}
	return comments, nil
}

// GetByReference returns the comments attached to one entity, oldest first
func (r *CommentRepository) GetByReference(ctx context.Context, t models.CommentType, ref string) ([]models.Comment, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0)
	for _, c := range all {
		if c.Type == t && normalize.EqualFold(c.ReferenceID, ref) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateComment appends a comment row; columns the worksheet lacks are left out
func (r *CommentRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	s, err := r.sheet(ctx)
	if err != nil {
		return err
	}
	textCol, err := column(s, "comment", CommentTextAliases...)
	if err != nil {
		return err
	}
	refCol, err := column(s, "reference id", CommentReferenceAliases...)
	if err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	row := map[string]string{
		textCol: c.Text,
		refCol:  c.ReferenceID,
	}
	optional := []struct {
		aliases []string
		value   string
	}{
		{CommentIDAliases, c.ID},
		{CommentTypeAliases, string(c.Type)},
		{CommentAuthorEmailAliases, c.AuthorEmail},
		{CommentAuthorNameAliases, c.AuthorName},
		{CreatedAliases, helpers.Timestamp(c.CreatedAt)},
	}
	for _, o := range optional {
		if col, ok := s.Column(o.aliases...); ok {
			if _, taken := row[col]; !taken {
				row[col] = o.value
			}
		}
	}

	if err := r.wb.AppendRow(ctx, r.name, row); err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}
