package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/validation"
)

// CommentService defines the interface for comments on materials and profiles
type CommentService interface {
	Add(ctx context.Context, authorEmail string, req dto.CommentRequest) (*models.Comment, error)
	List(ctx context.Context, t models.CommentType, ref string) ([]models.Comment, error)
	ForMaterial(ctx context.Context, courseSlug, title string) ([]models.Comment, error)
	ForProfile(ctx context.Context, email string) ([]models.Comment, error)
	AttachToMaterials(ctx context.Context, materials []models.Material) ([]dto.MaterialResponse, error)
}

// commentServiceImpl implements the CommentService interface
type commentServiceImpl struct {
	commentRepo  *repositories.CommentRepository
	materialRepo *repositories.MaterialRepository
	userRepo     *repositories.UserRepository
	logger       zerolog.Logger
}

// NewCommentService creates a new comment service instance
func NewCommentService(
	commentRepo *repositories.CommentRepository,
	materialRepo *repositories.MaterialRepository,
	userRepo *repositories.UserRepository,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo:  commentRepo,
		materialRepo: materialRepo,
		userRepo:     userRepo,
		logger:       logger.With().Str("service", "comment").Logger(),
	}
}

// Add stores a comment after checking that the referenced entity exists
func (s *commentServiceImpl) Add(ctx context.Context, authorEmail string, req dto.CommentRequest) (*models.Comment, error) {
	t, ok := models.ParseCommentType(req.Type)
	if !ok {
		return nil, apperrors.ErrInvalidCommentType
	}

	text := strings.TrimSpace(req.Text)
	valid := validation.NewStringValidation(text).
		WithMinLength(validation.CommentMinLength).
		WithMaxLength(validation.CommentMaxLength).
		Validate()
	if !valid {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidComment,
			fmt.Sprintf("comment must be %d to %d characters", validation.CommentMinLength, validation.CommentMaxLength)).
			WithDetails(map[string]interface{}{
				"minLength": validation.CommentMinLength,
				"maxLength": validation.CommentMaxLength,
			})
	}

	author, err := s.userRepo.GetUserByEmail(ctx, authorEmail)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error retrieving author: %w", err)
	}

	ref, err := s.resolveReference(ctx, t, strings.TrimSpace(req.ReferenceID))
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:          uuid.NewString(),
		Type:        t,
		ReferenceID: ref,
		AuthorEmail: author.Email,
		AuthorName:  author.Name,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("type", string(t)).
		Str("ref", ref).
		Str("author", author.Email).
		Msg("Comment added")
	return comment, nil
}

// resolveReference checks that ref names an existing material or profile and returns
// its canonical form.
func (s *commentServiceImpl) resolveReference(ctx context.Context, t models.CommentType, ref string) (string, error) {
	if ref == "" {
		return "", apperrors.NewValidationError("reference id is required")
	}

	switch t {
	case models.CommentMaterial:
		slug, title, ok := strings.Cut(ref, ":")
		if !ok {
			return "", apperrors.NewValidationError("material reference must be course_slug:title")
		}
		m, err := s.materialRepo.FindByID(ctx, strings.TrimSpace(slug), strings.TrimSpace(title))
		if err != nil {
			return "", err
		}
		return m.ID(), nil
	case models.CommentProfile:
		u, err := s.userRepo.GetUserByEmail(ctx, ref)
		if err != nil {
			return "", err
		}
		return u.Email, nil
	}
	return "", apperrors.ErrInvalidCommentType
}

// List returns the comments on one entity
func (s *commentServiceImpl) List(ctx context.Context, t models.CommentType, ref string) ([]models.Comment, error) {
	comments, err := s.commentRepo.GetByReference(ctx, t, strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("error retrieving comments: %w", err)
	}
	return comments, nil
}

// ForMaterial returns the comments on one material
func (s *commentServiceImpl) ForMaterial(ctx context.Context, courseSlug, title string) ([]models.Comment, error) {
	return s.List(ctx, models.CommentMaterial, models.MaterialID(courseSlug, title))
}

// ForProfile returns the comments on one profile
func (s *commentServiceImpl) ForProfile(ctx context.Context, email string) ([]models.Comment, error) {
	return s.List(ctx, models.CommentProfile, email)
}

// AttachToMaterials pairs each material with its comments using a single read
func (s *commentServiceImpl) AttachToMaterials(ctx context.Context, materials []models.Material) ([]dto.MaterialResponse, error) {
	out := make([]dto.MaterialResponse, 0, len(materials))
	if len(materials) == 0 {
		return out, nil
	}

	all, err := s.commentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving comments: %w", err)
	}
	byRef := make(map[string][]models.Comment)
	for _, c := range all {
		if c.Type != models.CommentMaterial {
			continue
		}
		key := strings.ToLower(c.ReferenceID)
		byRef[key] = append(byRef[key], c)
	}

	for _, m := range materials {
		comments := byRef[strings.ToLower(m.ID())]
		if comments == nil {
			comments = []models.Comment{}
		}
		out = append(out, dto.MaterialResponse{Material: m, ID: m.ID(), Comments: comments})
	}
	return out, nil
}
