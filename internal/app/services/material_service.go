package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/email"
	"github.com/yigit/universe/internal/pkg/normalize"
	"github.com/yigit/universe/internal/pkg/validation"
)

// MaterialService defines the interface for material-related operations
type MaterialService interface {
	All(ctx context.Context) ([]models.Material, error)
	ForCourse(ctx context.Context, courseSlug string) ([]models.Material, error)
	ByAuthor(ctx context.Context, authorEmail string) ([]models.Material, error)
	Find(ctx context.Context, courseSlug, title string) (*models.Material, error)
	Rate(ctx context.Context, raterEmail string, req dto.RateMaterialRequest) (*models.Material, error)
	Verify(ctx context.Context, verifierEmail string, req dto.VerifyMaterialRequest) (*models.Material, error)
	CanVerify(email string) bool
}

// materialServiceImpl implements the MaterialService interface
type materialServiceImpl struct {
	materialRepo      *repositories.MaterialRepository
	userRepo          *repositories.UserRepository
	emailService      email.EmailService
	verificationEmail string
	logger            zerolog.Logger

	// writeMu serialises read-modify-write cycles on the materials worksheet
	writeMu sync.Mutex
}

// NewMaterialService creates a new material service instance
func NewMaterialService(
	materialRepo *repositories.MaterialRepository,
	userRepo *repositories.UserRepository,
	emailService email.EmailService,
	verificationEmail string,
	logger zerolog.Logger,
) MaterialService {
	return &materialServiceImpl{
		materialRepo:      materialRepo,
		userRepo:          userRepo,
		emailService:      emailService,
		verificationEmail: strings.TrimSpace(verificationEmail),
		logger:            logger.With().Str("service", "material").Logger(),
	}
}

// All returns every material
func (s *materialServiceImpl) All(ctx context.Context) ([]models.Material, error) {
	materials, err := s.materialRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving materials: %w", err)
	}
	return materials, nil
}

// ForCourse returns the materials of one course
func (s *materialServiceImpl) ForCourse(ctx context.Context, courseSlug string) ([]models.Material, error) {
	return s.filter(ctx, func(m models.Material) bool {
		return normalize.EqualFold(m.CourseSlug, courseSlug)
	})
}

// ByAuthor returns the materials uploaded by one account
func (s *materialServiceImpl) ByAuthor(ctx context.Context, authorEmail string) ([]models.Material, error) {
	if strings.TrimSpace(authorEmail) == "" {
		return []models.Material{}, nil
	}
	return s.filter(ctx, func(m models.Material) bool {
		return normalize.EqualFold(m.AuthorEmail, authorEmail)
	})
}

func (s *materialServiceImpl) filter(ctx context.Context, keep func(models.Material) bool) ([]models.Material, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Material, 0)
	for _, m := range all {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Find looks up one material by course slug and title
func (s *materialServiceImpl) Find(ctx context.Context, courseSlug, title string) (*models.Material, error) {
	m, err := s.materialRepo.FindByID(ctx, strings.TrimSpace(courseSlug), strings.TrimSpace(title))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrMaterialNotFound) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error retrieving material: %w", err)
	}
	return m, nil
}

// Rate folds one rating into the running average: avg' = (avg*n + r)/(n+1), n' = n+1
func (s *materialServiceImpl) Rate(ctx context.Context, raterEmail string, req dto.RateMaterialRequest) (*models.Material, error) {
	if !validation.NewNumericValidation(req.Rating).
		WithMin(validation.RatingMin).
		WithMax(validation.RatingMax).
		Validate() {
		return nil, apperrors.ErrInvalidRating
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	m, err := s.Find(ctx, req.CourseSlug, req.Title)
	if err != nil {
		return nil, err
	}

	count := m.RatingCount
	if count < 0 {
		count = 0
	}
	m.Rating = (m.Rating*float64(count) + float64(req.Rating)) / float64(count+1)
	m.RatingCount = count + 1

	if err := s.materialRepo.UpdateRating(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("material", m.ID()).
		Str("rater", raterEmail).
		Int("rating", req.Rating).
		Float64("average", m.DisplayRating()).
		Msg("Material rated")
	return m, nil
}

// CanVerify reports whether the account may verify materials
func (s *materialServiceImpl) CanVerify(email string) bool {
	return s.verificationEmail != "" && normalize.EqualFold(email, s.verificationEmail)
}

// Verify marks a material as verified and notifies its author
func (s *materialServiceImpl) Verify(ctx context.Context, verifierEmail string, req dto.VerifyMaterialRequest) (*models.Material, error) {
	if !s.CanVerify(verifierEmail) {
		return nil, apperrors.NewForbiddenError("only the verification account may verify materials")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	m, err := s.Find(ctx, req.CourseSlug, req.Title)
	if err != nil {
		return nil, err
	}
	if m.Verified {
		return nil, apperrors.ErrAlreadyVerified
	}

	if err := s.materialRepo.MarkVerified(ctx, m); err != nil {
		return nil, err
	}
	m.Verified = true

	s.logger.Info().Str("material", m.ID()).Str("verifier", verifierEmail).Msg("Material verified")
	s.notifyAuthor(ctx, m)
	return m, nil
}

// notifyAuthor mails the author; failures are logged only.
func (s *materialServiceImpl) notifyAuthor(ctx context.Context, m *models.Material) {
	if s.emailService == nil || m.AuthorEmail == "" {
		return
	}
	name := ""
	if u, err := s.userRepo.GetUserByEmail(ctx, m.AuthorEmail); err == nil {
		name = u.Name
	}
	if err := s.emailService.SendMaterialVerifiedEmail(m.AuthorEmail, name, m.Title, m.CourseSlug); err != nil {
		s.logger.Warn().Err(err).Str("author", m.AuthorEmail).Msg("Failed to notify author")
	}
}
