package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/auth"
	"github.com/yigit/universe/internal/pkg/email"
	"github.com/yigit/universe/internal/pkg/validation"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo     *repositories.UserRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger.With().Str("service", "auth").Logger(),
	}
}

// validateEmail validates an email address
func (s *AuthService) validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewCustomError(apperrors.ErrInvalidEmail, "email cannot be empty")
	}
	if !validation.IsEmail(email) {
		return apperrors.NewCustomError(apperrors.ErrInvalidEmail, "invalid email format")
	}
	return nil
}

// validatePassword checks if password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if password == "" {
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword, "password cannot be empty")
	}
	if !validation.IsPassword(password) {
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword,
			fmt.Sprintf("password must be %d to %d characters and contain a letter and a digit",
				validation.PasswordMinLength, validation.PasswordMaxLength))
	}
	return nil
}

func (s *AuthService) validateName(name string) error {
	ok := validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate()
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("name must be %d to %d characters",
			validation.NameMinLength, validation.NameMaxLength))
	}
	return nil
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if err := s.validateEmail(emailAddr); err != nil {
		return nil, err
	}
	if err := s.validateName(name); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        emailAddr,
		Name:         name,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("Account registered")
	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send welcome email")
		}
	}

	return s.generateAuthResponse(user)
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if err := s.validateEmail(emailAddr); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidPassword, "password cannot be empty")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if user.PasswordHash == "" || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.generateAuthResponse(user)
}

// CurrentUser resolves the account behind a session email
func (s *AuthService) CurrentUser(ctx context.Context, emailAddr string) (*models.User, error) {
	if strings.TrimSpace(emailAddr) == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.userRepo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// generateAuthResponse signs a session token for user
func (s *AuthService) generateAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.NewUserResponse(user),
	}, nil
}
