package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/helpers"
	"github.com/yigit/universe/internal/pkg/normalize"
)

// UserService defines the interface for the profile directory
type UserService interface {
	List(ctx context.Context, req dto.ProfileListRequest) (*dto.ProfileListResponse, error)
	Profile(ctx context.Context, email, viewerEmail string) (*dto.ProfileResponse, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo  *repositories.UserRepository
	materials MaterialService
	comments  CommentService
}

// NewUserService creates a new user service instance
func NewUserService(userRepo *repositories.UserRepository, materials MaterialService, comments CommentService) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		materials: materials,
		comments:  comments,
	}
}

// List returns one page of accounts whose name or email contains the search term
func (s *userServiceImpl) List(ctx context.Context, req dto.ProfileListRequest) (*dto.ProfileListResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}

	search := strings.TrimSpace(req.Search)
	matched := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		if search != "" && !normalize.ContainsFold(u.Name, search) && !normalize.ContainsFold(u.Email, search) {
			continue
		}
		matched = append(matched, dto.NewUserResponse(u))
	}

	page, size := helpers.NormalizePage(req.Page, req.Size)
	start, end := helpers.CalculateSliceIndices(page, size, len(matched))

	return &dto.ProfileListResponse{
		Users:      matched[start:end],
		Pagination: helpers.NewPaginationInfo(int64(len(matched)), page, size),
	}, nil
}

// Profile builds a profile page with the account's materials and profile comments
func (s *userServiceImpl) Profile(ctx context.Context, email, viewerEmail string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	materials, err := s.materials.ByAuthor(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	withComments, err := s.comments.AttachToMaterials(ctx, materials)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ForProfile(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		User:         dto.NewUserResponse(user),
		Materials:    withComments,
		Comments:     comments,
		IsOwnAccount: viewerEmail != "" && normalize.EqualFold(viewerEmail, user.Email),
	}, nil
}
