package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/helpers"
)

// ProfileController serves the profile directory and profile pages
type ProfileController struct {
	userService services.UserService
	authService *services.AuthService
}

// NewProfileController creates a new ProfileController
func NewProfileController(userService services.UserService, authService *services.AuthService) *ProfileController {
	return &ProfileController{userService: userService, authService: authService}
}

// GetProfiles lists accounts, filtered by ?search= and paginated by ?page= and ?size=
func (c *ProfileController) GetProfiles(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	req := dto.ProfileListRequest{
		Search: ctx.Query("search"),
		Page:   page,
		Size:   size,
	}

	resp, err := c.userService.List(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetProfile returns one profile page
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	resp, err := c.userService.Profile(ctx.Request.Context(), ctx.Param("email"), middleware.CurrentEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetAccount returns the profile page of the signed-in account
func (c *ProfileController) GetAccount(ctx *gin.Context) {
	user, err := c.authService.CurrentUser(ctx.Request.Context(), middleware.CurrentEmail(ctx))
	if apperrors.Is(err, apperrors.ErrUserNotFound) {
		// session outlived its account
		err = apperrors.ErrUnauthenticated
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.userService.Profile(ctx.Request.Context(), user.Email, user.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
