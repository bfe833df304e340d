package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
)

// CookieConfig controls the session cookie written on login
type CookieConfig struct {
	Secure bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	cookie      CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Register creates an account and signs it in
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to register user")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSession(ctx, resp)
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp, Message: "Account created"})
}

// Login authenticates a user
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Info().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSession(ctx, resp)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Logout clears the session cookie
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.cookie.Secure, true)
	ctx.JSON(http.StatusOK, dto.APIResponse{Message: "Logged out"})
}

func (c *AuthController) setSession(ctx *gin.Context, resp *dto.AuthResponse) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookie, resp.Token.AccessToken, int(resp.Token.ExpiresIn), "/", "", c.cookie.Secure, true)
}
