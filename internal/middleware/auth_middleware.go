package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextKeyEmail = "email"
	ContextKeyName  = "name"
)

// SessionCookie carries the token for browser clients
const SessionCookie = "universe_session"

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// tokenFromRequest reads the Bearer header, then the session cookie
func tokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ExtractBearerToken(header)
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", apperrors.ErrUnauthenticated
}

// JWTAuth rejects requests without a valid session
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			if errors.Is(err, auth.ErrInvalidFormat) {
				detail = detail.WithDetails("Invalid token format")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.APIResponse{Error: detail})
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			detail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.APIResponse{Error: detail})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when one is present and valid, and never rejects
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := tokenFromRequest(c); err == nil {
			if claims, err := m.jwtService.ValidateAndExtractClaims(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyName, claims.Name)
}

// CurrentEmail returns the signed-in account email, or "" for anonymous requests
func CurrentEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// CurrentName returns the signed-in account name
func CurrentName(c *gin.Context) string {
	return c.GetString(ContextKeyName)
}
