package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("wrapped: %w", apperrors.ErrMaterialNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrAlreadyVerified, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.NewCustomError(apperrors.ErrInvalidPassword, "too short"), http.StatusBadRequest, dto.ErrorCodeInvalidPassword},
		{apperrors.ErrInvalidRating, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{fmt.Errorf("read: %w", apperrors.ErrUpstreamUnavailable), http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, _ := ErrorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHandleAPIErrorPrefersCustomMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrInvalidEmail, "invalid email format"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"invalid email format"`)
	assert.Contains(t, w.Body.String(), `"code":"AUTH_002"`)
	assert.Contains(t, w.Body.String(), `"severity":"WARNING"`)
	assert.True(t, c.IsAborted())
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	err := apperrors.NewCustomError(apperrors.ErrInvalidComment, "comment too long").
		WithDetails(map[string]interface{}{"maxLength": 1000})
	HandleAPIError(c, fmt.Errorf("add comment: %w", err))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"details":{"maxLength":1000}`)
	assert.Contains(t, w.Body.String(), `"message":"comment too long"`)
}

func TestHandleAPIErrorServerSeverity(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"severity":"ERROR"`)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	who := func(c *gin.Context) {
		c.String(http.StatusOK, CurrentEmail(c)+"|"+CurrentName(c))
	}
	r.GET("/required", m.JWTAuth(), who)
	r.GET("/optional", m.OptionalAuth(), who)
	return r, jwtService
}

func TestAuthMiddleware(t *testing.T) {
	r, jwtService := newAuthRouter(t)
	token, _, err := jwtService.GenerateToken("anna@example.com", "Anna")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"bearer header", "/required", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "anna@example.com|Anna"},
		{"lowercase scheme", "/required", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) }, http.StatusOK, "anna@example.com|Anna"},
		{"session cookie", "/required", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) }, http.StatusOK, "anna@example.com|Anna"},
		{"missing", "/required", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"garbage", "/required", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }, http.StatusUnauthorized, ""},
		{"optional anonymous", "/optional", func(*http.Request) {}, http.StatusOK, "|"},
		{"optional garbage", "/optional", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }, http.StatusOK, "|"},
		{"optional signed in", "/optional", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "anna@example.com|Anna"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing?q=1", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"path":"/missing?q=1"`)
	assert.Contains(t, out, `"status":404`)
}
