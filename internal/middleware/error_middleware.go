package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/logger"
)

// apiError maps one sentinel onto a status, a code and a default message
type apiError struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorTable is checked in order; more specific sentinels come first
var errorTable = []apiError{
	{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found"},
	{apperrors.ErrMaterialNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Material not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrAlreadyVerified, http.StatusConflict, dto.ErrorCodeConflict, "Material already verified"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrInvalidEmail, http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email"},
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password"},
	{apperrors.ErrInvalidRating, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Rating must be between 1 and 5"},
	{apperrors.ErrInvalidCommentType, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid comment type"},
	{apperrors.ErrInvalidComment, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid comment"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrColumnNotFound, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Worksheet is missing a required column"},
	{apperrors.ErrRowNotFound, http.StatusConflict, dto.ErrorCodeConflict, "Worksheet row changed, please retry"},
	{apperrors.ErrUpstreamUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "Data source unavailable"},
}

// ErrorStatus returns the HTTP status and error code for err
func ErrorStatus(err error) (int, dto.ErrorCode, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.status, e.code, e.message
		}
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := ErrorStatus(err)
	if msg := apperrors.Message(err); msg != "" {
		message = msg
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	detail := dto.NewErrorDetail(code, message)
	if status < http.StatusInternalServerError {
		// client errors are the caller's to fix
		detail.WithSeverity(dto.ErrorSeverityWarning)
	}
	if details := apperrors.Details(err); len(details) > 0 {
		detail.WithDetails(details)
	}
	c.AbortWithStatusJSON(status, dto.APIResponse{Error: detail})
}

// HandleBindingError answers a request whose body or query failed to bind
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.APIResponse{
		Error: dto.HandleValidationError(err),
	})
}
