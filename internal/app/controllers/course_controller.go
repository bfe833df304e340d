package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
)

// CourseController serves the course catalogue
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// GetCourses lists courses, filtered by ?q= and ?programme=
func (c *CourseController) GetCourses(ctx *gin.Context) {
	var filter dto.CourseFilter
	if !bindQuery(ctx, &filter) {
		return
	}

	resp, err := c.courseService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetCourse returns one course page with its materials and their comments
func (c *CourseController) GetCourse(ctx *gin.Context) {
	resp, err := c.courseService.Detail(ctx.Request.Context(), ctx.Param("slug"), middleware.CurrentEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
