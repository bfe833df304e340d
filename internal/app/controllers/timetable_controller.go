package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
)

// TimetableController serves the professor availability table
type TimetableController struct {
	timetableService services.TimetableService
}

// NewTimetableController creates a new TimetableController
func NewTimetableController(timetableService services.TimetableService) *TimetableController {
	return &TimetableController{timetableService: timetableService}
}

// GetTimetable returns merged availability, filtered by ?search= and ?day=
func (c *TimetableController) GetTimetable(ctx *gin.Context) {
	var filter dto.TimetableFilter
	if !bindQuery(ctx, &filter) {
		return
	}

	resp, err := c.timetableService.Availability(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
