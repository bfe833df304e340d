package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
)

// OpportunityController serves the opportunities, jobs and events lists
type OpportunityController struct {
	opportunityService services.OpportunityService
}

// NewOpportunityController creates a new OpportunityController
func NewOpportunityController(opportunityService services.OpportunityService) *OpportunityController {
	return &OpportunityController{opportunityService: opportunityService}
}

// List returns a handler for one listing kind, filtered by ?type= and ?programme=
func (c *OpportunityController) List(kind models.OpportunityKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var filter dto.OpportunityFilter
		if !bindQuery(ctx, &filter) {
			return
		}

		resp, err := c.opportunityService.List(ctx.Request.Context(), kind, filter)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
	}
}
