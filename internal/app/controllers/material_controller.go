package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
)

// MaterialController handles material listings, ratings and verification
type MaterialController struct {
	materialService services.MaterialService
	logger          zerolog.Logger
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService services.MaterialService, logger zerolog.Logger) *MaterialController {
	return &MaterialController{materialService: materialService, logger: logger}
}

// GetMaterials lists all materials, or those of ?author=
func (c *MaterialController) GetMaterials(ctx *gin.Context) {
	var (
		materials []models.Material
		err       error
	)
	if author := strings.TrimSpace(ctx.Query("author")); author != "" {
		materials, err = c.materialService.ByAuthor(ctx.Request.Context(), author)
	} else {
		materials, err = c.materialService.All(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: materials})
}

// RateMaterial records one 1 to 5 star rating
func (c *MaterialController) RateMaterial(ctx *gin.Context) {
	var req dto.RateMaterialRequest
	if !bind(ctx, &req) {
		return
	}

	m, err := c.materialService.Rate(ctx.Request.Context(), middleware.CurrentEmail(ctx), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("title", req.Title).Msg("Rating failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: m, Message: "Rating saved"})
}

// VerifyMaterial marks a material as verified
func (c *MaterialController) VerifyMaterial(ctx *gin.Context) {
	var req dto.VerifyMaterialRequest
	if !bind(ctx, &req) {
		return
	}

	m, err := c.materialService.Verify(ctx.Request.Context(), middleware.CurrentEmail(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("verifier", middleware.CurrentName(ctx)).Str("title", req.Title).Msg("Material verified")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: m, Message: "Material verified"})
}
