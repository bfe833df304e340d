package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/middleware"
	"github.com/yigit/universe/internal/pkg/apperrors"
)

// CommentController handles comments on materials and profiles
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// AddComment stores a comment by the signed-in account
func (c *CommentController) AddComment(ctx *gin.Context) {
	var req dto.CommentRequest
	if !bind(ctx, &req) {
		return
	}

	comment, err := c.commentService.Add(ctx.Request.Context(), middleware.CurrentEmail(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: comment, Message: "Comment added"})
}

// GetComments lists the comments of ?type= and ?ref=
func (c *CommentController) GetComments(ctx *gin.Context) {
	var req dto.CommentListRequest
	if !bindQuery(ctx, &req) {
		return
	}
	t, ok := models.ParseCommentType(req.Type)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidCommentType)
		return
	}

	comments, err := c.commentService.List(ctx.Request.Context(), t, req.Ref)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.CommentListResponse{Comments: comments, Total: len(comments)}})
}
