package dto

import "github.com/yigit/universe/internal/app/models"

// ProfileListRequest holds the profile directory query
type ProfileListRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

// ProfileListResponse is one page of the profile directory
type ProfileListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// ProfileResponse is a profile page
type ProfileResponse struct {
	User         UserResponse       `json:"user"`
	Materials    []MaterialResponse `json:"materials"`
	Comments     []models.Comment   `json:"comments"`
	IsOwnAccount bool               `json:"isOwnAccount"`
}

// CommentRequest adds a comment to a material or profile
type CommentRequest struct {
	Type        string `json:"type" form:"type" binding:"required,comment_type"`
	ReferenceID string `json:"referenceId" form:"reference_id" binding:"required"`
	Text        string `json:"text" form:"comment" binding:"required,max=1000"`
}

// CommentListRequest selects the comments of one entity
type CommentListRequest struct {
	Type string `form:"type" binding:"required,comment_type"`
	Ref  string `form:"ref" binding:"required"`
}

// CommentListResponse lists comments
type CommentListResponse struct {
	Comments []models.Comment `json:"comments"`
	Total    int              `json:"total"`
}
