package dto

import (
	"encoding/json"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/pkg/normalize"
)

// CourseFilter holds the course list query parameters
type CourseFilter struct {
	Query     string `form:"q"`
	Programme string `form:"programme"`
}

// CourseListResponse is the course catalogue page
type CourseListResponse struct {
	Courses    []models.Course `json:"courses"`
	Programmes []string        `json:"programmes"`
	Total      int             `json:"total"`
}

// MaterialResponse is a material with its comment reference and comments
type MaterialResponse struct {
	models.Material
	ID       string           `json:"id"`
	Comments []models.Comment `json:"comments"`
}

// MarshalJSON flattens the material fields next to id and comments. The
// promoted models.Material marshaller would otherwise drop them.
func (r MaterialResponse) MarshalJSON() ([]byte, error) {
	type material models.Material
	return json.Marshal(struct {
		material
		ID       string           `json:"id"`
		Comments []models.Comment `json:"comments"`
	}{material(r.Material.Rounded()), r.ID, r.Comments})
}

// CourseDetailResponse is one course page
type CourseDetailResponse struct {
	Course    models.Course      `json:"course"`
	Materials []MaterialResponse `json:"materials"`
	CanVerify bool               `json:"canVerify"`
}

// RateMaterialRequest rates one material from 1 to 5 stars
type RateMaterialRequest struct {
	CourseSlug string `json:"courseSlug" form:"course_slug" binding:"required"`
	Title      string `json:"title" form:"title" binding:"required"`
	Rating     int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
}

// VerifyMaterialRequest marks one material as verified
type VerifyMaterialRequest struct {
	CourseSlug string `json:"courseSlug" form:"course_slug" binding:"required"`
	Title      string `json:"title" form:"title" binding:"required"`
}

// OpportunityFilter holds the opportunity list query parameters
type OpportunityFilter struct {
	Type      string `form:"type"`
	Programme string `form:"programme"`
}

// OpportunityListResponse is a filtered opportunity list with its facets
type OpportunityListResponse struct {
	Kind          models.OpportunityKind `json:"kind"`
	Opportunities []models.Opportunity   `json:"opportunities"`
	Types         []string               `json:"types"`
	Programmes    []string               `json:"programmes"`
	Total         int                    `json:"total"`
	Filtered      int                    `json:"filtered"`
	Selected      OpportunityFilter      `json:"selected"`
}

// TimetableFilter holds the timetable query parameters
type TimetableFilter struct {
	Search string `form:"search"`
	Day    string `form:"day"`
}

// TimetableResponse is the merged availability table
type TimetableResponse struct {
	Entries []models.AvailabilityEntry `json:"entries"`
	Header  []string                   `json:"header"`
	Columns normalize.Columns          `json:"columns"`
	Days    []string                   `json:"days"`
	Total   int                        `json:"total"`
}
