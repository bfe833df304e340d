package models

import (
	"encoding/json"
	"math"
)

// Course is one row of the courses worksheet. Slug is derived from Name.
type Course struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Professor   string `json:"professor"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Programme   string `json:"programme,omitempty"`
}

// Material is a learning resource attached to a course.
type Material struct {
	CourseSlug  string  `json:"courseSlug"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	AuthorEmail string  `json:"authorEmail"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
	Verified    bool    `json:"verified"`

	// Row is the worksheet position used to write ratings back
	Row int `json:"-"`
}

// DisplayRating is the average rounded to two decimals
func (m Material) DisplayRating() float64 {
	return math.Round(m.Rating*100) / 100
}

// Rounded returns a copy of m carrying DisplayRating
func (m Material) Rounded() Material {
	m.Rating = m.DisplayRating()
	return m
}

// MarshalJSON presents the rounded rating. Rating itself keeps full precision.
func (m Material) MarshalJSON() ([]byte, error) {
	type plain Material
	return json.Marshal(plain(m.Rounded()))
}

// ID is the comment reference of the material
func (m Material) ID() string {
	return MaterialID(m.CourseSlug, m.Title)
}

// MaterialID builds the "slug:title" reference of a material
func MaterialID(courseSlug, title string) string {
	return courseSlug + ":" + title
}

// Opportunity is a job, event or other listing.
type Opportunity struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Programme   string `json:"programme"`
	Description string `json:"description"`
}

// AvailabilityEntry is one merged timetable row. Values keeps every original column.
type AvailabilityEntry struct {
	Day             string            `json:"day"`
	Time            string            `json:"time"`
	Subject         string            `json:"subject"`
	Professor       string            `json:"professor"`
	Room            string            `json:"room"`
	ProgramSemester string            `json:"programSemester"`
	Values          map[string]string `json:"values"`
}
