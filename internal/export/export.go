// Package export writes the site listings as CSV.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/services"
)

// Listing names an exportable listing
type Listing string

const (
	Courses       Listing = "courses"
	Materials     Listing = "materials"
	Opportunities Listing = "opportunities"
	Jobs          Listing = "jobs"
	Events        Listing = "events"
	Timetable     Listing = "timetable"
)

// Listings returns every listing the exporter understands
func Listings() []Listing {
	return []Listing{Courses, Materials, Opportunities, Jobs, Events, Timetable}
}

// ParseListing matches s case-insensitively against the known listings
func ParseListing(s string) (Listing, error) {
	l := Listing(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Listings() {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown listing %q", s)
}

type courseRow struct {
	Name        string `csv:"name"`
	Slug        string `csv:"slug"`
	Professor   string `csv:"professor"`
	Programme   string `csv:"programme"`
	Description string `csv:"description"`
	Icon        string `csv:"icon"`
}

type materialRow struct {
	ID          string  `csv:"id"`
	CourseSlug  string  `csv:"course_slug"`
	Title       string  `csv:"title"`
	URL         string  `csv:"url"`
	AuthorEmail string  `csv:"author_email"`
	Rating      float64 `csv:"rating"`
	RatingCount int     `csv:"rating_count"`
	Verified    bool    `csv:"verified"`
}

type opportunityRow struct {
	Title       string `csv:"title"`
	Type        string `csv:"type"`
	Programme   string `csv:"programme"`
	Description string `csv:"description"`
}

// timetableRow holds the merged availability, one line per day and slot
type timetableRow struct {
	Day             string `csv:"day"`
	Time            string `csv:"time"`
	Subject         string `csv:"subject"`
	Professor       string `csv:"professor"`
	Room            string `csv:"room"`
	ProgramSemester string `csv:"program_semester"`
}

// Exporter reads listings through the services so exports match the API
type Exporter struct {
	svc *services.Services
}

// NewExporter creates an Exporter
func NewExporter(svc *services.Services) *Exporter {
	return &Exporter{svc: svc}
}

// Write renders the listing as CSV into w and returns the number of data rows
func (e *Exporter) Write(ctx context.Context, listing Listing, w io.Writer) (int, error) {
	rows, err := e.rows(ctx, listing)
	if err != nil {
		return 0, err
	}
	if err := gocsv.Marshal(rows.value, w); err != nil {
		return 0, fmt.Errorf("write %s csv: %w", listing, err)
	}
	return rows.count, nil
}

type rowSet struct {
	value interface{}
	count int
}

func (e *Exporter) rows(ctx context.Context, listing Listing) (rowSet, error) {
	switch listing {
	case Courses:
		list, err := e.svc.CourseService.List(ctx, dto.CourseFilter{})
		if err != nil {
			return rowSet{}, err
		}
		out := make([]courseRow, 0, len(list.Courses))
		for _, c := range list.Courses {
			out = append(out, courseRow{
				Name:        c.Name,
				Slug:        c.Slug,
				Professor:   c.Professor,
				Programme:   c.Programme,
				Description: c.Description,
				Icon:        c.Icon,
			})
		}
		return rowSet{out, len(out)}, nil

	case Materials:
		materials, err := e.svc.MaterialService.All(ctx)
		if err != nil {
			return rowSet{}, err
		}
		out := make([]materialRow, 0, len(materials))
		for _, m := range materials {
			out = append(out, materialRow{
				ID:          m.ID(),
				CourseSlug:  m.CourseSlug,
				Title:       m.Title,
				URL:         m.URL,
				AuthorEmail: m.AuthorEmail,
				Rating:      m.DisplayRating(),
				RatingCount: m.RatingCount,
				Verified:    m.Verified,
			})
		}
		return rowSet{out, len(out)}, nil

	case Opportunities, Jobs, Events:
		list, err := e.svc.OpportunityService.List(ctx, models.OpportunityKind(listing), dto.OpportunityFilter{})
		if err != nil {
			return rowSet{}, err
		}
		out := make([]opportunityRow, 0, len(list.Opportunities))
		for _, o := range list.Opportunities {
			out = append(out, opportunityRow{
				Title:       o.Title,
				Type:        o.Type,
				Programme:   o.Programme,
				Description: o.Description,
			})
		}
		return rowSet{out, len(out)}, nil

	case Timetable:
		tt, err := e.svc.TimetableService.Availability(ctx, dto.TimetableFilter{})
		if err != nil {
			return rowSet{}, err
		}
		out := make([]timetableRow, 0, len(tt.Entries))
		for _, entry := range tt.Entries {
			out = append(out, timetableRow{
				Day:             entry.Day,
				Time:            entry.Time,
				Subject:         entry.Subject,
				Professor:       entry.Professor,
				Room:            entry.Room,
				ProgramSemester: entry.ProgramSemester,
			})
		}
		return rowSet{out, len(out)}, nil
	}

	return rowSet{}, fmt.Errorf("unknown listing %q", listing)
}
