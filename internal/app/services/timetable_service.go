package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/normalize"
)

// TimetableService defines the interface for the professor availability table
type TimetableService interface {
	Availability(ctx context.Context, filter dto.TimetableFilter) (*dto.TimetableResponse, error)
}

// timetableServiceImpl implements the TimetableService interface
type timetableServiceImpl struct {
	timetableRepo *repositories.TimetableRepository
}

// NewTimetableService creates a new timetable service instance
func NewTimetableService(timetableRepo *repositories.TimetableRepository) TimetableService {
	return &timetableServiceImpl{timetableRepo: timetableRepo}
}

// Availability merges rows that differ only in programme/semester, then applies the
// professor search and the weekday filter. Days and Total describe the merged table.
func (s *timetableServiceImpl) Availability(ctx context.Context, filter dto.TimetableFilter) (*dto.TimetableResponse, error) {
	header, rows, err := s.timetableRepo.GetRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving timetable: %w", err)
	}

	cols := normalize.DetectColumns(header)
	merged := normalize.MergeByColumn(header, rows, cols.ProgramSemester)

	entries := make([]models.AvailabilityEntry, 0, len(merged))
	seenDays := map[string]bool{}
	days := make([]string, 0, len(normalize.Weekdays))
	for _, row := range merged {
		e := newAvailabilityEntry(cols, row)
		if e.Day != "" && !seenDays[e.Day] {
			seenDays[e.Day] = true
			days = append(days, e.Day)
		}
		entries = append(entries, e)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return normalize.DayIndex(days[i]) < normalize.DayIndex(days[j])
	})

	search := strings.TrimSpace(filter.Search)
	day := strings.TrimSpace(filter.Day)
	filtered := make([]models.AvailabilityEntry, 0, len(entries))
	for _, e := range entries {
		if search != "" && !matchesSearch(cols, header, e, search) {
			continue
		}
		if day != "" && normalize.Day(e.Day) != normalize.Day(day) {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		di, dj := normalize.DayIndex(filtered[i].Day), normalize.DayIndex(filtered[j].Day)
		if di != dj {
			return di < dj
		}
		return normalize.CompareTimes(filtered[i].Time, filtered[j].Time) < 0
	})

	return &dto.TimetableResponse{
		Entries: filtered,
		Header:  header,
		Columns: cols,
		Days:    days,
		Total:   len(entries),
	}, nil
}

func newAvailabilityEntry(cols normalize.Columns, row map[string]string) models.AvailabilityEntry {
	cell := func(col string) string {
		if col == "" {
			return ""
		}
		return row[col]
	}

	e := models.AvailabilityEntry{
		Time:            cell(cols.Time),
		Subject:         cell(cols.Subject),
		Professor:       normalize.Professor(cell(cols.Professor)),
		Room:            cell(cols.Room),
		ProgramSemester: cell(cols.ProgramSemester),
		Values:          row,
	}
	if d := cell(cols.Day); d != "" {
		e.Day = normalize.Day(d)
	}
	return e
}

// matchesSearch matches the professor column ignoring titles, or any cell when the
// table has no professor column.
func matchesSearch(cols normalize.Columns, header []string, e models.AvailabilityEntry, search string) bool {
	if cols.Professor != "" {
		return normalize.MatchProfessor(e.Professor, search)
	}
	for _, h := range header {
		if normalize.ContainsFold(e.Values[h], search) {
			return true
		}
	}
	return false
}
