package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/universe/internal/pkg/logger"
	"github.com/yigit/universe/internal/pkg/workbook"
)

type memoryTarget struct {
	*workbook.Memory
	failing string
}

func (m memoryTarget) HasSheet(_ context.Context, name string) (bool, error) {
	if name == m.failing {
		return false, errors.New("boom")
	}
	for _, n := range m.SheetNames() {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

var names = workbook.SheetNames{
	Courses:       "Courses",
	Materials:     "Materials",
	Opportunities: "Opportunities",
	Jobs:          "Jobs",
	Events:        "Events",
	Timetable:     "Timetable",
	Users:         "Users",
	Comments:      "Comments",
}

func TestCreateDefaultDataSeedsMissingSheets(t *testing.T) {
	ctx := context.Background()
	mem := workbook.NewMemory()
	require.NoError(t, mem.ReplaceSheet(ctx, "Courses", []string{"Course"}, [][]string{{"Existing"}}))

	require.NoError(t, CreateDefaultData(ctx, memoryTarget{Memory: mem}, names, logger.Nop()))

	assert.ElementsMatch(t, names.All(), mem.SheetNames())

	courses, err := mem.Sheet(ctx, "Courses")
	require.NoError(t, err)
	require.Len(t, courses.Records, 1, "existing worksheet must not be overwritten")
	assert.Equal(t, "Existing", courses.Records[0].Values["Course"])

	timetable, err := mem.Sheet(ctx, "Timetable")
	require.NoError(t, err)
	assert.NotEmpty(t, timetable.Records)
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	mem := workbook.NewMemory()
	err := CreateDefaultData(context.Background(), memoryTarget{Memory: mem, failing: "Jobs"}, names, logger.Nop())

	require.Error(t, err)
	assert.Len(t, mem.SheetNames(), len(names.All())-1)
}
