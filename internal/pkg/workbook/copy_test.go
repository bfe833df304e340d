package workbook

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/universe/internal/pkg/logger"
)

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src, err := NewSampleMemory(testNames)
	require.NoError(t, err)

	dst, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "copy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Close() })

	names := append(testNames.All(), "Courses", "Grades", "")
	res, err := Copy(ctx, src, dst, names, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"Grades"}, res.Skipped)
	assert.Equal(t, 6, res.Rows["Courses"])
	assert.Equal(t, 0, res.Rows["Users"])
	assert.Len(t, res.Rows, 8)

	want, err := src.Sheet(ctx, "Timetable")
	require.NoError(t, err)
	got, err := dst.Sheet(ctx, "Timetable")
	require.NoError(t, err)
	assert.Equal(t, want.Header, got.Header)
	assert.Equal(t, want.Rows(), got.Rows())
}

func TestCopyStopsOnSourceError(t *testing.T) {
	_, err := Copy(context.Background(), &brokenWorkbook{}, NewMemory(), []string{"Courses"}, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
}
