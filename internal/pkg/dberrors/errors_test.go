package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: WorksheetRowsPrimaryKey}

	assert.True(t, IsDuplicateConstraintError(dup, WorksheetRowsPrimaryKey))
	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("append: %w", dup), WorksheetRowsPrimaryKey))
	assert.False(t, IsDuplicateConstraintError(dup, WorksheetsPrimaryKey))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: "23503", ConstraintName: WorksheetRowsPrimaryKey}, WorksheetRowsPrimaryKey))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), WorksheetRowsPrimaryKey))
}
