package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Constraint names declared by the worksheet migrations
const (
	WorksheetsPrimaryKey    = "worksheets_pkey"
	WorksheetRowsPrimaryKey = "worksheet_rows_pkey"
)

// IsDuplicateConstraintError reports whether err is a PostgreSQL unique violation
// of the named constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}
