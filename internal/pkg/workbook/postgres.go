package workbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/universe/internal/db"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/dberrors"
)

// Postgres stores worksheets in the worksheets and worksheet_rows tables.
type Postgres struct {
	pool *pgxpool.Pool
	q    sheetQueries
}

// NewPostgres creates a workbook over an already migrated pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, q: newSheetQueries(squirrel.Dollar)}
}

// Source implements Workbook.
func (p *Postgres) Source() string {
	return "postgres"
}

// HasSheet reports whether the worksheet exists.
func (p *Postgres) HasSheet(ctx context.Context, name string) (bool, error) {
	query, args, err := p.q.countSheets(name)
	if err != nil {
		return false, fmt.Errorf("build worksheet count: %w", err)
	}
	var n int
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check worksheet %q: %w", name, err)
	}
	return n > 0, nil
}

// Sheet implements Workbook.
func (p *Postgres) Sheet(ctx context.Context, name string) (*Sheet, error) {
	header, err := p.header(ctx, p.pool, name, false)
	if err != nil {
		return nil, err
	}

	query, args, err := p.q.rows(name)
	if err != nil {
		return nil, fmt.Errorf("build rows query: %w", err)
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows of %q: %w", name, err)
	}
	defer rows.Close()

	s := &Sheet{Name: name, Header: cleanHeader(header)}
	for rows.Next() {
		var (
			idx   int
			cells []string
		)
		if err := rows.Scan(&idx, &cells); err != nil {
			return nil, fmt.Errorf("scan row of %q: %w", name, err)
		}
		if r, ok := buildRecord(header, cells, idx); ok {
			s.Records = append(s.Records, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %q: %w", name, err)
	}
	return s, nil
}

// AppendRow implements Workbook. The worksheet row is locked so concurrent appends
// take consecutive positions.
func (p *Postgres) AppendRow(ctx context.Context, name string, values map[string]string) error {
	return db.WithTransaction(ctx, p.pool, func(ctx context.Context, tx pgx.Tx) error {
		header, err := p.header(ctx, tx, name, true)
		if err != nil {
			return err
		}
		row, err := alignRow(name, header, values)
		if err != nil {
			return err
		}

		query, args, err := p.q.nextRow(name)
		if err != nil {
			return fmt.Errorf("build next row query: %w", err)
		}
		var next int
		if err := tx.QueryRow(ctx, query, args...).Scan(&next); err != nil {
			return fmt.Errorf("next row of %q: %w", name, err)
		}

		query, args, err = p.q.insertRow(name, next, row)
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		_, err = tx.Exec(ctx, query, args...)
		if dberrors.IsDuplicateConstraintError(err, dberrors.WorksheetRowsPrimaryKey) {
			return apperrors.NewConflictError(fmt.Sprintf("worksheet %q changed, please retry", name))
		}
		if err != nil {
			return fmt.Errorf("append row to %q: %w", name, err)
		}
		return nil
	})
}

// UpdateRow implements Workbook.
func (p *Postgres) UpdateRow(ctx context.Context, name string, row int, values map[string]string) error {
	return db.WithTransaction(ctx, p.pool, func(ctx context.Context, tx pgx.Tx) error {
		header, err := p.header(ctx, tx, name, false)
		if err != nil {
			return err
		}

		query, args, err := p.q.row(name, row, true)
		if err != nil {
			return fmt.Errorf("build row query: %w", err)
		}
		var cells []string
		err = tx.QueryRow(ctx, query, args...).Scan(&cells)
		if errors.Is(err, pgx.ErrNoRows) {
			return rowNotFound(name, row)
		}
		if err != nil {
			return fmt.Errorf("lock row %d of %q: %w", row, name, err)
		}

		updated, err := applyRow(name, header, cells, values)
		if err != nil {
			return err
		}
		query, args, err = p.q.updateRow(name, row, updated)
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("update row %d of %q: %w", row, name, err)
		}
		return nil
	})
}

// ReplaceSheet implements Loader.
func (p *Postgres) ReplaceSheet(ctx context.Context, name string, header []string, rows [][]string) error {
	return db.WithTransaction(ctx, p.pool, func(ctx context.Context, tx pgx.Tx) error {
		query, args, err := p.q.upsertSheet(name, header)
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert worksheet %q: %w", name, err)
		}

		query, args, err = p.q.clearRows(name)
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("clear rows of %q: %w", name, err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{rowsTable},
			[]string{"worksheet", "row_index", "cells"},
			pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
				return []any{name, i, rows[i]}, nil
			}))
		if err != nil {
			return fmt.Errorf("copy rows into %q: %w", name, err)
		}
		return nil
	})
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *Postgres) header(ctx context.Context, q queryRower, name string, lock bool) ([]string, error) {
	query, args, err := p.q.header(name, lock)
	if err != nil {
		return nil, fmt.Errorf("build header query: %w", err)
	}

	var header []string
	err = q.QueryRow(ctx, query, args...).Scan(&header)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sheetNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %q: %w", name, err)
	}
	return header, nil
}
