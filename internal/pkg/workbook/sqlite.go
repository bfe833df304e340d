package workbook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS worksheets (
	name       TEXT PRIMARY KEY,
	header     TEXT NOT NULL DEFAULT '[]',
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS worksheet_rows (
	worksheet TEXT    NOT NULL REFERENCES worksheets (name) ON DELETE CASCADE,
	row_index INTEGER NOT NULL,
	cells     TEXT    NOT NULL DEFAULT '[]',
	PRIMARY KEY (worksheet, row_index)
);`

// SQLite stores worksheets in a local SQLite file. Header and cells are JSON arrays.
type SQLite struct {
	db *sql.DB
	q  sheetQueries
}

// OpenSQLite opens path and creates the schema when missing.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer keeps row updates serialised.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLite{db: conn, q: newSheetQueries(squirrel.Question)}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Source implements Workbook.
func (s *SQLite) Source() string {
	return "sqlite"
}

// HasSheet reports whether the worksheet exists.
func (s *SQLite) HasSheet(ctx context.Context, name string) (bool, error) {
	query, args, err := s.q.countSheets(name)
	if err != nil {
		return false, fmt.Errorf("build worksheet count: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check worksheet %q: %w", name, err)
	}
	return n > 0, nil
}

// Sheet implements Workbook.
func (s *SQLite) Sheet(ctx context.Context, name string) (*Sheet, error) {
	header, err := s.header(ctx, s.db, name)
	if err != nil {
		return nil, err
	}

	query, args, err := s.q.rows(name)
	if err != nil {
		return nil, fmt.Errorf("build rows query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows of %q: %w", name, err)
	}
	defer rows.Close()

	sheet := &Sheet{Name: name, Header: cleanHeader(header)}
	for rows.Next() {
		var (
			idx int
			raw string
		)
		if err := rows.Scan(&idx, &raw); err != nil {
			return nil, fmt.Errorf("scan row of %q: %w", name, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode row %d of %q: %w", idx, name, err)
		}
		if r, ok := buildRecord(header, cells, idx); ok {
			sheet.Records = append(sheet.Records, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %q: %w", name, err)
	}
	return sheet, nil
}

// AppendRow implements Workbook.
func (s *SQLite) AppendRow(ctx context.Context, name string, values map[string]string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		header, err := s.header(ctx, tx, name)
		if err != nil {
			return err
		}
		row, err := alignRow(name, header, values)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(row)
		if err != nil {
			return err
		}

		query, args, err := s.q.nextRow(name)
		if err != nil {
			return fmt.Errorf("build next row query: %w", err)
		}
		var next int
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
			return fmt.Errorf("next row of %q: %w", name, err)
		}

		query, args, err = s.q.insertRow(name, next, string(raw))
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("append row to %q: %w", name, err)
		}
		return nil
	})
}

// UpdateRow implements Workbook.
func (s *SQLite) UpdateRow(ctx context.Context, name string, row int, values map[string]string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		header, err := s.header(ctx, tx, name)
		if err != nil {
			return err
		}

		query, args, err := s.q.row(name, row, false)
		if err != nil {
			return fmt.Errorf("build row query: %w", err)
		}
		var raw string
		err = tx.QueryRowContext(ctx, query, args...).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return rowNotFound(name, row)
		}
		if err != nil {
			return fmt.Errorf("read row %d of %q: %w", row, name, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return fmt.Errorf("decode row %d of %q: %w", row, name, err)
		}

		updated, err := applyRow(name, header, cells, values)
		if err != nil {
			return err
		}
		out, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		query, args, err = s.q.updateRow(name, row, string(out))
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update row %d of %q: %w", row, name, err)
		}
		return nil
	})
}

// ReplaceSheet implements Loader.
func (s *SQLite) ReplaceSheet(ctx context.Context, name string, header []string, rows [][]string) error {
	rawHeader, err := json.Marshal(header)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := s.q.upsertSheet(name, string(rawHeader))
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert worksheet %q: %w", name, err)
		}

		query, args, err = s.q.clearRows(name)
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear rows of %q: %w", name, err)
		}

		for i, r := range rows {
			raw, err := json.Marshal(r)
			if err != nil {
				return err
			}
			query, args, err := s.q.insertRow(name, i, string(raw))
			if err != nil {
				return fmt.Errorf("build insert: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert row %d into %q: %w", i, name, err)
			}
		}
		return nil
	})
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlQueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) header(ctx context.Context, q sqlQueryRower, name string) ([]string, error) {
	query, args, err := s.q.header(name, false)
	if err != nil {
		return nil, fmt.Errorf("build header query: %w", err)
	}
	var raw string
	err = q.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sheetNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %q: %w", name, err)
	}
	var header []string
	if err := json.Unmarshal([]byte(raw), &header); err != nil {
		return nil, fmt.Errorf("decode header of %q: %w", name, err)
	}
	return header, nil
}
