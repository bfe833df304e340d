package workbook

import (
	"github.com/Masterminds/squirrel"
)

const (
	worksheetsTable = "worksheets"
	rowsTable       = "worksheet_rows"
)

// sheetQueries builds the statements shared by the SQL stores. Cell and header
// arguments are passed through untouched so each store picks its own encoding.
type sheetQueries struct {
	sb squirrel.StatementBuilderType
}

func newSheetQueries(format squirrel.PlaceholderFormat) sheetQueries {
	return sheetQueries{sb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

func (q sheetQueries) countSheets(name string) (string, []interface{}, error) {
	return q.sb.Select("COUNT(*)").
		From(worksheetsTable).
		Where(squirrel.Eq{"name": name}).
		ToSql()
}

func (q sheetQueries) header(name string, lock bool) (string, []interface{}, error) {
	b := q.sb.Select("header").
		From(worksheetsTable).
		Where(squirrel.Eq{"name": name})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	return b.ToSql()
}

func (q sheetQueries) rows(name string) (string, []interface{}, error) {
	return q.sb.Select("row_index", "cells").
		From(rowsTable).
		Where(squirrel.Eq{"worksheet": name}).
		OrderBy("row_index").
		ToSql()
}

func (q sheetQueries) row(name string, row int, lock bool) (string, []interface{}, error) {
	b := q.sb.Select("cells").
		From(rowsTable).
		Where(squirrel.Eq{"worksheet": name, "row_index": row})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	return b.ToSql()
}

func (q sheetQueries) nextRow(name string) (string, []interface{}, error) {
	return q.sb.Select("COALESCE(MAX(row_index) + 1, 0)").
		From(rowsTable).
		Where(squirrel.Eq{"worksheet": name}).
		ToSql()
}

func (q sheetQueries) insertRow(name string, row int, cells interface{}) (string, []interface{}, error) {
	return q.sb.Insert(rowsTable).
		Columns("worksheet", "row_index", "cells").
		Values(name, row, cells).
		ToSql()
}

func (q sheetQueries) updateRow(name string, row int, cells interface{}) (string, []interface{}, error) {
	return q.sb.Update(rowsTable).
		Set("cells", cells).
		Where(squirrel.Eq{"worksheet": name, "row_index": row}).
		ToSql()
}

func (q sheetQueries) clearRows(name string) (string, []interface{}, error) {
	return q.sb.Delete(rowsTable).
		Where(squirrel.Eq{"worksheet": name}).
		ToSql()
}

func (q sheetQueries) upsertSheet(name string, header interface{}) (string, []interface{}, error) {
	return q.sb.Insert(worksheetsTable).
		Columns("name", "header").
		Values(name, header).
		Suffix("ON CONFLICT (name) DO UPDATE SET header = EXCLUDED.header, updated_at = CURRENT_TIMESTAMP").
		ToSql()
}
