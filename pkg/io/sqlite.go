package io

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/casetree/pkg/errors"
)

// ReadSQLite reads every row of table from the SQLite database at path.
//
// The database is opened read-only; a missing file is reported as
// FILE_NOT_FOUND rather than silently creating an empty database. Columns
// declared as DATETIME come back as times, INTEGER and REAL timestamps are
// read as Unix seconds, and text is parsed like CSV cells.
func ReadSQLite(ctx context.Context, path, table string, cols Columns) ([]Record, error) {
	if err := errors.ValidateTableName(table); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "query table %s", table)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	if err := cols.checkHeader(header); err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}

	var records []Record
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &errors.RowError{Row: row, Err: err}
		}
		rec, err := parseRecord(row, cols, func(col string) any { return values[index[col]] })
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	return records, nil
}
