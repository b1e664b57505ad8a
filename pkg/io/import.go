package io

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/casetree/pkg/errors"
)

// Input formats understood by [Import].
const (
	FormatCSV    = "csv"
	FormatTSV    = "tsv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

var formatByExt = map[string]string{
	".csv":     FormatCSV,
	".tsv":     FormatTSV,
	".json":    FormatJSON,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
}

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "cases"

// ImportOptions configures [Import].
type ImportOptions struct {
	Columns Columns
	// Format overrides extension-based detection when set.
	Format string
	// Table is the SQLite table to read (default [DefaultTable]).
	Table string
}

// DetectFormat returns the input format implied by path's extension.
func DetectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatByExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported input %q (want .csv, .tsv, .json, .db, .sqlite or .sqlite3)", path)
}

// Import reads the case table at path.
//
// The reader is chosen by opts.Format or, if empty, by the file extension.
// Files are opened and closed within the call. A missing file is reported
// with a FILE_NOT_FOUND code.
func Import(ctx context.Context, path string, opts ImportOptions) ([]Record, error) {
	cols := opts.Columns
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	if err := cols.Validate(); err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if format == FormatSQLite {
		table := opts.Table
		if table == "" {
			table = DefaultTable
		}
		return ReadSQLite(ctx, path, table, cols)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return ReadCSV(f, cols)
	case FormatTSV:
		return readDelimited(f, cols, '\t')
	case FormatJSON:
		return ReadJSON(f, cols)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format: %s", format)
	}
}

// ReadCSV decodes a comma-separated case table from r.
// The first row must be a header naming at least the four configured columns;
// extra columns are ignored. ReadCSV does not close r.
func ReadCSV(r io.Reader, cols Columns) ([]Record, error) {
	return readDelimited(r, cols, ',')
}

func readDelimited(r io.Reader, cols Columns, comma rune) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := cols.checkHeader(header); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	var records []Record
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.RowError{Row: row, Err: errors.Wrap(errors.ErrCodeInvalidInput, err, "read row")}
		}
		rec, err := parseRecord(row, cols, func(col string) any {
			return fields[index[col]]
		})
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadJSON decodes a case table from r.
//
// The input must be a JSON array of objects keyed by column name:
//
//	[
//	  {"case_id": 1, "time": "2013-04-02", "source_node": null, "color": "fatal"},
//	  {"case_id": 2, "time": "2013-04-09", "source_node": 1, "color": "mild"}
//	]
//
// Every configured column must be present in every object (null is allowed
// for the source). ReadJSON does not close r.
func ReadJSON(r io.Reader, cols Columns) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}

	records := make([]Record, 0, len(rows))
	for i, obj := range rows {
		row := i + 1
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		if err := cols.checkHeader(keys); err != nil {
			return nil, &errors.RowError{Row: row, Err: err}
		}
		rec, err := parseRecord(row, cols, func(col string) any { return obj[col] })
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
