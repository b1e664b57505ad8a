package io

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/casetree/pkg/errors"
)

// Record is one row of a case table.
type Record struct {
	ID     string    // Unique case identifier
	Time   time.Time // When the case was recorded
	Source string    // Infecting case ID; empty for an index case
	Attr   string    // Categorical attribute used for colouring
}

// IsIndex reports whether the record has no transmission source.
func (r Record) IsIndex() bool { return r.Source == "" }

// Columns names the four columns a case table must provide.
type Columns struct {
	Case   string `json:"case" koanf:"case"`
	Time   string `json:"time" koanf:"time"`
	Source string `json:"source" koanf:"source"`
	Attr   string `json:"attr" koanf:"attr"`
}

// DefaultColumns returns the column names of the cluster_network table.
func DefaultColumns() Columns {
	return Columns{
		Case:   "case_id",
		Time:   "time",
		Source: "source_node",
		Attr:   "color",
	}
}

// Validate checks every column name.
func (c Columns) Validate() error {
	for _, name := range c.names() {
		if err := errors.ValidateColumnName(name); err != nil {
			return err
		}
	}
	return nil
}

func (c Columns) names() []string {
	return []string{c.Case, c.Time, c.Source, c.Attr}
}

// checkHeader returns an INVALID_SCHEMA error naming every required column
// absent from header.
func (c Columns) checkHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, name := range c.names() {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidSchema, "missing columns: %s (have: %s)",
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	return nil
}

// timeLayouts are tried in order when a timestamp arrives as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// rowValues yields the raw value of a named column for one data row.
type rowValues func(col string) any

// parseRecord converts one raw row into a Record.
// row is 1-based and only used for error reporting.
func parseRecord(row int, cols Columns, get rowValues) (Record, error) {
	id, ok := stringValue(get(cols.Case))
	if !ok || id == "" {
		return Record{}, &errors.RowError{Row: row, Column: cols.Case,
			Err: errors.New(errors.ErrCodeInvalidInput, "case id is empty")}
	}
	id = canonicalID(id)

	t, err := timeValue(get(cols.Time))
	if err != nil {
		return Record{}, &errors.RowError{Row: row, Column: cols.Time,
			Err: errors.Wrap(errors.ErrCodeInvalidTimestamp, err, "case %s", id)}
	}

	src, ok := stringValue(get(cols.Source))
	if !ok || isNull(src) {
		src = ""
	}
	src = canonicalID(src)
	if src == id {
		src = ""
	}

	attr, _ := stringValue(get(cols.Attr))

	return Record{ID: id, Time: t, Source: src, Attr: attr}, nil
}

// stringValue renders a raw cell as text. The bool result is false for a
// missing value (nil or NaN).
func stringValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	case json.Number:
		return x.String(), true
	case float64:
		if math.IsNaN(x) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.Format(time.RFC3339), true
	default:
		return fmt.Sprint(x), true
	}
}

// timeValue converts a raw cell to a UTC time.
func timeValue(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("missing timestamp")
	case time.Time:
		return x.UTC(), nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case float64:
		return unixFloat(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", x.String())
		}
		return unixFloat(f)
	}

	s, _ := stringValue(v)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func unixFloat(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

// isNull reports whether s spells a missing value.
func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "na", "<na>":
		return true
	}
	return false
}

// canonicalID shortens integral float spellings ("12.0") to "12".
func canonicalID(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || whole == "" || strings.Trim(frac, "0") != "" {
		return s
	}
	if _, err := strconv.ParseInt(whole, 10, 64); err != nil {
		return s
	}
	return whole
}
