package io

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/casetree/pkg/errors"
)

const sampleCSV = `case_id,time,source_node,color,country
1,2013-04-02,,fatal,KSA
2,2013-04-09,1.0,mild,KSA
3,2013-04-11,2,mild,KSA
4,2013-04-09,1,fatal,KSA
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV), DefaultColumns())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	want := []Record{
		{ID: "1", Time: date(2013, 4, 2), Source: "", Attr: "fatal"},
		{ID: "2", Time: date(2013, 4, 9), Source: "1", Attr: "mild"},
		{ID: "3", Time: date(2013, 4, 11), Source: "2", Attr: "mild"},
		{ID: "4", Time: date(2013, 4, 9), Source: "1", Attr: "fatal"},
	}
	for i, w := range want {
		got := records[i]
		if got.ID != w.ID || !got.Time.Equal(w.Time) || got.Source != w.Source || got.Attr != w.Attr {
			t.Errorf("records[%d] = %+v, want %+v", i, got, w)
		}
	}
	if !records[0].IsIndex() {
		t.Error("records[0].IsIndex() = false, want true")
	}
	if records[1].IsIndex() {
		t.Error("records[1].IsIndex() = true, want false")
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	input := "case_id,date,color\n1,2013-04-02,fatal\n"
	_, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	if !errors.Is(err, errors.ErrCodeInvalidSchema) {
		t.Fatalf("err = %v, want INVALID_SCHEMA", err)
	}
	msg := err.Error()
	for _, col := range []string{"time", "source_node"} {
		if !strings.Contains(msg, col) {
			t.Errorf("error %q does not name missing column %q", msg, col)
		}
	}
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), DefaultColumns())
	if !errors.Is(err, errors.ErrCodeInvalidSchema) {
		t.Fatalf("err = %v, want INVALID_SCHEMA", err)
	}

	records, err := ReadCSV(strings.NewReader("case_id,time,source_node,color\n"), DefaultColumns())
	if err != nil {
		t.Fatalf("header only: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("header only: got %d records, want 0", len(records))
	}
}

func TestReadCSVBadTimestamp(t *testing.T) {
	input := "case_id,time,source_node,color\n1,2013-04-02,,fatal\n2,last tuesday,1,mild\n"
	_, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	if !errors.Is(err, errors.ErrCodeInvalidTimestamp) {
		t.Fatalf("err = %v, want INVALID_TIMESTAMP", err)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error %q should name row 2", err)
	}
}

func TestReadCSVEmptyCaseID(t *testing.T) {
	input := "case_id,time,source_node,color\n,2013-04-02,,fatal\n"
	_, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestReadCSVCustomColumns(t *testing.T) {
	input := "id;onset;infector;sex\nA;2014-03-01;;F\nB;2014-03-05;A;M\n"
	cols := Columns{Case: "id", Time: "onset", Source: "infector", Attr: "sex"}
	records, err := readDelimited(strings.NewReader(input), cols, ';')
	if err != nil {
		t.Fatalf("readDelimited: %v", err)
	}
	if len(records) != 2 || records[1].Source != "A" || records[1].Attr != "M" {
		t.Errorf("records = %+v", records)
	}
}

func TestReadJSON(t *testing.T) {
	input := `[
		{"case_id": 1, "time": "2013-04-02T00:00:00Z", "source_node": null, "color": "fatal"},
		{"case_id": 2, "time": 1365465600, "source_node": 1, "color": "mild"},
		{"case_id": "3", "time": "2013-04-11", "source_node": "NaN", "color": "mild"}
	]`
	records, err := ReadJSON(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].ID != "1" || !records[0].IsIndex() {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Source != "1" || !records[1].Time.Equal(date(2013, 4, 9)) {
		t.Errorf("records[1] = %+v", records[1])
	}
	if !records[2].IsIndex() {
		t.Errorf("records[2] = %+v, want NaN source treated as index", records[2])
	}
}

func TestReadJSONMissingKey(t *testing.T) {
	input := `[{"case_id": 1, "time": "2013-04-02", "color": "fatal"}]`
	_, err := ReadJSON(strings.NewReader(input), DefaultColumns())
	if !errors.Is(err, errors.ErrCodeInvalidSchema) {
		t.Fatalf("err = %v, want INVALID_SCHEMA", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"case_id": 1}`), DefaultColumns())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "cases.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	tsvPath := filepath.Join(dir, "cases.TSV")
	if err := os.WriteFile(tsvPath, []byte(strings.ReplaceAll(sampleCSV, ",", "\t")), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, path := range []string{csvPath, tsvPath} {
		records, err := Import(ctx, path, ImportOptions{})
		if err != nil {
			t.Fatalf("Import(%s): %v", path, err)
		}
		if len(records) != 4 {
			t.Errorf("Import(%s): got %d records, want 4", path, len(records))
		}
	}
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		opts ImportOptions
		code errors.Code
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), ImportOptions{}, errors.ErrCodeFileNotFound},
		{"missing sqlite file", filepath.Join(dir, "nope.db"), ImportOptions{}, errors.ErrCodeFileNotFound},
		{"unknown extension", filepath.Join(dir, "cases.pkl"), ImportOptions{}, errors.ErrCodeInvalidFormat},
		{"bad column name", filepath.Join(dir, "cases.csv"), ImportOptions{Columns: Columns{Case: "id", Time: "t", Source: "", Attr: "a"}}, errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(ctx, tt.path, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"cases.csv", FormatCSV, false},
		{"cases.tsv", FormatTSV, false},
		{"cases.json", FormatJSON, false},
		{"cases.db", FormatSQLite, false},
		{"cases.sqlite3", FormatSQLite, false},
		{"cases.pkl", "", true},
		{"cases", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseRecordSelfSource(t *testing.T) {
	raw := map[string]any{"case_id": "7", "time": "2013-05-01", "source_node": "7.0", "color": "mild"}
	rec, err := parseRecord(1, DefaultColumns(), func(col string) any { return raw[col] })
	if err != nil {
		t.Fatalf("parseRecord: %v", err)
	}
	if !rec.IsIndex() {
		t.Errorf("self-referencing case should be an index case, got source %q", rec.Source)
	}
}

func TestCanonicalID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"12", "12"},
		{"12.0", "12"},
		{"12.00", "12"},
		{"12.5", "12.5"},
		{"A.0", "A.0"},
		{"case.1", "case.1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := canonicalID(tt.in); got != tt.want {
			t.Errorf("canonicalID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsNull(t *testing.T) {
	for _, s := range []string{"", "nan", "NaN", "NULL", "None", "NA", "<NA>"} {
		if !isNull(s) {
			t.Errorf("isNull(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "A", "n/a?"} {
		if isNull(s) {
			t.Errorf("isNull(%q) = true, want false", s)
		}
	}
}

func TestTimeValue(t *testing.T) {
	want := time.Date(2013, 4, 2, 13, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"rfc3339", "2013-04-02T13:30:00Z"},
		{"offset", "2013-04-02T15:30:00+02:00"},
		{"space", "2013-04-02 13:30:00"},
		{"int64", int64(want.Unix())},
		{"float64", float64(want.Unix())},
		{"time", want.In(time.FixedZone("X", 3600))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeValue(tt.in)
			if err != nil {
				t.Fatalf("timeValue(%v): %v", tt.in, err)
			}
			if !got.Equal(want) {
				t.Errorf("timeValue(%v) = %v, want %v", tt.in, got, want)
			}
			if got.Location() != time.UTC {
				t.Errorf("timeValue(%v) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}

	if _, err := timeValue(nil); err == nil {
		t.Error("timeValue(nil) should fail")
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
