package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/observability"
)

const casesCSV = `case_id,time,source_node,color
1,2013-04-02,,fatal
2,2013-04-09,1,mild
3,2013-04-09,1,mild
4,2013-04-20,2,fatal
5,2013-05-01,,asymptomatic
`

func writeCases(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write cases: %v", err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"pdf", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"chart", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsExplicitZeroSeed(t *testing.T) {
	opts := Options{Seed: 0, SeedSet: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Seed != 0 {
		t.Errorf("Seed = %d, want explicit 0 kept", opts.Seed)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Input != DefaultInput {
		t.Errorf("Input = %s, want %s", opts.Input, DefaultInput)
	}
	if opts.Columns.Case != "case_id" {
		t.Errorf("Columns.Case = %s, want case_id", opts.Columns.Case)
	}
	if opts.VizType != DefaultVizType {
		t.Errorf("VizType = %s, want %s", opts.VizType, DefaultVizType)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Title != DefaultTitle || opts.YLabel != DefaultYLabel {
		t.Errorf("Title/YLabel = %q/%q", opts.Title, opts.YLabel)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Second call should be idempotent
	opts.Title = "custom"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Title != "custom" {
		t.Error("Title changed on second call")
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"bad dangling", Options{Dangling: "drop"}, apperrors.ErrCodeInvalidOption},
		{"bad palette", Options{Palette: "rainbow"}, apperrors.ErrCodeInvalidOption},
		{"bad viz", Options{VizType: "tower"}, apperrors.ErrCodeInvalidOption},
		{"bad format", Options{Formats: []string{"pdf"}}, apperrors.ErrCodeInvalidFormat},
		{"bad table", Options{Table: "cases; drop"}, apperrors.ErrCodeInvalidOption},
		{"negative width", Options{Width: -1}, apperrors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !apperrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsIsNodelink(t *testing.T) {
	opts := Options{}
	if opts.IsNodelink() {
		t.Error("Empty VizType should not be nodelink")
	}

	opts.VizType = "nodelink"
	if !opts.IsNodelink() {
		t.Error("nodelink VizType should be nodelink")
	}
}

func TestRunnerExecute(t *testing.T) {
	opts := Options{
		Input:   writeCases(t, casesCSV),
		Formats: []string{FormatPNG, FormatSVG, FormatJSON, FormatDOT},
	}

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	s := result.Stats
	if s.RecordCount != 5 || s.NodeCount != 5 || s.EdgeCount != 3 {
		t.Errorf("Stats = %+v, want 5 records, 5 nodes, 3 edges", s)
	}
	if s.ClusterCount != 2 {
		t.Errorf("ClusterCount = %d, want 2", s.ClusterCount)
	}
	if s.MaxGeneration != 2 {
		t.Errorf("MaxGeneration = %d, want 2", s.MaxGeneration)
	}

	if !bytes.HasPrefix(result.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !bytes.Contains(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact has no <svg> element")
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph G {") {
		t.Error("dot artifact is not a digraph")
	}

	var doc struct {
		Seed  uint64            `json:"seed"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.Seed != DefaultSeed || len(doc.Nodes) != 5 {
		t.Errorf("json artifact seed=%d nodes=%d, want %d and 5", doc.Seed, len(doc.Nodes), DefaultSeed)
	}
}

func TestRunnerExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		opts Options
		code apperrors.Code
	}{
		{
			name: "header only",
			csv:  "case_id,time,source_node,color\n",
			code: apperrors.ErrCodeNoData,
		},
		{
			name: "header only dot",
			csv:  "case_id,time,source_node,color\n",
			opts: Options{Formats: []string{FormatDOT}},
			code: apperrors.ErrCodeNoData,
		},
		{
			name: "header only nodelink svg",
			csv:  "case_id,time,source_node,color\n",
			opts: Options{VizType: VizTypeNodelink, Formats: []string{FormatSVG}},
			code: apperrors.ErrCodeNoData,
		},
		{
			name: "header only nodelink png",
			csv:  "case_id,time,source_node,color\n",
			opts: Options{VizType: VizTypeNodelink, Formats: []string{FormatPNG}},
			code: apperrors.ErrCodeNoData,
		},
		{
			name: "all cases isolated",
			csv:  "case_id,time,source_node,color\n1,2013-04-02,,fatal\n",
			opts: Options{ExcludeIsolated: true, Formats: []string{FormatDOT}},
			code: apperrors.ErrCodeNoData,
		},
		{
			name: "missing column",
			csv:  "case_id,time,color\n1,2013-04-02,fatal\n",
			code: apperrors.ErrCodeInvalidSchema,
		},
		{
			name: "dangling source",
			csv:  "case_id,time,source_node,color\n1,2013-04-02,9,fatal\n",
			code: apperrors.ErrCodeDanglingSource,
		},
		{
			name: "duplicate case",
			csv:  "case_id,time,source_node,color\n1,2013-04-02,,fatal\n1,2013-04-03,,mild\n",
			code: apperrors.ErrCodeDuplicateCase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.Input = writeCases(t, tt.csv)
			_, err := NewRunner(nil).Execute(context.Background(), opts)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunnerExecute_DanglingRoot(t *testing.T) {
	opts := Options{
		Input:    writeCases(t, "case_id,time,source_node,color\n1,2013-04-02,9,fatal\n"),
		Dangling: "root",
		Formats:  []string{FormatJSON},
	}
	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.NodeCount != 2 || result.Stats.EdgeCount != 1 {
		t.Errorf("Stats = %+v, want 2 nodes, 1 edge", result.Stats)
	}
	if result.Stats.InferredRoots != 1 {
		t.Errorf("InferredRoots = %d, want 1", result.Stats.InferredRoots)
	}
}

func TestRunnerExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil).Execute(ctx, Options{Input: writeCases(t, casesCSV)})
	if err == nil {
		t.Fatal("Execute() with cancelled context should fail")
	}
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	opts := Options{Input: writeCases(t, casesCSV), Formats: []string{FormatDOT}}
	if _, err := NewRunner(nil).Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"load", "loaded", "build", "built", "layout", "laid out", "render", "rendered"}
	if got := strings.Join(hooks.events, ","); got != strings.Join(want, ",") {
		t.Errorf("hook events = %s, want %s", got, strings.Join(want, ","))
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.events = append(h.events, "load") }
func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, _ int, _ time.Duration, _ error) {
	h.events = append(h.events, "loaded")
}
func (h *recordingHooks) OnBuildStart(context.Context, int) { h.events = append(h.events, "build") }
func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {
	h.events = append(h.events, "built")
}
func (h *recordingHooks) OnLayoutStart(context.Context, int) { h.events = append(h.events, "layout") }
func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.events = append(h.events, "laid out")
}
func (h *recordingHooks) OnRenderStart(context.Context, string, []string) {
	h.events = append(h.events, "render")
}
func (h *recordingHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {
	h.events = append(h.events, "rendered")
}
