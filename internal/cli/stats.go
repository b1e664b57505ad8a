package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/casetree/pkg/config"
	"github.com/matzehuels/casetree/pkg/dag"
	"github.com/matzehuels/casetree/pkg/pipeline"
	"github.com/matzehuels/casetree/pkg/render/chart"
)

const dateFormat = "2006-01-02"

// statsCommand creates the stats command, which runs the pipeline up to
// layout and summarises the transmission forest without rendering.
func (c *CLI) statsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarise clusters, generations and attributes of a case table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return c.runStats(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	addInputFlags(cmd)
	return cmd
}

func (c *CLI) runStats(ctx context.Context, w io.Writer, cfg *config.Config) error {
	opts := cfg.PipelineOptions()
	opts.Logger = loggerFromContext(ctx)

	result, err := c.newRunner().Analyze(ctx, opts)
	if err != nil {
		return err
	}
	printSummary(w, cfg.Input, result)
	return nil
}

func printSummary(w io.Writer, input string, result *pipeline.Result) {
	g := result.Graph
	first, last := g.TimeRange()
	largest, size := largestCluster(g)

	printTitle(w, input)
	printCount(w, "cases", result.Stats.NodeCount)
	printCount(w, "links", result.Stats.EdgeCount)
	printCount(w, "clusters", result.Stats.ClusterCount)
	printCount(w, "generations", result.Stats.MaxGeneration)
	printKeyValue(w, "period", first.Format(dateFormat)+" to "+last.Format(dateFormat))
	if size > 0 {
		printKeyValue(w, "largest", fmt.Sprintf("%s (%d cases)", largest, size))
	}
	if synthetic := result.Stats.InferredRoots; synthetic > 0 {
		printWarning(w, "%d index cases were inferred from unknown sources", synthetic)
	}

	counts := make(map[string]int)
	for _, n := range g.Nodes() {
		counts[n.Attr]++
	}
	printNewline(w)
	printTitle(w, "legend")
	for _, e := range result.Colors.Legend() {
		label := e.Attr
		if label == "" {
			label = chart.UnknownLabel
		}
		printSwatch(w, e.Hex(), label, counts[e.Attr])
	}
	printNewline(w)
	printStats(w,
		fmt.Sprintf("load %s", result.Stats.LoadTime.Round(time.Microsecond)),
		fmt.Sprintf("build %s", result.Stats.BuildTime.Round(time.Microsecond)),
		fmt.Sprintf("layout %s", result.Stats.LayoutTime.Round(time.Microsecond)))
}

// largestCluster returns the index case with the most descendants.
// Ties go to the earlier root.
func largestCluster(g *dag.DAG) (string, int) {
	clusters := g.Clusters()
	var best string
	size := 0
	for _, root := range g.Roots() {
		if n := len(clusters[root.ID]); n > size {
			best, size = root.ID, n
		}
	}
	return best, size
}
