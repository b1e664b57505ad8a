// Package cli implements the casetree command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/casetree/pkg/buildinfo"
	"github.com/matzehuels/casetree/pkg/config"
	"github.com/matzehuels/casetree/pkg/observability"
	"github.com/matzehuels/casetree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "casetree"

	// flagConfig names the config file flag shared by every command.
	flagConfig = "config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Casetree plots outbreak transmission chains",
		Long: `Casetree reads a table of infection cases, links each case to the case
that infected it and draws the resulting transmission clusters against
calendar time, one generation per row.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use and routes stage
// timings to the debug log.
func (c *CLI) newRunner() *pipeline.Runner {
	observability.SetPipelineHooks(&logHooks{logger: c.Logger})
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Config Helpers
// =============================================================================

// loadConfig merges defaults, casetree.toml, CASETREE_* variables and the
// changed flags of cmd. A positional argument replaces the configured input.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.Load(cmd.Flags(), path)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	return cfg, nil
}

// addInputFlags registers the flags that select and interpret the case table.
func addInputFlags(cmd *cobra.Command) {
	d := config.Defaults()
	f := cmd.Flags()
	f.String(flagConfig, "", "config file (default "+config.DefaultFile+" if present)")
	f.String(config.KeyInputFormat, "", "input format: csv, tsv, json, sqlite (default: by extension)")
	f.String(config.KeyTable, d[config.KeyTable].(string), "table to read from SQLite input")
	f.String(config.KeyCaseCol, d[config.KeyCaseCol].(string), "column holding the case id")
	f.String(config.KeyTimeCol, d[config.KeyTimeCol].(string), "column holding the case date")
	f.String(config.KeySourceCol, d[config.KeySourceCol].(string), "column holding the infecting case id")
	f.String(config.KeyAttrCol, d[config.KeyAttrCol].(string), "column holding the colour attribute")
	f.String(config.KeyDangling, d[config.KeyDangling].(string), "unknown sources: reject or root")
	f.Bool(config.KeyExcludeIsolated, false, "drop index cases that infected nobody")
	f.Uint64(config.KeySeed, pipeline.DefaultSeed, "seed for jitter and random palettes")
	f.String(config.KeyPalette, d[config.KeyPalette].(string), "palette mode: sorted or random")
}
