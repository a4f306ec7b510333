// Package cli implements the gwen2d command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/gwen2d/internal/paths"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// sysErrors are failures of the environment rather than of the request.
var sysErrors = []error{
	types.ErrStoreConnection,
	types.ErrSchemaCreation,
}

// app holds global flag values and the per-invocation state built from them.
type app struct {
	configDir string
	project   string
	verbose   bool
	metrics   bool

	cfg    *viper.Viper
	logger *slog.Logger
	reg    *prometheus.Registry
}

// NewRootCmd creates the top-level "gwen2d" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gwen2d",
		Short: "Manage 2D game content projects",
		Long: "gwen2d edits the content of a 2D game project: entity categories,\n" +
			"entities, their animation states and frames. Each project is a single\n" +
			"SQLite database file.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVarP(&a.project, "project", "p", "", "project name or database path (default: config project)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "print store metrics to stderr after the command")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newNewCmd())
	root.AddCommand(a.newCategoryCmd())
	root.AddCommand(a.newEntityCmd())
	root.AddCommand(a.newStateCmd())
	root.AddCommand(a.newFrameCmd())
	root.AddCommand(a.newShowCmd())
	root.AddCommand(a.newBackupCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gwen2d:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

func exitCode(err error) int {
	for _, target := range sysErrors {
		if errors.Is(err, target) {
			return exitSysError
		}
	}
	return exitUserError
}

// setup loads configuration and builds the logger and metrics registry.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.GetString(cfgKeyLogLevel))); err != nil {
		return fmt.Errorf("invalid %s: %w", cfgKeyLogLevel, err)
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.reg = prometheus.NewRegistry()

	a.logger.Debug("configuration loaded", "config_dir", configDir)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if !a.metrics || a.reg == nil {
		return nil
	}
	return writeMetrics(cmd.ErrOrStderr(), a.reg)
}

// writeMetrics dumps every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
