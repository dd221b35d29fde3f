// Package main provides the CLI entrypoint for mapmerge.
//
// mapmerge merges JVM name mappings and completes them against a class
// hierarchy:
//   - generate-mappings: vanilla mappings plus parameter names
//   - generate-spigot-mappings: Spigot names chained to deobf names
//   - cleanup-mappings, cleanup-source-mappings: hierarchy completion
//   - generate-reobf-mappings: deobf back to Spigot names
//   - convert, reverse: format conversion
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mapmerge/internal/config"
	"mapmerge/internal/diagnostic"
	"mapmerge/internal/pipeline"
)

// app holds the global flags and the state built from them before a
// subcommand runs.
type app struct {
	configPath  string
	verbose     bool
	report      string
	parallelism int

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mapmerge",
		Short: "Merge and complete JVM name mappings",
		Long: `mapmerge merges Proguard, CSRG and Tiny v2 mapping files, completes the
result against a class hierarchy and writes the mapping sets a server build
needs.

Configuration is read from --config (YAML, or TOML for .toml files), then
from MAPMERGE_* environment variables. A .env file in the working directory
is loaded first.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.report, "report", "", "write the run report to this file")
	root.PersistentFlags().IntVarP(&a.parallelism, "parallelism", "j", 0, "classes processed at once (default from config)")

	root.AddCommand(
		a.generateMappingsCmd(),
		a.generateSpigotMappingsCmd(),
		a.cleanupCmd("cleanup-mappings", "Complete spigot -> deobf mappings against the hierarchy", false),
		a.cleanupCmd("cleanup-source-mappings", "Prepare spigot -> deobf mappings for remapping sources", true),
		a.generateReobfMappingsCmd(),
		a.convertCmd("convert", "Convert a mapping file to another format", false),
		a.convertCmd("reverse", "Swap the namespaces of a mapping file", true),
	)

	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.report != "" {
		cfg.Report = a.report
	}

	if a.parallelism > 0 {
		cfg.Parallelism = a.parallelism
	}

	a.cfg = cfg

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}

	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config", a.configPath),
		zap.Int("parallelism", cfg.Parallelism),
		zap.Bool("requireFullClasspath", cfg.RequireFullClasspath),
	)

	return nil
}

func (a *app) runner() *pipeline.Runner {
	return pipeline.New(a.cfg, a.logger)
}

// printReport writes a short summary of a finished run.
func printReport(w io.Writer, r *diagnostic.Report) {
	for _, st := range r.Stages {
		fmt.Fprintf(w, "%-28s %6d classes %7d fields %7d methods %7d params  %s\n",
			st.Name, st.Stats.Classes, st.Stats.Fields, st.Stats.Methods, st.Stats.Params, st.Fingerprint)
	}

	for _, out := range r.Outputs {
		fmt.Fprintf(w, "wrote %s\n", out)
	}

	if n := len(r.Warnings); n > 0 {
		fmt.Fprintf(w, "%d warning(s)\n", n)
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
