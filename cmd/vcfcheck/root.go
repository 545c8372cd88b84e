package main

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ava12/vcfcheck/internal/config"
	"github.com/ava12/vcfcheck/internal/ctxlog"
)

type flagValues struct {
	configFile    string
	logLevel      string
	logFormat     string
	checkEvidence bool
	checkContigs  bool
	chunkSize     int
	format        string
	maxErrors     int
	metricsFile   string
	database      string
	color         string
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  flagValues
	cfg    config.Config
	runID  string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "vcfcheck",
		Short: "VCF v4.1 validator",
		Long: `vcfcheck validates Variant Call Format v4.1 files.

Every malformed line is reported with its line number, identifiers used
in records are checked against meta-information declarations.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (.toml, .yaml, .yml or .hcl)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(a.newValidateCmd(), a.newRunsCmd())
	return root
}

// setup loads configuration, applies explicitly set flags and puts the logger into command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.flags.configFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = a.flags.logFormat
	}
	if f.Changed("check-evidence") {
		cfg.CheckEvidence = a.flags.checkEvidence
	}
	if f.Changed("check-contigs") {
		cfg.CheckContigs = a.flags.checkContigs
	}
	if f.Changed("chunk-size") {
		cfg.ChunkSize = a.flags.chunkSize
	}
	if f.Changed("format") {
		cfg.Format = a.flags.format
	}
	if f.Changed("max-errors") {
		cfg.MaxErrors = a.flags.maxErrors
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = a.flags.metricsFile
	}
	if f.Changed("db") {
		cfg.Database = a.flags.database
	}
	if f.Changed("color") {
		cfg.Color = a.flags.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := ctxlog.New(a.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	logger = logger.With(slog.String("run_id", a.runID))
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	logger.Debug("configuration loaded",
		slog.String("config", a.flags.configFile),
		slog.String("format", cfg.Format),
		slog.Int("chunk_size", cfg.ChunkSize))
	return nil
}
