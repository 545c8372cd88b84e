package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ava12/vcfcheck/internal/config"
	"github.com/ava12/vcfcheck/internal/ctxlog"
	"github.com/ava12/vcfcheck/internal/metrics"
	"github.com/ava12/vcfcheck/internal/report"
	"github.com/ava12/vcfcheck/internal/store"
	"github.com/ava12/vcfcheck/source"
	"github.com/ava12/vcfcheck/validator"
)

var errInvalid = errors.New("some files are not valid")

func (a *app) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate VCF files",
		Long: `Validate VCF files, standard input is read if no file or "-" is given.
Exit code is 1 if any file is invalid or cannot be read.`,
		RunE: a.runValidate,
	}

	f := cmd.Flags()
	def := config.Default()
	f.BoolVar(&a.flags.checkEvidence, "check-evidence", def.CheckEvidence,
		"require genotypes, allele frequencies or allele counts")
	f.BoolVar(&a.flags.checkContigs, "check-contigs", def.CheckContigs,
		"require CHROM values to be declared by contig lines")
	f.IntVar(&a.flags.chunkSize, "chunk-size", def.ChunkSize, "input chunk size in bytes")
	f.StringVarP(&a.flags.format, "format", "f", def.Format, "output format: text, json or yaml")
	f.IntVar(&a.flags.maxErrors, "max-errors", def.MaxErrors, "maximum number of errors stored per file, 0 means no limit")
	f.StringVar(&a.flags.metricsFile, "metrics-file", def.MetricsFile, "write Prometheus metrics to file, - means stdout")
	f.StringVar(&a.flags.database, "db", def.Database, "record runs in SQLite database file")
	f.StringVar(&a.flags.color, "color", def.Color, "colored output: auto, always or never")
	return cmd
}

func (a *app) useColor() bool {
	switch a.cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if f, ok := a.stdout.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)
	if len(args) == 0 {
		args = []string{source.StdinName}
	}

	var db *store.Store
	if a.cfg.Database != "" {
		var err error
		if db, err = store.Open(a.cfg.Database); err != nil {
			return err
		}
		defer db.Close()
	}

	rec := metrics.NewRecorder()
	started := time.Now()
	results := make([]report.Result, 0, len(args))
	failed := false
	for seq, name := range args {
		result, err := a.validateFile(ctx, name, rec)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("validation failed", slog.String("source", name), slog.Any("error", err))
			rec.ObserveFailure()
			failed = true
			continue
		}

		results = append(results, result)
		failed = failed || !result.Valid
		if db != nil {
			if err := db.SaveResult(ctx, a.runID, seq, started, result); err != nil {
				return fmt.Errorf("saving run: %w", err)
			}
		}
	}

	if err := report.Write(a.stdout, results, a.cfg.Format, a.useColor()); err != nil {
		return err
	}
	if a.cfg.MetricsFile != "" {
		var err error
		if a.cfg.MetricsFile == "-" {
			err = rec.Write(a.stdout)
		} else {
			err = rec.WriteFile(a.cfg.MetricsFile)
		}
		if err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if failed {
		return errInvalid
	}
	return nil
}

func (a *app) openSource(name string) (*source.Source, error) {
	if name == source.StdinName {
		return source.New("stdin", a.stdin)
	}
	return source.Open(name)
}

func (a *app) validateFile(ctx context.Context, name string, rec *metrics.Recorder) (report.Result, error) {
	logger := ctxlog.FromContext(ctx).With(slog.String("source", name))
	src, err := a.openSource(name)
	if err != nil {
		return report.Result{}, err
	}
	defer src.Close()

	opts := []validator.Option{
		validator.WithSourceName(src.Name()),
		validator.WithCheckEvidence(a.cfg.CheckEvidence),
		validator.WithCheckContigs(a.cfg.CheckContigs),
		validator.WithMaxErrors(a.cfg.MaxErrors),
		validator.WithLogger(logger),
	}
	debug := logger.Enabled(ctx, slog.LevelDebug)
	tokens := &validator.TokenCounter{}
	if debug {
		opts = append(opts, validator.WithErrorPolicy(validator.LogPolicy(logger)), validator.WithParsePolicy(tokens))
	}

	s := validator.New(opts...)
	start := time.Now()
	n, err := src.Feed(ctx, s, a.cfg.ChunkSize)
	if err != nil {
		return report.Result{}, err
	}
	elapsed := time.Since(start)
	rec.ObserveSession(s, elapsed)

	logger.Info("file validated",
		slog.Int64("bytes", n),
		slog.Bool("valid", s.IsValid()),
		slog.Duration("elapsed", elapsed))
	if debug {
		logger.Debug("scan statistics", slog.Int("tokens", tokens.Tokens), slog.Int("records", s.Records()))
	}
	return report.FromSession(s), nil
}
