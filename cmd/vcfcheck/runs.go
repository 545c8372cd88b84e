package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/vcfcheck/internal/store"
)

func (a *app) newRunsCmd() *cobra.Command {
	var limit int
	var verbose bool
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded validation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Database == "" {
				return fmt.Errorf("--db is required")
			}

			db, err := store.Open(a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			for _, run := range runs {
				status := "valid"
				if !run.Valid {
					status = "invalid"
				}
				fmt.Fprintf(a.stdout, "%s  %s  %-7s  %6d lines  %6d records  %4d errors  %4d warnings  %s\n",
					run.ID, run.Started.Local().Format("2006-01-02 15:04:05"), status,
					run.Lines, run.Records, run.Errors, run.Warnings, run.Source)
				if !verbose {
					continue
				}

				diags, err := db.Diagnostics(cmd.Context(), run.ID, run.Seq)
				if err != nil {
					return err
				}
				for _, d := range diags {
					fmt.Fprintf(a.stdout, "    %d:%d: %s %s: %s\n", d.Line, d.Col, d.Category, d.Severity, d.Message)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.flags.database, "db", "", "SQLite database file written by validate --db")
	f.IntVar(&limit, "limit", 20, "maximum number of runs to list, 0 means no limit")
	f.BoolVarP(&verbose, "verbose", "v", false, "list diagnostics of every run")
	return cmd
}
