package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jameshicks/adios/internal/duckdb"
)

func (a *app) newRunsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List simulation runs recorded in a marker catalog",
		Example: `  gen-ibd-vcf --db runs.duckdb --size 60mb
  gen-ibd-vcf runs --db runs.duckdb`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.v.GetString("db")
			}
			if dbPath == "" {
				return &flagError{err: errors.New("--db is required")}
			}
			return a.runRuns(dbPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB marker catalog (default: db from config)")

	return cmd
}

func (a *app) runRuns(dbPath string) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open marker catalog: %w", err)
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		return err
	}
	a.logger.Debug("listing runs", zap.String("db", dbPath), zap.Int("runs", len(runs)))

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Run\tSeed\tSize\tDist\tLambd\tIBD\tMarkers\tShared\tOutput")
	for _, r := range runs {
		sum, err := store.Summarize(r.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%g\t%d-%d\t%d\t%d/%d\t%s\n",
			r.ID, r.Seed, r.Size, r.Dist, r.Lambda,
			r.Interval.Start, r.Interval.Stop,
			sum.Markers, sum.SharedInIBD, sum.IBDMarkers, r.OutPath)
	}
	return tw.Flush()
}
