package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jameshicks/adios/internal/verify"
)

// errCheckFailed is returned when a checked file has violations.
var errCheckFailed = errors.New("check failed")

func (a *app) newCheckCmd() *cobra.Command {
	var (
		maxViolations int
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "check <file.vcf>...",
		Short: "Verify that simulated VCFs encode their IBD segment",
		Long: `Read files written by gen-ibd-vcf and verify that markers are evenly
spaced from position 1, that the IBD flag matches the ##ibd segment, and
that both samples share their first allele at every marker inside it.
Several files are checked concurrently. Use '-' to read from stdin.`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(args, maxViolations, workers)
		},
	}
	cmd.Flags().IntVar(&maxViolations, "max-violations", verify.DefaultMaxViolations, "Maximum number of violations to list per file")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Number of files checked at once (0 = all CPUs)")

	return cmd
}

func (a *app) runCheck(paths []string, maxViolations, workers int) error {
	stdin := 0
	for _, p := range paths {
		if p == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return &flagError{err: errors.New("stdin ('-') can only be checked once")}
	}

	c := verify.NewChecker()
	c.SetLogger(a.logger)
	c.SetMaxViolations(maxViolations)

	var failed []string
	err := verify.OrderedCollect(c.CheckFiles(paths, workers), func(r verify.FileResult) error {
		if r.Err != nil {
			return r.Err
		}
		if len(paths) > 1 {
			fmt.Fprintf(a.stdout, "==> %s <==\n", r.Path)
		}
		if err := r.Report.WriteViolations(a.stdout); err != nil {
			return err
		}
		r.Report.WriteSummary(a.stdout)
		if !r.Report.OK() {
			failed = append(failed, fmt.Sprintf("%s: %d violations", r.Path, r.Report.TotalViolations))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(failed, ", "), errCheckFailed)
	}
	return nil
}
