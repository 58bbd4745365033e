package verify

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteViolations writes the kept violations as an aligned table.
func (r *Report) WriteViolations(w io.Writer) error {
	if len(r.Violations) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "Line\tPos\tProblem"); err != nil {
		return err
	}
	for _, v := range r.Violations {
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%s\n", v.Line, v.Pos, v.Message); err != nil {
			return err
		}
	}
	if dropped := r.TotalViolations - int64(len(r.Violations)); dropped > 0 {
		if _, err := fmt.Fprintf(tw, "...\t\t%d more\n", dropped); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteSummary writes a summary of the check results.
func (r *Report) WriteSummary(w io.Writer) {
	sharedRate := float64(0)
	outside := r.Markers - r.IBDMarkers
	if outside > 0 {
		sharedRate = float64(r.SharedFirst-r.SharedInIBD) / float64(outside) * 100
	}
	status := "OK"
	if !r.OK() {
		status = "FAILED"
	}

	fmt.Fprintf(w, "\nCheck Summary:\n")
	fmt.Fprintf(w, "  IBD segment:        %d-%d (%dbp)\n", r.Interval.Start, r.Interval.Stop, r.Interval.Size)
	fmt.Fprintf(w, "  Markers:            %d (step %d)\n", r.Markers, r.Step)
	fmt.Fprintf(w, "  Markers in segment: %d\n", r.IBDMarkers)
	fmt.Fprintf(w, "  Shared in segment:  %d\n", r.SharedInIBD)
	fmt.Fprintf(w, "  Shared by chance:   %.1f%% of markers outside\n", sharedRate)
	fmt.Fprintf(w, "  AF mean (sd):       %.4f (%.4f)\n", r.FreqMean, r.FreqStdDev)
	fmt.Fprintf(w, "  Violations:         %d\n", r.TotalViolations)
	fmt.Fprintf(w, "  Status:             %s\n", status)
}
