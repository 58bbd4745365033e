// Package output writes simulated markers as VCF text.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jameshicks/adios/internal/simulate"
)

// Fixed record fields shared by every simulated marker.
const (
	Chrom   = "1"
	Ref     = "A"
	Alt     = "G"
	Qual    = "255"
	Filter  = "PASS"
	Format  = "GT"
	SampleA = "DUMMY_A"
	SampleB = "DUMMY_B"
)

// Columns is the column header of the output, without the leading '#'.
var Columns = []string{
	"CHROM",
	"POS",
	"ID",
	"REF",
	"ALT",
	"QUAL",
	"FILTER",
	"INFO",
	"FORMAT",
	SampleA,
	SampleB,
}

// VCFWriter writes a simulation header followed by one line per marker.
type VCFWriter struct {
	w     *bufio.Writer
	lines int64
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer) *VCFWriter {
	return &VCFWriter{w: bufio.NewWriter(w)}
}

// HeaderLines returns the metadata and column header lines for a run.
func HeaderLines(ibd simulate.Interval, source string) []string {
	return []string{
		"##fileformat=VCF4.1",
		"##kind=simulation",
		"##source=" + source,
		fmt.Sprintf("##ibd=<Ind1=A,Ind2=B,Chr=%s,start=%d,stop=%d,size=%d>", Chrom, ibd.Start, ibd.Stop, ibd.Size),
		`##INFO=<ID=AF,Number=.,Type=Float,Description="Allele MAF">`,
		"#" + strings.Join(Columns, "\t"),
	}
}

// WriteHeader writes the header block.
func (vw *VCFWriter) WriteHeader(ibd simulate.Interval, source string) error {
	for _, line := range HeaderLines(ibd, source) {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes a single marker line.
func (vw *VCFWriter) Write(m *simulate.Marker) error {
	var lb strings.Builder
	lb.Grow(96)

	lb.WriteString(Chrom)
	lb.WriteByte('\t')
	lb.WriteString(strconv.FormatInt(m.Pos, 10))
	lb.WriteByte('\t')
	lb.WriteString("sim")
	lb.WriteString(strconv.FormatInt(m.Index, 10))
	lb.WriteByte('\t')
	lb.WriteString(Ref)
	lb.WriteByte('\t')
	lb.WriteString(Alt)
	lb.WriteByte('\t')
	lb.WriteString(Qual)
	lb.WriteByte('\t')
	lb.WriteString(Filter)
	lb.WriteByte('\t')
	lb.WriteString(FormatInfo(m.Freq, m.InIBD))
	lb.WriteByte('\t')
	lb.WriteString(Format)
	lb.WriteByte('\t')
	lb.WriteString(m.A.String())
	lb.WriteByte('\t')
	lb.WriteString(m.B.String())
	lb.WriteByte('\n')

	if _, err := vw.w.WriteString(lb.String()); err != nil {
		return err
	}
	vw.lines++
	return nil
}

// Lines returns the number of marker lines written so far.
func (vw *VCFWriter) Lines() int64 {
	return vw.lines
}

// Close writes the trailing empty line and flushes buffered output. It does
// not close the underlying writer.
func (vw *VCFWriter) Close() error {
	if err := vw.w.WriteByte('\n'); err != nil {
		return err
	}
	return vw.w.Flush()
}

// FormatInfo renders the INFO column for a marker, e.g. "AF=0.0123;IBD=1".
func FormatInfo(freq float64, inIBD bool) string {
	ibd := "0"
	if inIBD {
		ibd = "1"
	}
	return "AF=" + strconv.FormatFloat(freq, 'f', 4, 64) + ";IBD=" + ibd
}

// CreateFile creates or truncates the output file at path.
func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}
