// Package verify checks that a simulated pair VCF encodes its IBD segment
// consistently.
package verify

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/jameshicks/adios/internal/output"
	"github.com/jameshicks/adios/internal/simulate"
	"github.com/jameshicks/adios/internal/vcf"
)

// DefaultMaxViolations bounds how many violations a Report keeps.
const DefaultMaxViolations = 50

// Violation describes one record that breaks an expected property.
type Violation struct {
	Line    int
	Pos     int64
	Message string
}

// Report summarizes a checked file.
type Report struct {
	Interval    simulate.Interval
	Source      string
	Step        int64
	Markers     int64
	IBDMarkers  int64
	SharedFirst int64 // markers whose first alleles agree, inside or outside the segment
	SharedInIBD int64
	FreqMean    float64
	FreqStdDev  float64

	Violations      []Violation
	TotalViolations int64
}

// OK reports whether no violations were found.
func (r *Report) OK() bool {
	return r.TotalViolations == 0
}

// Checker validates simulated VCF files.
type Checker struct {
	maxViolations int
	logger        *zap.Logger
}

// NewChecker creates a checker that keeps DefaultMaxViolations violations.
func NewChecker() *Checker {
	return &Checker{
		maxViolations: DefaultMaxViolations,
		logger:        zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (c *Checker) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetMaxViolations limits the number of violations kept in the report.
// Violations past the limit are still counted.
func (c *Checker) SetMaxViolations(n int) {
	c.maxViolations = n
}

// Check reads every record from p. Header problems and unparseable records
// are returned as errors; records that parse but break the simulation's
// invariants are collected in the report.
func (c *Checker) Check(p vcf.HeaderParser) (*Report, error) {
	r := &Report{}
	if err := c.checkHeader(p, r); err != nil {
		return nil, err
	}

	var (
		freqs []float64
		prev  int64
	)
	for {
		v, err := p.Next()
		if err != nil {
			return nil, fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}

		line := p.LineNumber()
		fail := func(format string, args ...interface{}) {
			c.addViolation(r, Violation{Line: line, Pos: v.Pos, Message: fmt.Sprintf(format, args...)})
		}

		switch {
		case r.Markers == 0:
			if v.Pos != 1 {
				fail("first position is %d, expected 1", v.Pos)
			}
		case r.Markers == 1:
			r.Step = v.Pos - prev
			if r.Step <= 0 {
				fail("position %d does not follow %d", v.Pos, prev)
			}
		default:
			if v.Pos-prev != r.Step {
				fail("position step %d differs from %d", v.Pos-prev, r.Step)
			}
		}
		prev = v.Pos

		if want := "sim" + strconv.FormatInt(r.Markers, 10); v.ID != want {
			fail("ID %s, expected %s", v.ID, want)
		}
		if v.Chrom != output.Chrom {
			fail("chromosome %s, expected %s", v.Chrom, output.Chrom)
		}
		r.Markers++

		inIBD := r.Interval.Contains(v.Pos)
		if inIBD {
			r.IBDMarkers++
		}

		flag, err := v.InfoInt("IBD")
		switch {
		case err != nil:
			fail("%v", err)
		case flag != 0 && flag != 1:
			fail("IBD flag %d is not 0 or 1", flag)
		case (flag == 1) != inIBD:
			fail("IBD flag %d disagrees with segment (%d, %d)", flag, r.Interval.Start, r.Interval.Stop)
		}

		if af, err := v.InfoFloat("AF"); err != nil {
			fail("%v", err)
		} else if af < 0 {
			fail("negative allele frequency %v", af)
		} else {
			freqs = append(freqs, af)
		}

		a, errA := v.Genotype(0)
		b, errB := v.Genotype(1)
		if errA != nil || errB != nil {
			fail("bad genotypes: %v", firstErr(errA, errB))
			continue
		}
		if !a.Phased || !b.Phased {
			fail("genotypes %s %s are not phased", a, b)
		}
		if a.First > 1 || a.Second > 1 || b.First > 1 || b.Second > 1 {
			fail("genotypes %s %s are not biallelic", a, b)
		}
		if a.First == b.First {
			r.SharedFirst++
			if inIBD {
				r.SharedInIBD++
			}
		} else if inIBD {
			fail("first alleles %d and %d differ inside the IBD segment", a.First, b.First)
		}
	}

	switch len(freqs) {
	case 0:
	case 1:
		r.FreqMean = freqs[0]
	default:
		r.FreqMean, r.FreqStdDev = stat.MeanStdDev(freqs, nil)
	}

	c.logger.Debug("check complete",
		zap.Int64("markers", r.Markers),
		zap.Int64("ibd_markers", r.IBDMarkers),
		zap.Int64("violations", r.TotalViolations))

	return r, nil
}

// checkHeader verifies the fixed header lines and recovers the IBD segment.
func (c *Checker) checkHeader(p vcf.HeaderParser, r *Report) error {
	if kind, _ := p.HeaderValue("kind"); kind != "simulation" {
		return fmt.Errorf("not a simulation file: ##kind=%q", kind)
	}
	r.Source, _ = p.HeaderValue("source")

	raw, ok := p.HeaderValue("ibd")
	if !ok {
		return fmt.Errorf("missing ##ibd header")
	}
	iv, err := ParseIBDHeader(raw)
	if err != nil {
		return err
	}
	r.Interval = iv

	header := p.Header()
	want := "#" + strings.Join(output.Columns, "\t")
	if got := header[len(header)-1]; got != want {
		return fmt.Errorf("column header %q, expected %q", got, want)
	}
	return nil
}

func (c *Checker) addViolation(r *Report, v Violation) {
	r.TotalViolations++
	if len(r.Violations) < c.maxViolations {
		r.Violations = append(r.Violations, v)
	}
	c.logger.Debug("violation",
		zap.Int("line", v.Line),
		zap.Int64("pos", v.Pos),
		zap.String("message", v.Message))
}

// ParseIBDHeader parses the value of a ##ibd header line, e.g.
// "<Ind1=A,Ind2=B,Chr=1,start=250,stop=20000250,size=20000000>".
func ParseIBDHeader(value string) (simulate.Interval, error) {
	fields, err := vcf.ParseStructured(value)
	if err != nil {
		return simulate.Interval{}, fmt.Errorf("parse ##ibd header: %w", err)
	}

	var iv simulate.Interval
	for _, f := range []struct {
		key string
		dst *int64
	}{
		{"start", &iv.Start},
		{"stop", &iv.Stop},
		{"size", &iv.Size},
	} {
		s, ok := fields[f.key]
		if !ok {
			return simulate.Interval{}, fmt.Errorf("##ibd header missing %s", f.key)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return simulate.Interval{}, fmt.Errorf("##ibd header %s: %w", f.key, err)
		}
		*f.dst = n
	}

	if iv.Stop-iv.Start != iv.Size {
		return simulate.Interval{}, fmt.Errorf("##ibd header size %d does not match %d-%d", iv.Size, iv.Start, iv.Stop)
	}
	return iv, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
