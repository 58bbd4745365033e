// Package simulate generates marker records for a pair of individuals that
// share one haplotype across a fixed identity-by-descent interval.
package simulate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults used when an option is not set.
const (
	DefaultSize   int64   = 150000000
	DefaultDist   int64   = 250
	DefaultLambda float64 = 0.05
	DefaultOut            = "IBD1_pair.vcf"
)

// sizeSuffixes maps the recognized length units to their base multiplier.
var sizeSuffixes = map[string]float64{
	"bp": 1,
	"kb": 1000,
	"mb": 1000000,
}

// Config holds the parameters of one simulation run.
type Config struct {
	Size   int64   // sequence length in bases
	Dist   int64   // spacing between markers in bases
	Lambda float64 // mean of the exponential allele frequency draw
	Out    string  // output VCF path
	Seed   uint64  // random seed (0 means pick one at startup)
	DBPath string  // optional DuckDB marker catalog
	Source string  // invoking command line, written to the header
}

// DefaultConfig returns a Config populated with the default parameters.
func DefaultConfig() Config {
	return Config{
		Size:   DefaultSize,
		Dist:   DefaultDist,
		Lambda: DefaultLambda,
		Out:    DefaultOut,
	}
}

// Validate reports a UsageError if any parameter is out of range.
func (c Config) Validate() error {
	if c.Size < 0 {
		return &UsageError{Option: "size", Value: strconv.FormatInt(c.Size, 10), Reason: "must not be negative"}
	}
	if c.Dist <= 0 {
		return &UsageError{Option: "dist", Value: strconv.FormatInt(c.Dist, 10), Reason: "must be positive"}
	}
	if c.Lambda <= 0 || math.IsInf(c.Lambda, 0) || math.IsNaN(c.Lambda) {
		return &UsageError{Option: "lambd", Value: strconv.FormatFloat(c.Lambda, 'g', -1, 64), Reason: "must be a positive number"}
	}
	if c.Out == "" {
		return &UsageError{Option: "out", Reason: "must not be empty"}
	}
	return nil
}

// ParseSize converts a sequence length expression into a base count.
// The expression is either a plain integer ("1000") or a number followed by
// one of the units bp, kb or mb ("42bp", "10kb", "1.5mb"). Suffixed values
// are truncated toward zero.
func ParseSize(expr string) (int64, error) {
	s := strings.TrimSpace(expr)
	if len(s) > 2 {
		if mult, ok := sizeSuffixes[s[len(s)-2:]]; ok {
			f, err := strconv.ParseFloat(s[:len(s)-2], 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, &UsageError{Option: "size", Value: expr, Reason: "invalid number before unit"}
			}
			n := math.Trunc(f * mult)
			if n < 0 {
				return 0, &UsageError{Option: "size", Value: expr, Reason: "must not be negative"}
			}
			if n >= math.MaxInt64 {
				return 0, &UsageError{Option: "size", Value: expr, Reason: "too large"}
			}
			return int64(n), nil
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &UsageError{Option: "size", Value: expr, Reason: "expected an integer or a number with a bp, kb or mb suffix"}
	}
	if n < 0 {
		return 0, &UsageError{Option: "size", Value: expr, Reason: "must not be negative"}
	}
	return n, nil
}

// UsageError reports an invalid option value.
type UsageError struct {
	Option string
	Value  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid --%s: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("invalid --%s %q: %s", e.Option, e.Value, e.Reason)
}
