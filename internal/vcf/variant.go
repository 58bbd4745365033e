// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom   string                 // Chromosome name (e.g., "1", "chr1")
	Pos     int64                  // 1-based genomic position
	ID      string                 // Variant identifier
	Ref     string                 // Reference allele
	Alt     string                 // Alternate allele(s)
	Qual    float64                // Quality score
	Filter  string                 // Filter status (PASS or filter name)
	Info    map[string]interface{} // INFO field key-value pairs
	RawInfo string                 // INFO column as written
	Format  string                 // FORMAT column, empty if absent
	Samples []string               // per-sample columns in header order
}

// InfoString returns the raw value of an INFO key and whether it was present.
func (v *Variant) InfoString(key string) (string, bool) {
	val, ok := v.Info[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// InfoFloat parses an INFO value as a float.
func (v *Variant) InfoFloat(key string) (float64, error) {
	s, ok := v.InfoString(key)
	if !ok {
		return 0, fmt.Errorf("INFO field %s missing", key)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("INFO field %s: %w", key, err)
	}
	return f, nil
}

// InfoInt parses an INFO value as an integer.
func (v *Variant) InfoInt(key string) (int64, error) {
	s, ok := v.InfoString(key)
	if !ok {
		return 0, fmt.Errorf("INFO field %s missing", key)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("INFO field %s: %w", key, err)
	}
	return n, nil
}

// Genotype returns the parsed GT value of the i-th sample.
func (v *Variant) Genotype(i int) (Genotype, error) {
	if i < 0 || i >= len(v.Samples) {
		return Genotype{}, fmt.Errorf("sample index %d out of range (%d samples)", i, len(v.Samples))
	}
	if v.Format != "GT" && !strings.HasPrefix(v.Format, "GT:") {
		return Genotype{}, fmt.Errorf("FORMAT %q does not start with GT", v.Format)
	}
	gt := v.Samples[i]
	if idx := strings.IndexByte(gt, ':'); idx >= 0 {
		gt = gt[:idx]
	}
	return ParseGenotype(gt)
}

// Genotype is a diploid genotype call.
type Genotype struct {
	First  int
	Second int
	Phased bool
}

// ParseGenotype parses a diploid GT value such as "0|1" or "1/1".
// Missing calls are rejected.
func ParseGenotype(s string) (Genotype, error) {
	sep := strings.IndexAny(s, "|/")
	if sep < 0 {
		return Genotype{}, fmt.Errorf("genotype %q is not diploid", s)
	}
	first, err := strconv.Atoi(s[:sep])
	if err != nil || first < 0 {
		return Genotype{}, fmt.Errorf("genotype %q: invalid allele %q", s, s[:sep])
	}
	second, err := strconv.Atoi(s[sep+1:])
	if err != nil || second < 0 {
		return Genotype{}, fmt.Errorf("genotype %q: invalid allele %q", s, s[sep+1:])
	}
	return Genotype{First: first, Second: second, Phased: s[sep] == '|'}, nil
}

// String formats the genotype in VCF notation.
func (g Genotype) String() string {
	sep := "/"
	if g.Phased {
		sep = "|"
	}
	return strconv.Itoa(g.First) + sep + strconv.Itoa(g.Second)
}
