package simulate

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Genotype is a phased pair of 0/1 allele calls.
type Genotype struct {
	First  uint8
	Second uint8
}

// String formats the genotype as a phased VCF GT value, e.g. "0|1".
func (g Genotype) String() string {
	return string([]byte{'0' + g.First, '|', '0' + g.Second})
}

// Marker is one simulated site.
type Marker struct {
	Index int64   // 0-based ordinal, used for the sim<N> identifier
	Pos   int64   // 1-based position
	Freq  float64 // allele frequency drawn for this site
	InIBD bool
	A     Genotype
	B     Genotype
}

// Generator produces markers in position order. It holds no reference to
// previously returned markers.
type Generator struct {
	size int64
	dist int64
	ibd  Interval

	freq distuv.Exponential
	src  rand.Source

	index int64
	pos   int64
	done  bool
}

// NewGenerator returns a generator over positions 1, 1+dist, ... below
// cfg.Size. All draws come from src, so two generators built with
// identically seeded sources yield identical markers.
func NewGenerator(cfg Config, ibd Interval, src rand.Source) *Generator {
	return &Generator{
		size: cfg.Size,
		dist: cfg.Dist,
		ibd:  ibd,
		freq: distuv.Exponential{Rate: 1 / cfg.Lambda, Src: src},
		src:  src,
		pos:  1,
	}
}

// NewSource returns the random source used for a run with the given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// Next returns the next marker, or nil once the sequence end is reached.
func (g *Generator) Next() *Marker {
	if g.done || g.pos >= g.size {
		return nil
	}

	m := &Marker{
		Index: g.index,
		Pos:   g.pos,
		Freq:  g.freq.Rand(),
		InIBD: g.ibd.Contains(g.pos),
	}

	allele := distuv.Bernoulli{P: clampProb(m.Freq), Src: g.src}
	if m.InIBD {
		shared := draw(allele)
		m.A = Genotype{First: shared, Second: draw(allele)}
		m.B = Genotype{First: shared, Second: draw(allele)}
	} else {
		m.A = Genotype{First: draw(allele), Second: draw(allele)}
		m.B = Genotype{First: draw(allele), Second: draw(allele)}
	}

	g.index++
	if g.dist > math.MaxInt64-g.pos {
		g.done = true
	} else {
		g.pos += g.dist
	}
	return m
}

// MarkerCount returns the number of markers a run will produce.
func MarkerCount(size, dist int64) int64 {
	if size <= 1 || dist <= 0 {
		return 0
	}
	return (size-2)/dist + 1
}

func draw(b distuv.Bernoulli) uint8 {
	if b.Rand() == 1 {
		return 1
	}
	return 0
}

// clampProb keeps exponential draws above 1 usable as a probability; such
// frequencies always produce the alternate allele.
func clampProb(p float64) float64 {
	if p > 1 {
		return 1
	}
	return p
}
