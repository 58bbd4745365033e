package simulate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(g *Generator) []*Marker {
	var markers []*Marker
	for m := g.Next(); m != nil; m = g.Next() {
		markers = append(markers, m)
	}
	return markers
}

func newTestGenerator(size, dist int64, lambda float64, seed uint64) *Generator {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.Dist = dist
	cfg.Lambda = lambda
	return NewGenerator(cfg, NewInterval(size), NewSource(seed))
}

func TestNewInterval(t *testing.T) {
	iv := NewInterval(150000000)
	assert.Equal(t, int64(37500000), iv.Start)
	assert.Equal(t, int64(57500000), iv.Stop)
	assert.Equal(t, int64(20000000), iv.Size)

	iv = NewInterval(1003)
	assert.Equal(t, int64(250), iv.Start)
	assert.Equal(t, int64(20000250), iv.Stop)
}

func TestInterval_Contains(t *testing.T) {
	iv := Interval{Start: 100, Stop: 200, Size: 100}

	assert.False(t, iv.Contains(99))
	assert.False(t, iv.Contains(100), "start is exclusive")
	assert.True(t, iv.Contains(101))
	assert.True(t, iv.Contains(199))
	assert.False(t, iv.Contains(200), "stop is exclusive")
	assert.False(t, iv.Contains(201))
}

func TestGenotype_String(t *testing.T) {
	assert.Equal(t, "0|0", Genotype{}.String())
	assert.Equal(t, "1|0", Genotype{First: 1}.String())
	assert.Equal(t, "0|1", Genotype{Second: 1}.String())
	assert.Equal(t, "1|1", Genotype{First: 1, Second: 1}.String())
}

func TestGenerator_SmallRun(t *testing.T) {
	markers := collect(newTestGenerator(1000, 250, 0.05, 1))
	require.Len(t, markers, 4)

	for i, want := range []int64{1, 251, 501, 751} {
		assert.Equal(t, want, markers[i].Pos)
		assert.Equal(t, int64(i), markers[i].Index)
	}

	// The segment starts at 250 and runs far past the sequence end.
	assert.False(t, markers[0].InIBD)
	for _, m := range markers[1:] {
		assert.True(t, m.InIBD)
		assert.Equal(t, m.A.First, m.B.First)
	}
}

func TestGenerator_StartIsExclusive(t *testing.T) {
	// A size of 4 puts the start at 1, which is exclusive.
	markers := collect(newTestGenerator(4, 1, 0.05, 1))
	require.Len(t, markers, 3)
	assert.False(t, markers[0].InIBD)
	assert.True(t, markers[1].InIBD)
	assert.True(t, markers[2].InIBD)
}

func TestGenerator_CountMatchesMarkerCount(t *testing.T) {
	tests := []struct {
		size, dist int64
	}{
		{0, 250},
		{1, 250},
		{2, 250},
		{250, 250},
		{251, 250},
		{252, 250},
		{1000, 250},
		{1001, 250},
		{1002, 250},
		{10000, 7},
		{12345, 1},
		{10, math.MaxInt64},
		{math.MaxInt64, math.MaxInt64},
		{math.MaxInt64, math.MaxInt64 / 2},
	}

	for _, tt := range tests {
		markers := collect(newTestGenerator(tt.size, tt.dist, 0.05, 7))
		assert.Equal(t, MarkerCount(tt.size, tt.dist), int64(len(markers)), "size=%d dist=%d", tt.size, tt.dist)

		var want int64
		for pos := int64(1); pos < tt.size; pos += tt.dist {
			want++
			if tt.dist > math.MaxInt64-pos {
				break
			}
		}
		assert.Equal(t, want, int64(len(markers)), "size=%d dist=%d", tt.size, tt.dist)
	}
}

func TestGenerator_PositionsStrictlyIncreasing(t *testing.T) {
	markers := collect(newTestGenerator(100000, 333, 0.05, 3))
	require.NotEmpty(t, markers)
	assert.Equal(t, int64(1), markers[0].Pos)
	for i := 1; i < len(markers); i++ {
		assert.Equal(t, markers[i-1].Pos+333, markers[i].Pos)
	}
}

func TestGenerator_IBDRegion(t *testing.T) {
	// 100mb puts the segment at (25,000,000, 45,000,000).
	const size = 100000000
	const dist = 10000
	iv := NewInterval(size)
	markers := collect(newTestGenerator(size, dist, 0.3, 11))
	require.Len(t, markers, int(MarkerCount(size, dist)))

	var inside, shared int
	for _, m := range markers {
		want := m.Pos > iv.Start && m.Pos < iv.Stop
		require.Equal(t, want, m.InIBD, "pos %d", m.Pos)
		if m.InIBD {
			inside++
			assert.Equal(t, m.A.First, m.B.First, "pos %d", m.Pos)
		}
		if m.A.First == m.B.First {
			shared++
		}
	}
	assert.Equal(t, 2000, inside)
	assert.Greater(t, shared, inside)

	// Boundary behaviour on an exact grid: 25,000,001 is the first inside.
	for _, m := range markers {
		switch m.Pos {
		case 24990001:
			assert.False(t, m.InIBD)
		case 25000001:
			assert.True(t, m.InIBD)
		case 44990001:
			assert.True(t, m.InIBD)
		case 45000001:
			assert.False(t, m.InIBD)
		}
	}
}

func TestGenerator_AllelesAreBinary(t *testing.T) {
	// A large lambda pushes many frequencies above 1.
	for _, m := range collect(newTestGenerator(50000, 10, 2.0, 5)) {
		assert.GreaterOrEqual(t, m.Freq, 0.0)
		for _, a := range []uint8{m.A.First, m.A.Second, m.B.First, m.B.Second} {
			assert.LessOrEqual(t, a, uint8(1))
		}
		if m.Freq >= 1 {
			assert.Equal(t, Genotype{First: 1, Second: 1}, m.A)
			assert.Equal(t, Genotype{First: 1, Second: 1}, m.B)
		}
	}
}

func TestGenerator_Reproducible(t *testing.T) {
	first := collect(newTestGenerator(200000, 250, 0.05, 42))
	second := collect(newTestGenerator(200000, 250, 0.05, 42))
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}

	other := collect(newTestGenerator(200000, 250, 0.05, 43))
	var differ bool
	for i := range first {
		if first[i].Freq != other[i].Freq {
			differ = true
			break
		}
	}
	assert.True(t, differ, "different seeds should give different frequencies")
}

func TestGenerator_MeanFrequency(t *testing.T) {
	markers := collect(newTestGenerator(1000000, 10, 0.05, 99))
	var sum float64
	for _, m := range markers {
		sum += m.Freq
	}
	mean := sum / float64(len(markers))
	assert.InDelta(t, 0.05, mean, 0.005)
}

func TestMarkerCount(t *testing.T) {
	assert.Equal(t, int64(4), MarkerCount(1000, 250))
	assert.Equal(t, int64(600000), MarkerCount(150000000, 250))
	assert.Equal(t, int64(0), MarkerCount(1, 250))
	assert.Equal(t, int64(0), MarkerCount(1000, 0))
	assert.Equal(t, int64(1), MarkerCount(10, math.MaxInt64))
	assert.Equal(t, int64(math.MaxInt64-1), MarkerCount(math.MaxInt64, 1))
}

func TestGenerator_HugeStepStopsAtSequenceEnd(t *testing.T) {
	markers := collect(newTestGenerator(10, math.MaxInt64, 0.05, 1))
	require.Len(t, markers, 1)
	assert.Equal(t, int64(1), markers[0].Pos)

	markers = collect(newTestGenerator(math.MaxInt64, math.MaxInt64/2, 0.05, 1))
	require.Len(t, markers, 2)
	assert.Equal(t, []int64{1, 1 + math.MaxInt64/2}, []int64{markers[0].Pos, markers[1].Pos})
}
