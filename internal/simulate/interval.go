package simulate

// IBDSize is the length in bases of the simulated shared segment.
const IBDSize int64 = 20000000

// Interval is the region shared identical-by-descent between the two
// simulated individuals.
type Interval struct {
	Start int64
	Stop  int64
	Size  int64
}

// NewInterval places the IBD segment at a quarter of the sequence length.
func NewInterval(size int64) Interval {
	start := size / 4
	return Interval{
		Start: start,
		Stop:  start + IBDSize,
		Size:  IBDSize,
	}
}

// Contains reports whether pos lies strictly inside the interval.
// Positions equal to Start or Stop are outside.
func (iv Interval) Contains(pos int64) bool {
	return iv.Start < pos && pos < iv.Stop
}
