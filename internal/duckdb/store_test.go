package duckdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshicks/adios/internal/simulate"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig(size, dist int64, seed uint64) simulate.Config {
	cfg := simulate.DefaultConfig()
	cfg.Size = size
	cfg.Dist = dist
	cfg.Seed = seed
	cfg.Source = "gen-ibd-vcf --test"
	return cfg
}

// appendRun streams a whole simulated run into the store.
func appendRun(t *testing.T, s *Store, cfg simulate.Config) RunInfo {
	t.Helper()
	ibd := simulate.NewInterval(cfg.Size)
	info := NewRunInfo(cfg, ibd)

	app, err := s.BeginRun(info)
	require.NoError(t, err)
	gen := simulate.NewGenerator(cfg, ibd, simulate.NewSource(cfg.Seed))
	for m := gen.Next(); m != nil; m = gen.Next() {
		require.NoError(t, app.Append(m))
	}
	assert.Equal(t, info.ID, app.RunID())
	require.NoError(t, app.Close())
	return info
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestBeginRunAndSummarize(t *testing.T) {
	s := openInMemory(t)

	cfg := testConfig(100000000, 10000, 5)
	info := appendRun(t, s, cfg)

	sum, err := s.Summarize(info.ID)
	require.NoError(t, err)
	assert.Equal(t, simulate.MarkerCount(cfg.Size, cfg.Dist), sum.Markers)
	assert.Equal(t, int64(2000), sum.IBDMarkers)
	assert.Equal(t, sum.IBDMarkers, sum.SharedInIBD)
	assert.GreaterOrEqual(t, sum.SharedFirst, sum.SharedInIBD)
	assert.InDelta(t, 0.05, sum.MeanFreq, 0.01)
}

func TestSummarize_UnknownRun(t *testing.T) {
	s := openInMemory(t)

	sum, err := s.Summarize("no-such-run")
	require.NoError(t, err)
	assert.Zero(t, sum.Markers)
	assert.Zero(t, sum.MeanFreq)
}

func TestLookupMarkers(t *testing.T) {
	s := openInMemory(t)

	cfg := testConfig(10000, 250, 9)
	info := appendRun(t, s, cfg)

	markers, err := s.LookupMarkers(info.ID, 251, 1001)
	require.NoError(t, err)
	require.Len(t, markers, 3)
	assert.Equal(t, []int64{251, 501, 751}, []int64{markers[0].Pos, markers[1].Pos, markers[2].Pos})

	// Rows read back match a regenerated run with the same seed.
	gen := simulate.NewGenerator(cfg, simulate.NewInterval(cfg.Size), simulate.NewSource(cfg.Seed))
	gen.Next()
	for _, got := range markers {
		want := gen.Next()
		assert.Equal(t, *want, got)
	}

	markers, err = s.LookupMarkers(info.ID, 20000, 30000)
	require.NoError(t, err)
	assert.Empty(t, markers)
}

func TestRunsAndFinishRun(t *testing.T) {
	s := openInMemory(t)

	out := filepath.Join(t.TempDir(), "pair.vcf")
	require.NoError(t, os.WriteFile(out, []byte("0123456789"), 0644))

	cfg := testConfig(2000, 250, 1<<63+7)
	cfg.Out = out
	info := appendRun(t, s, cfg)
	second := appendRun(t, s, testConfig(1000, 100, 2))

	require.NoError(t, s.FinishRun(info.ID, 8))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	var got RunInfo
	for _, r := range runs {
		if r.ID == info.ID {
			got = r
		}
	}
	require.Equal(t, info.ID, got.ID)
	assert.Equal(t, uint64(1<<63+7), got.Seed)
	assert.Equal(t, simulate.NewInterval(2000), got.Interval)
	assert.Equal(t, "gen-ibd-vcf --test", got.Source)
	assert.Equal(t, int64(2000), got.Size)
	assert.Equal(t, 0.05, got.Lambda)
	assert.True(t, got.Markers.Valid)
	assert.Equal(t, int64(8), got.Markers.Int64)
	assert.True(t, got.OutBytes.Valid)
	assert.Equal(t, int64(10), got.OutBytes.Int64)

	for _, r := range runs {
		if r.ID == second.ID {
			assert.False(t, r.Markers.Valid, "unfinished run has no marker count")
		}
	}
}

func TestFinishRun_UnknownRun(t *testing.T) {
	s := openInMemory(t)
	assert.Error(t, s.FinishRun("missing", 1))
}

func TestBeginRun_EmptyID(t *testing.T) {
	s := openInMemory(t)
	_, err := s.BeginRun(RunInfo{})
	assert.Error(t, err)
}
