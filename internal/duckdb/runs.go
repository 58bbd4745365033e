package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/jameshicks/adios/internal/simulate"
)

// RunInfo describes one simulation run.
type RunInfo struct {
	ID       string
	Source   string
	Size     int64
	Dist     int64
	Lambda   float64
	Seed     uint64
	Interval simulate.Interval
	OutPath  string

	// Set once the run has finished.
	OutBytes sql.NullInt64
	Markers  sql.NullInt64
}

// NewRunInfo builds the catalog entry for a run with a fresh run ID.
func NewRunInfo(cfg simulate.Config, ibd simulate.Interval) RunInfo {
	return RunInfo{
		ID:       uuid.NewString(),
		Source:   cfg.Source,
		Size:     cfg.Size,
		Dist:     cfg.Dist,
		Lambda:   cfg.Lambda,
		Seed:     cfg.Seed,
		Interval: ibd,
		OutPath:  cfg.Out,
	}
}

// BeginRun records the run and returns an appender for its markers.
func (s *Store) BeginRun(info RunInfo) (*MarkerAppender, error) {
	if info.ID == "" {
		return nil, fmt.Errorf("begin run: empty run ID")
	}
	if _, err := s.db.Exec(`INSERT INTO runs
		(run_id, source, seq_size, dist, lambd, seed, ibd_start, ibd_stop, ibd_size, out_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Source, info.Size, info.Dist, info.Lambda,
		strconv.FormatUint(info.Seed, 10),
		info.Interval.Start, info.Interval.Stop, info.Interval.Size, info.OutPath,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return newMarkerAppender(s, info.ID)
}

// FinishRun records the marker count and the size of the written file.
func (s *Store) FinishRun(runID string, markers int64) error {
	var outBytes sql.NullInt64
	var outPath string
	if err := s.db.QueryRow(`SELECT out_path FROM runs WHERE run_id=?`, runID).Scan(&outPath); err != nil {
		return fmt.Errorf("query run %s: %w", runID, err)
	}
	if st, err := os.Stat(outPath); err == nil {
		outBytes = sql.NullInt64{Int64: st.Size(), Valid: true}
	}

	if _, err := s.db.Exec(`UPDATE runs SET markers=?, out_bytes=? WHERE run_id=?`,
		markers, outBytes, runID); err != nil {
		return fmt.Errorf("update run %s: %w", runID, err)
	}
	return nil
}

// Runs lists recorded runs in creation order.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT
		run_id, source, seq_size, dist, lambd, seed,
		ibd_start, ibd_stop, ibd_size, out_path, out_bytes, markers
		FROM runs
		ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var seed string
		if err := rows.Scan(
			&r.ID, &r.Source, &r.Size, &r.Dist, &r.Lambda, &seed,
			&r.Interval.Start, &r.Interval.Stop, &r.Interval.Size,
			&r.OutPath, &r.OutBytes, &r.Markers,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Seed, err = strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("run %s seed: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunSummary aggregates the markers of one run.
type RunSummary struct {
	Markers     int64
	IBDMarkers  int64
	SharedInIBD int64
	SharedFirst int64
	MeanFreq    float64
}

// Summarize computes marker counts for a run. For a consistent run
// SharedInIBD equals IBDMarkers.
func (s *Store) Summarize(runID string) (RunSummary, error) {
	var sum RunSummary
	err := s.db.QueryRow(`SELECT
		count(*),
		count(*) FILTER (WHERE in_ibd),
		count(*) FILTER (WHERE in_ibd AND a1 = b1),
		count(*) FILTER (WHERE a1 = b1),
		coalesce(avg(freq), 0)
		FROM markers
		WHERE run_id=?`, runID).Scan(
		&sum.Markers, &sum.IBDMarkers, &sum.SharedInIBD, &sum.SharedFirst, &sum.MeanFreq,
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("summarize run %s: %w", runID, err)
	}
	return sum, nil
}
