package main

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jameshicks/adios/internal/duckdb"
	"github.com/jameshicks/adios/internal/output"
	"github.com/jameshicks/adios/internal/simulate"
)

// progressEvery is the marker interval between debug progress messages.
const progressEvery = 100000

// runGenerate writes the simulated VCF described by cfg, and the marker
// catalog when cfg.DBPath is set. Progress lines go to stdout.
func runGenerate(cfg simulate.Config, stdout io.Writer, logger *zap.Logger) (err error) {
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	logger.Info("simulating IBD pair",
		zap.Uint64("seed", cfg.Seed),
		zap.Int64("size", cfg.Size),
		zap.Int64("dist", cfg.Dist),
		zap.Float64("lambd", cfg.Lambda))

	ibd := simulate.NewInterval(cfg.Size)
	total := simulate.MarkerCount(cfg.Size, cfg.Dist)

	fmt.Fprintf(stdout, "Generating %d markers.\n", total)
	fmt.Fprintf(stdout, "IBD region is %d-%d (%dbp)\n", ibd.Start, ibd.Stop, ibd.Size)
	fmt.Fprintf(stdout, "Writing output to %s...\n", cfg.Out)

	f, err := output.CreateFile(cfg.Out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	var catalog *duckdb.Store
	var markers *duckdb.MarkerAppender
	if cfg.DBPath != "" {
		catalog, err = duckdb.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open marker catalog: %w", err)
		}
		defer catalog.Close()

		markers, err = catalog.BeginRun(duckdb.NewRunInfo(cfg, ibd))
		if err != nil {
			return fmt.Errorf("begin catalog run: %w", err)
		}
		defer func() {
			if markers != nil {
				markers.Close()
			}
		}()
		logger.Debug("recording markers", zap.String("db", cfg.DBPath), zap.String("run_id", markers.RunID()))
	}

	w := output.NewVCFWriter(f)
	if err := w.WriteHeader(ibd, cfg.Source); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	gen := simulate.NewGenerator(cfg, ibd, simulate.NewSource(cfg.Seed))
	for m := gen.Next(); m != nil; m = gen.Next() {
		if err := w.Write(m); err != nil {
			return fmt.Errorf("write marker %d: %w", m.Pos, err)
		}
		if markers != nil {
			if err := markers.Append(m); err != nil {
				return err
			}
		}
		if n := m.Index + 1; n%progressEvery == 0 {
			logger.Debug("progress", zap.Int64("markers", n), zap.Int64("total", total))
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if markers != nil {
		runID := markers.RunID()
		closeErr := markers.Close()
		markers = nil
		if closeErr != nil {
			return closeErr
		}
		if err := catalog.FinishRun(runID, w.Lines()); err != nil {
			return err
		}
		sum, err := catalog.Summarize(runID)
		if err != nil {
			return err
		}
		logger.Debug("catalog run recorded",
			zap.String("run_id", runID),
			zap.Int64("markers", sum.Markers),
			zap.Int64("ibd_markers", sum.IBDMarkers),
			zap.Int64("shared_in_ibd", sum.SharedInIBD))
	}

	fmt.Fprintln(stdout, "Done")
	return nil
}
