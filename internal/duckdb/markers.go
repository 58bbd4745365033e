package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/jameshicks/adios/internal/simulate"
)

// MarkerAppender streams the markers of one run into the markers table.
// It holds a dedicated connection until Close.
type MarkerAppender struct {
	conn     *sql.Conn
	appender *goduckdb.Appender
	runID    string
	count    int64
}

func newMarkerAppender(s *Store, runID string) (*MarkerAppender, error) {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "markers")
		return err
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create appender: %w", err)
	}

	return &MarkerAppender{conn: conn, appender: appender, runID: runID}, nil
}

// RunID returns the run the appender writes to.
func (ma *MarkerAppender) RunID() string {
	return ma.runID
}

// Count returns the number of markers appended so far.
func (ma *MarkerAppender) Count() int64 {
	return ma.count
}

// Append adds one marker row.
func (ma *MarkerAppender) Append(m *simulate.Marker) error {
	if err := ma.appender.AppendRow(
		ma.runID, m.Index, m.Pos, m.Freq, m.InIBD,
		m.A.First, m.A.Second, m.B.First, m.B.Second,
	); err != nil {
		return fmt.Errorf("append marker %d: %w", m.Pos, err)
	}
	ma.count++
	return nil
}

// Close flushes pending rows and releases the connection.
func (ma *MarkerAppender) Close() error {
	err := ma.appender.Close()
	if cerr := ma.conn.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("close appender: %w", err)
	}
	return nil
}

// LookupMarkers returns the markers of a run with start <= pos < stop,
// ordered by position.
func (s *Store) LookupMarkers(runID string, start, stop int64) ([]simulate.Marker, error) {
	rows, err := s.db.Query(`SELECT
		idx, pos, freq, in_ibd, a1, a2, b1, b2
		FROM markers
		WHERE run_id=? AND pos>=? AND pos<?
		ORDER BY pos`, runID, start, stop)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer rows.Close()

	var markers []simulate.Marker
	for rows.Next() {
		var m simulate.Marker
		if err := rows.Scan(
			&m.Index, &m.Pos, &m.Freq, &m.InIBD,
			&m.A.First, &m.A.Second, &m.B.First, &m.B.Second,
		); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markers: %w", err)
	}
	return markers, nil
}
