package store

import (
	"fmt"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
)

// SaveReports replaces the persisted report history with the given snapshot.
func (s *Store) SaveReports(history []report.DayReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save reports: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM day_reports`); err != nil {
		return fmt.Errorf("clear reports: %w", err)
	}
	for _, r := range history {
		closed := 0
		if r.Closed {
			closed = 1
		}
		_, err := tx.Exec(
			`INSERT INTO day_reports (date, focused, completed, streak, closed) VALUES (?, ?, ?, ?, ?)`,
			r.Date, int64(r.Focused/time.Second), r.Completed, r.Streak, closed,
		)
		if err != nil {
			return fmt.Errorf("insert report %s: %w", r.Date, err)
		}
	}
	return tx.Commit()
}

// LoadReports returns the persisted history in date order.
func (s *Store) LoadReports() ([]report.DayReport, error) {
	rows, err := s.db.Query(
		`SELECT date, focused, completed, streak, closed FROM day_reports ORDER BY date`,
	)
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}
	defer rows.Close()

	var history []report.DayReport
	for rows.Next() {
		var r report.DayReport
		var focused int64
		var closed int
		if err := rows.Scan(&r.Date, &focused, &r.Completed, &r.Streak, &closed); err != nil {
			return nil, err
		}
		r.Focused = time.Duration(focused) * time.Second
		r.Closed = closed == 1
		history = append(history, r)
	}
	return history, rows.Err()
}
