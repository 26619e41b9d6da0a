package store

import (
	"fmt"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/tasks"
)

// SaveTasks replaces the persisted task snapshot with the given list. The
// gateway contract is "save after every mutation", so a full snapshot write
// keeps the on-disk state trivially consistent with memory.
func (s *Store) SaveTasks(ts []tasks.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save tasks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range ts {
		_, err := tx.Exec(
			`INSERT INTO tasks (id, title, status, position, spent) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Title, int(t.Status), i, int64(t.Spent/time.Second),
		)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// LoadTasks returns the persisted task list in display order.
func (s *Store) LoadTasks() ([]tasks.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, status, spent FROM tasks ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var ts []tasks.Task
	for rows.Next() {
		var t tasks.Task
		var status int
		var spent int64
		if err := rows.Scan(&t.ID, &t.Title, &status, &spent); err != nil {
			return nil, err
		}
		t.Status = tasks.Status(status)
		t.Spent = time.Duration(spent) * time.Second
		ts = append(ts, t)
	}
	return ts, rows.Err()
}
