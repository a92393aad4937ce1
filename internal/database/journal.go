package database

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordPass stores a scan pass and prunes passes beyond the retention bound
func (db *DB) RecordPass(p ScanPass) error {
	if p.RecordedAt.IsZero() {
		p.RecordedAt = time.Now()
	}

	return db.ExecTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO scan_passes (
				run_id, center_x, center_y, cells, failed_cells,
				best_x, best_y, best_ratio, target_found, duration_ms, recorded_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.RunID, p.CenterX, p.CenterY, p.Cells, p.FailedCells,
			p.BestX, p.BestY, p.BestRatio, p.TargetFound, p.Duration.Milliseconds(), p.RecordedAt)
		if err != nil {
			return fmt.Errorf("failed to insert scan pass: %w", err)
		}

		_, err = tx.Exec(`
			DELETE FROM scan_passes
			WHERE id <= (SELECT COALESCE(MAX(id), 0) FROM scan_passes) - ?
		`, db.maxPasses)
		if err != nil {
			return fmt.Errorf("failed to prune scan passes: %w", err)
		}
		return nil
	})
}

// RecordMove stores a cursor move; moveErr is kept as its message
func (db *DB) RecordMove(m CursorMove, moveErr error) error {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now()
	}
	if moveErr != nil {
		m.ErrorMessage = sql.NullString{String: moveErr.Error(), Valid: true}
	}

	_, err := db.conn.Exec(`
		INSERT INTO cursor_moves (source, from_x, from_y, to_x, to_y, smooth, error_message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Source, m.FromX, m.FromY, m.ToX, m.ToY, m.Smooth, m.ErrorMessage, m.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cursor move: %w", err)
	}
	return nil
}

// RecentPasses returns up to limit passes, newest first
func (db *DB) RecentPasses(limit int) ([]ScanPass, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, center_x, center_y, cells, failed_cells,
		       best_x, best_y, best_ratio, target_found, duration_ms, recorded_at
		FROM scan_passes
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan passes: %w", err)
	}
	defer rows.Close()

	passes := make([]ScanPass, 0)
	for rows.Next() {
		var p ScanPass
		if err := rows.Scan(&p.ID, &p.RunID, &p.CenterX, &p.CenterY, &p.Cells, &p.FailedCells,
			&p.BestX, &p.BestY, &p.BestRatio, &p.TargetFound, &p.DurationMS, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pass row: %w", err)
		}
		p.Duration = time.Duration(p.DurationMS) * time.Millisecond
		passes = append(passes, p)
	}
	return passes, rows.Err()
}

// RecentMoves returns up to limit cursor moves, newest first
func (db *DB) RecentMoves(limit int) ([]CursorMove, error) {
	rows, err := db.conn.Query(`
		SELECT id, source, from_x, from_y, to_x, to_y, smooth, error_message, recorded_at
		FROM cursor_moves
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cursor moves: %w", err)
	}
	defer rows.Close()

	moves := make([]CursorMove, 0)
	for rows.Next() {
		var m CursorMove
		if err := rows.Scan(&m.ID, &m.Source, &m.FromX, &m.FromY, &m.ToX, &m.ToY,
			&m.Smooth, &m.ErrorMessage, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move row: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// GetSummary aggregates all retained passes and moves
func (db *DB) GetSummary() (*Summary, error) {
	var s Summary
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN target_found THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(failed_cells), 0),
		       COALESCE(AVG(best_ratio), 0)
		FROM scan_passes
	`).Scan(&s.Passes, &s.FoundPasses, &s.FailedCells, &s.AvgRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize scan passes: %w", err)
	}

	err = db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN error_message IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM cursor_moves
	`).Scan(&s.Moves, &s.FailedMoves)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize cursor moves: %w", err)
	}

	return &s, nil
}
