package store

import (
	"fmt"
	"time"
)

// CreateRun records the start of a discovery run before any track is
// processed, so a crash mid-batch still leaves an audit trail.
func (s *Store) CreateRun(runType string, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO DiscoveryRun (run_type, started_at, status)
		VALUES (?, ?, ?)`, runType, startedAt, RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("inserting discovery run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

type RunStats struct {
	TracksProcessed int
	TracksNew       int
	TracksUpdated   int
}

func (s *Store) CompleteRun(id int64, completedAt time.Time, stats RunStats) error {
	_, err := s.db.Exec(`
		UPDATE DiscoveryRun
		SET status = ?, completed_at = ?, tracks_processed = ?, tracks_new = ?, tracks_updated = ?
		WHERE id = ?`,
		RunStatusCompleted, completedAt, stats.TracksProcessed, stats.TracksNew, stats.TracksUpdated, id)
	if err != nil {
		return fmt.Errorf("completing run %d: %w", id, err)
	}
	return nil
}

// FailRun marks a run failed with the captured error message. Scores already
// committed by the run are preserved.
func (s *Store) FailRun(id int64, completedAt time.Time, message string, stats RunStats) error {
	_, err := s.db.Exec(`
		UPDATE DiscoveryRun
		SET status = ?, completed_at = ?, error_message = ?, tracks_processed = ?, tracks_new = ?, tracks_updated = ?
		WHERE id = ?`,
		RunStatusFailed, completedAt, message, stats.TracksProcessed, stats.TracksNew, stats.TracksUpdated, id)
	if err != nil {
		return fmt.Errorf("failing run %d: %w", id, err)
	}
	return nil
}

func (s *Store) GetRun(id int64) (DiscoveryRun, error) {
	row := s.db.QueryRow(`
		SELECT id, run_type, started_at, completed_at, tracks_processed,
			tracks_new, tracks_updated, status, error_message
		FROM DiscoveryRun WHERE id = ?`, id)

	var run DiscoveryRun
	err := row.Scan(&run.ID, &run.RunType, &run.StartedAt, &run.CompletedAt,
		&run.TracksProcessed, &run.TracksNew, &run.TracksUpdated,
		&run.Status, &run.ErrorMessage)
	if err != nil {
		return DiscoveryRun{}, fmt.Errorf("scanning run %d: %w", id, err)
	}
	return run, nil
}
