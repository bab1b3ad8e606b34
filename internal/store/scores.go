package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// InsertScore appends a new score row. Score history is append-only: prior
// rows are never updated, so the full history stays queryable for
// trend-of-trend analysis.
func (s *Store) InsertScore(score Score) (int64, error) {
	components, err := marshalJSON(score.Components)
	if err != nil {
		return 0, fmt.Errorf("encoding components: %w", err)
	}
	whySelected, err := marshalJSON(score.WhySelected)
	if err != nil {
		return 0, fmt.Errorf("encoding why_selected: %w", err)
	}
	riskFlags, err := marshalJSON(score.RiskFlags)
	if err != nil {
		return 0, fmt.Errorf("encoding risk_flags: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO TrackScore (track_id, computed_at, trending_score,
			evergreen_score, components, why_selected, risk_flags)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		score.TrackID, score.ComputedAt, score.TrendingScore,
		score.EvergreenScore, components, whySelected, riskFlags)
	if err != nil {
		return 0, fmt.Errorf("inserting score for %q: %w", score.TrackID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading score id: %w", err)
	}
	return id, nil
}

// LatestScore returns the most recent score row for a track, or nil if the
// track has never been scored.
func (s *Store) LatestScore(trackID string) (*Score, error) {
	row := s.db.QueryRow(`
		SELECT id, track_id, computed_at, trending_score, evergreen_score,
			components, why_selected, risk_flags
		FROM TrackScore
		WHERE track_id = ?
		ORDER BY computed_at DESC, id DESC
		LIMIT 1`, trackID)

	score, err := scanScore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// ScoresForTrack returns up to limit score rows, newest first. A limit of 0
// or less returns the full history.
func (s *Store) ScoresForTrack(trackID string, limit int) ([]Score, error) {
	query := `
		SELECT id, track_id, computed_at, trending_score, evergreen_score,
			components, why_selected, risk_flags
		FROM TrackScore
		WHERE track_id = ?
		ORDER BY computed_at DESC, id DESC`
	args := []any{trackID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scores for %q: %w", trackID, err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func scanScore(row rowScanner) (Score, error) {
	var score Score
	var components, whySelected, riskFlags sql.NullString
	err := row.Scan(&score.ID, &score.TrackID, &score.ComputedAt,
		&score.TrendingScore, &score.EvergreenScore,
		&components, &whySelected, &riskFlags)
	if err == sql.ErrNoRows {
		return Score{}, err
	}
	if err != nil {
		return Score{}, fmt.Errorf("scanning score: %w", err)
	}

	if err := unmarshalJSON(components, &score.Components); err != nil {
		return Score{}, fmt.Errorf("decoding components: %w", err)
	}
	if err := unmarshalJSON(whySelected, &score.WhySelected); err != nil {
		return Score{}, fmt.Errorf("decoding why_selected: %w", err)
	}
	if err := unmarshalJSON(riskFlags, &score.RiskFlags); err != nil {
		return Score{}, fmt.Errorf("decoding risk_flags: %w", err)
	}
	return score, nil
}

func marshalJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalJSON(src sql.NullString, dest any) error {
	if !src.Valid || src.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(src.String), dest)
}
