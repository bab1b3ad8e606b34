package store

import (
	"fmt"
	"time"
)

// AddMetrics appends a batch of metric observations transactionally. Rows are
// never updated; every observation is a fresh insert so score computations
// can be replayed from any point in time.
func (s *Store) AddMetrics(trackID string, metrics []Metric) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range metrics {
		_, err := tx.Exec(`
			INSERT INTO TrackMetric (track_id, timestamp,
				spotify_streams, spotify_streams_7d, spotify_streams_30d,
				spotify_playlist_count, spotify_chart_position, spotify_chart_country,
				tiktok_posts, tiktok_posts_7d, tiktok_posts_30d,
				tiktok_views, tiktok_views_7d, tiktok_views_30d,
				tiktok_chart_position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trackID, m.Timestamp,
			m.SpotifyStreams, m.SpotifyStreams7d, m.SpotifyStreams30d,
			m.SpotifyPlaylistCount, m.SpotifyChartPosition, m.SpotifyChartCountry,
			m.TikTokPosts, m.TikTokPosts7d, m.TikTokPosts30d,
			m.TikTokViews, m.TikTokViews7d, m.TikTokViews30d,
			m.TikTokChartPosition)
		if err != nil {
			return fmt.Errorf("inserting metric for %q: %w", trackID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// MetricsSince returns a track's observations at or after since, oldest
// first. This is the single history fetch the feature extractors share.
func (s *Store) MetricsSince(trackID string, since time.Time) ([]Metric, error) {
	rows, err := s.db.Query(`
		SELECT id, track_id, timestamp,
			spotify_streams, spotify_streams_7d, spotify_streams_30d,
			spotify_playlist_count, spotify_chart_position, spotify_chart_country,
			tiktok_posts, tiktok_posts_7d, tiktok_posts_30d,
			tiktok_views, tiktok_views_7d, tiktok_views_30d,
			tiktok_chart_position
		FROM TrackMetric
		WHERE track_id = ? AND timestamp >= ?
		ORDER BY timestamp ASC`, trackID, since)
	if err != nil {
		return nil, fmt.Errorf("querying metrics for %q: %w", trackID, err)
	}
	defer rows.Close()

	var metrics []Metric
	for rows.Next() {
		var m Metric
		err := rows.Scan(&m.ID, &m.TrackID, &m.Timestamp,
			&m.SpotifyStreams, &m.SpotifyStreams7d, &m.SpotifyStreams30d,
			&m.SpotifyPlaylistCount, &m.SpotifyChartPosition, &m.SpotifyChartCountry,
			&m.TikTokPosts, &m.TikTokPosts7d, &m.TikTokPosts30d,
			&m.TikTokViews, &m.TikTokViews7d, &m.TikTokViews30d,
			&m.TikTokChartPosition)
		if err != nil {
			return nil, fmt.Errorf("scanning metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// CountMetrics returns the number of observations a track has in total.
func (s *Store) CountMetrics(trackID string) (int, error) {
	row := s.db.QueryRow("SELECT COUNT(*) FROM TrackMetric WHERE track_id = ?", trackID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting metrics for %q: %w", trackID, err)
	}
	return count, nil
}
