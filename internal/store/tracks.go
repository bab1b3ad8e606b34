package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateTrack inserts a track on first sighting. If the track already exists
// its metadata is refreshed but first_discovered is preserved.
func (s *Store) CreateTrack(t Track) error {
	row := s.db.QueryRow("SELECT id FROM Track WHERE id = ?", t.ID)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec(`
			INSERT INTO Track (id, title, artist_name, isrc, spotify_id, tiktok_id,
				image_url, spotify_url, tiktok_url, spotify_popularity,
				first_discovered, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.ArtistName, t.ISRC, t.SpotifyID, t.TikTokID,
			t.ImageURL, t.SpotifyURL, t.TikTokURL, t.SpotifyPopularity,
			t.FirstDiscovered, t.LastUpdated)
		if err != nil {
			return fmt.Errorf("inserting track %q: %w", t.ID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking track %q: %w", t.ID, err)
	}

	_, err = s.db.Exec(`
		UPDATE Track SET title = ?, artist_name = ?, isrc = ?, spotify_id = ?,
			tiktok_id = ?, image_url = ?, spotify_url = ?, tiktok_url = ?,
			spotify_popularity = ?, last_updated = ?
		WHERE id = ?`,
		t.Title, t.ArtistName, t.ISRC, t.SpotifyID, t.TikTokID,
		t.ImageURL, t.SpotifyURL, t.TikTokURL, t.SpotifyPopularity,
		t.LastUpdated, t.ID)
	if err != nil {
		return fmt.Errorf("updating track %q: %w", t.ID, err)
	}
	return nil
}

func (s *Store) GetTrack(id string) (Track, error) {
	row := s.db.QueryRow(`
		SELECT id, title, artist_name, isrc, spotify_id, tiktok_id,
			image_url, spotify_url, tiktok_url, spotify_popularity,
			first_discovered, last_updated
		FROM Track WHERE id = ?`, id)
	return scanTrack(row)
}

// TrackExists reports whether a track id is known.
func (s *Store) TrackExists(id string) (bool, error) {
	row := s.db.QueryRow("SELECT id FROM Track WHERE id = ?", id)
	var dummy string
	err := row.Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking track %q: %w", id, err)
	}
	return true, nil
}

func (s *Store) ListTracks() ([]Track, error) {
	return s.queryTracks(`
		SELECT id, title, artist_name, isrc, spotify_id, tiktok_id,
			image_url, spotify_url, tiktok_url, spotify_popularity,
			first_discovered, last_updated
		FROM Track ORDER BY artist_name, title`)
}

// ListTracksDiscoveredBefore returns tracks old enough to have accumulated
// the history a long-horizon analysis needs.
func (s *Store) ListTracksDiscoveredBefore(cutoff time.Time) ([]Track, error) {
	return s.queryTracks(`
		SELECT id, title, artist_name, isrc, spotify_id, tiktok_id,
			image_url, spotify_url, tiktok_url, spotify_popularity,
			first_discovered, last_updated
		FROM Track WHERE first_discovered <= ? ORDER BY artist_name, title`, cutoff)
}

// DeleteTrack removes a track and, via cascade, its metrics and scores.
func (s *Store) DeleteTrack(id string) error {
	_, err := s.db.Exec("DELETE FROM Track WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting track %q: %w", id, err)
	}
	return nil
}

func (s *Store) queryTracks(query string, args ...any) ([]Track, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (Track, error) {
	var t Track
	err := row.Scan(&t.ID, &t.Title, &t.ArtistName, &t.ISRC, &t.SpotifyID,
		&t.TikTokID, &t.ImageURL, &t.SpotifyURL, &t.TikTokURL,
		&t.SpotifyPopularity, &t.FirstDiscovered, &t.LastUpdated)
	if err != nil {
		return Track{}, fmt.Errorf("scanning track: %w", err)
	}
	return t, nil
}
