// Package migration holds the SQLite schema for the discovery database.
package migration

// Create builds the full schema on a fresh database. Metric and score rows
// are append-only; deleting a track cascades to both.
const Create = `
CREATE TABLE IF NOT EXISTS Track (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  artist_name TEXT NOT NULL,
  isrc TEXT,
  spotify_id TEXT,
  tiktok_id TEXT,
  image_url TEXT,
  spotify_url TEXT,
  tiktok_url TEXT,
  spotify_popularity INTEGER,
  first_discovered TIMESTAMP NOT NULL,
  last_updated TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_track_artist_title ON Track (artist_name, title);
CREATE INDEX IF NOT EXISTS ix_track_spotify_id ON Track (spotify_id);

CREATE TABLE IF NOT EXISTS TrackMetric (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  track_id TEXT NOT NULL,
  timestamp TIMESTAMP NOT NULL,
  spotify_streams INTEGER,
  spotify_streams_7d INTEGER,
  spotify_streams_30d INTEGER,
  spotify_playlist_count INTEGER,
  spotify_chart_position INTEGER,
  spotify_chart_country TEXT,
  tiktok_posts INTEGER,
  tiktok_posts_7d INTEGER,
  tiktok_posts_30d INTEGER,
  tiktok_views INTEGER,
  tiktok_views_7d INTEGER,
  tiktok_views_30d INTEGER,
  tiktok_chart_position INTEGER,
  FOREIGN KEY (track_id) REFERENCES Track(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS ix_track_metric_track_timestamp ON TrackMetric (track_id, timestamp);

CREATE TABLE IF NOT EXISTS TrackScore (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  track_id TEXT NOT NULL,
  computed_at TIMESTAMP NOT NULL,
  trending_score REAL,
  evergreen_score REAL,
  components TEXT,
  why_selected TEXT,
  risk_flags TEXT,
  FOREIGN KEY (track_id) REFERENCES Track(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS ix_track_score_track_computed ON TrackScore (track_id, computed_at);
CREATE INDEX IF NOT EXISTS ix_track_score_trending ON TrackScore (trending_score);
CREATE INDEX IF NOT EXISTS ix_track_score_evergreen ON TrackScore (evergreen_score);

CREATE TABLE IF NOT EXISTS DiscoveryRun (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_type TEXT NOT NULL,
  started_at TIMESTAMP NOT NULL,
  completed_at TIMESTAMP,
  tracks_processed INTEGER NOT NULL DEFAULT 0,
  tracks_new INTEGER NOT NULL DEFAULT 0,
  tracks_updated INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'running',
  error_message TEXT
);

CREATE INDEX IF NOT EXISTS ix_discovery_run_type_started ON DiscoveryRun (run_type, started_at);
`
