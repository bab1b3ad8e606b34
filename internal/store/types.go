package store

import (
	"database/sql"
	"time"
)

// Track is the immutable identity of a song under observation. Created on
// first sighting, updated only for metadata corrections.
type Track struct {
	ID         string
	Title      string
	ArtistName string

	ISRC      sql.NullString
	SpotifyID sql.NullString
	TikTokID  sql.NullString

	ImageURL   sql.NullString
	SpotifyURL sql.NullString
	TikTokURL  sql.NullString

	SpotifyPopularity sql.NullInt64

	FirstDiscovered time.Time
	LastUpdated     time.Time
}

// Metric is one append-only time-series observation for a track. A new
// observation is always a new row; rows are never overwritten.
type Metric struct {
	ID        int64
	TrackID   string
	Timestamp time.Time

	SpotifyStreams       sql.NullInt64
	SpotifyStreams7d     sql.NullInt64
	SpotifyStreams30d    sql.NullInt64
	SpotifyPlaylistCount sql.NullInt64
	SpotifyChartPosition sql.NullInt64
	SpotifyChartCountry  sql.NullString

	TikTokPosts         sql.NullInt64
	TikTokPosts7d       sql.NullInt64
	TikTokPosts30d      sql.NullInt64
	TikTokViews         sql.NullInt64
	TikTokViews7d       sql.NullInt64
	TikTokViews30d      sql.NullInt64
	TikTokChartPosition sql.NullInt64
}

// Score is one append-only scoring result. Trending and evergreen scores are
// computed independently; a row may carry either or both.
type Score struct {
	ID         int64
	TrackID    string
	ComputedAt time.Time

	TrendingScore  sql.NullFloat64
	EvergreenScore sql.NullFloat64

	Components  map[string]float64
	WhySelected []string
	RiskFlags   []string
}

// DiscoveryRun is the audit record for one batch execution.
type DiscoveryRun struct {
	ID          int64
	RunType     string
	StartedAt   time.Time
	CompletedAt sql.NullTime

	TracksProcessed int
	TracksNew       int
	TracksUpdated   int

	Status       string
	ErrorMessage sql.NullString
}

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
