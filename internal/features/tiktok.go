package features

import (
	"database/sql"

	"github.com/klangspor/track-radar/internal/store"
)

// Velocity features compare the latest snapshot in the short window against
// the latest snapshot in the (long, short] baseline window.
const (
	VelocityShortDays = 7
	VelocityLongDays  = 30

	// VelocityCap stands in for "new activity, unbounded growth" when the
	// baseline is zero.
	VelocityCap = 10.0
)

// TikTokPostsVelocity is the growth ratio of 7-day post counts, the primary
// trending signal.
func TikTokPostsVelocity(h *History) Value {
	recent := h.LatestWithin(VelocityShortDays)
	baseline := h.LatestBetween(VelocityLongDays, VelocityShortDays)
	return velocity(recent, baseline, func(m *store.Metric) sql.NullInt64 {
		return m.TikTokPosts7d
	}, VelocityCap)
}

// TikTokViewsVelocity is the growth ratio of 7-day view counts.
func TikTokViewsVelocity(h *History) Value {
	recent := h.LatestWithin(VelocityShortDays)
	baseline := h.LatestBetween(VelocityLongDays, VelocityShortDays)
	return velocity(recent, baseline, func(m *store.Metric) sql.NullInt64 {
		return m.TikTokViews7d
	}, VelocityCap)
}

// CrossPlatformConfirmed reports whether the track is growing on both TikTok
// and Spotify over the standard windows simultaneously. Single-platform
// virality is considered less durable, so this is a high-confidence signal.
func CrossPlatformConfirmed(h *History) bool {
	recent := h.LatestWithin(VelocityShortDays)
	baseline := h.LatestBetween(VelocityLongDays, VelocityShortDays)
	if recent == nil || baseline == nil {
		return false
	}

	tiktokGrowing := false
	if recent.TikTokPosts7d.Valid && baseline.TikTokPosts7d.Valid && baseline.TikTokPosts7d.Int64 > 0 {
		tiktokGrowing = recent.TikTokPosts7d.Int64 > baseline.TikTokPosts7d.Int64
	}

	spotifyGrowing := false
	if recent.SpotifyStreams7d.Valid && baseline.SpotifyStreams7d.Valid && baseline.SpotifyStreams7d.Int64 > 0 {
		spotifyGrowing = recent.SpotifyStreams7d.Int64 > baseline.SpotifyStreams7d.Int64
	}

	return tiktokGrowing && spotifyGrowing
}

// TikTokChartEntry reports whether any observation in the lookback window
// carries a TikTok chart position.
func TikTokChartEntry(h *History, lookbackDays int) bool {
	for _, m := range h.metricsSince(lookbackDays) {
		if m.TikTokChartPosition.Valid {
			return true
		}
	}
	return false
}
