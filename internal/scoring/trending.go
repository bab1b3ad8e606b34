package scoring

import (
	"fmt"

	"github.com/klangspor/track-radar/internal/features"
)

// ChartLookbackDays is the window checked for chart appearances when scoring
// trending momentum.
const ChartLookbackDays = 30

// TrendingScorer computes short-term cross-platform momentum scores (0-100).
type TrendingScorer struct {
	cfg Config
}

func NewTrendingScorer(cfg Config) (*TrendingScorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return &TrendingScorer{cfg: cfg}, nil
}

// TrendingResult is a single scoring outcome. PassesThreshold is independent
// of the numeric score: a high-scoring track can still be ineligible.
type TrendingResult struct {
	Score           float64
	Components      TrendingComponents
	PassesThreshold bool
}

// Score computes the trending score for one track from its metric history.
// Stateless and single-pass: scoring the same history twice yields identical
// results.
func (s *TrendingScorer) Score(h *features.History) TrendingResult {
	c := TrendingComponents{
		TikTokPostsVelocity: s.cfg.normalizeVelocity(features.TikTokPostsVelocity(h).Float()),
		TikTokViewsVelocity: s.cfg.normalizeVelocity(features.TikTokViewsVelocity(h).Float()),
		SpotifyStreamGrowth: s.cfg.normalizeVelocity(features.SpotifyStreamGrowth(h).Float()),
		PlaylistGrowth:      s.cfg.normalizeVelocity(features.PlaylistGrowth(h).Float()),
	}
	if features.CrossPlatformConfirmed(h) {
		c.CrossPlatformBoost = 1.0
	}
	if features.TikTokChartEntry(h, ChartLookbackDays) || features.SpotifyChartPresence(h, ChartLookbackDays) {
		c.ChartEntryBonus = 1.0
	}

	return TrendingResult{
		Score:           c.weightedTotal(s.cfg.Trending) * 100,
		Components:      c,
		PassesThreshold: s.passesThresholds(h),
	}
}

// passesThresholds requires a fresh snapshot, minimum per-platform activity
// where that platform reported at all, and enough recent observations.
// Absence of a platform's data does not fail the gate; presence below the
// floor does.
func (s *TrendingScorer) passesThresholds(h *features.History) bool {
	t := s.cfg.Thresholds

	recent := h.LatestWithin(features.VelocityShortDays)
	if recent == nil {
		return false
	}

	if recent.TikTokPosts7d.Valid && recent.TikTokPosts7d.Int64 < t.TrendingMinTikTokPosts7d {
		return false
	}
	if recent.SpotifyStreams7d.Valid && recent.SpotifyStreams7d.Int64 < t.TrendingMinSpotifyStreams7d {
		return false
	}

	return features.DataPointCount(h, features.VelocityLongDays) >= t.TrendingMinDataPoints
}
