package scoring

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/klangspor/track-radar/internal/features"
	"github.com/klangspor/track-radar/internal/store"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testHistory(t *testing.T, firstDiscovered time.Time, metrics []store.Metric) *features.History {
	t.Helper()
	return &features.History{
		Track: store.Track{
			ID:              "track-1",
			Title:           "Test Track",
			ArtistName:      "Test Artist",
			FirstDiscovered: firstDiscovered,
		},
		Metrics: metrics,
		Now:     testNow,
	}
}

func n(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

// viralHistory is a track growing 10x on TikTok with confirmed Spotify growth:
// daily snapshots for the past 30 days, the recent week far above the baseline.
func viralHistory(t *testing.T) *features.History {
	t.Helper()
	var metrics []store.Metric
	for daysAgo := 29; daysAgo >= 0; daysAgo-- {
		m := store.Metric{
			TrackID:   "track-1",
			Timestamp: testNow.AddDate(0, 0, -daysAgo),
		}
		if daysAgo <= 6 {
			m.TikTokPosts7d = n(5000)
			m.TikTokViews7d = n(5000000)
			m.SpotifyStreams7d = n(300000)
			m.SpotifyPlaylistCount = n(120)
		} else {
			m.TikTokPosts7d = n(500)
			m.TikTokViews7d = n(500000)
			m.SpotifyStreams7d = n(60000)
			m.SpotifyPlaylistCount = n(40)
		}
		metrics = append(metrics, m)
	}
	return testHistory(t, testNow.AddDate(0, -2, 0), metrics)
}

// stableHistory is a long-lived track with very consistent streaming: daily
// snapshots for a year at a steady 8000 streams.
func stableHistory(t *testing.T) *features.History {
	t.Helper()
	var metrics []store.Metric
	for daysAgo := 364; daysAgo >= 0; daysAgo-- {
		m := store.Metric{
			TrackID:   "track-1",
			Timestamp: testNow.AddDate(0, 0, -daysAgo),
		}
		m.SpotifyStreams = n(8000)
		m.SpotifyStreams7d = n(56000)
		metrics = append(metrics, m)
	}
	return testHistory(t, testNow.AddDate(-2, 0, 0), metrics)
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Trending.TikTokPostsVelocity = 0.5 // sum is now 1.2
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation to fail for weights not summing to 1.0")
	}
	if _, err := NewTrendingScorer(cfg); err == nil {
		t.Error("Expected scorer construction to fail on invalid config")
	}

	cfg = Default()
	cfg.Evergreen.ChartPersistence = 0.5
	if _, err := NewEvergreenScorer(cfg); err == nil {
		t.Error("Expected scorer construction to fail on invalid evergreen weights")
	}

	cfg = Default()
	cfg.Normalization.MaxVelocity = 0.5
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation to fail on inverted normalization bounds")
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}
}

func TestTrendingScoreViralTrack(t *testing.T) {
	scorer, err := NewTrendingScorer(Default())
	if err != nil {
		t.Fatalf("NewTrendingScorer error: %v", err)
	}

	h := viralHistory(t)
	result := scorer.Score(h)

	if !result.PassesThreshold {
		t.Error("Expected a viral track to pass the eligibility gate")
	}
	// 10x growth saturates the velocity normalization.
	if result.Components.TikTokPostsVelocity != 1.0 {
		t.Errorf("TikTokPostsVelocity = %v, want 1.0", result.Components.TikTokPostsVelocity)
	}
	if result.Components.CrossPlatformBoost != 1.0 {
		t.Error("Expected cross-platform boost for growth on both platforms")
	}
	// No chart entries in the fixture.
	if result.Components.ChartEntryBonus != 0 {
		t.Error("Expected no chart bonus without chart positions")
	}
	if result.Score < 60 || result.Score > 100 {
		t.Errorf("Score = %v, want a high score in (60, 100]", result.Score)
	}
}

func TestTrendingScoreIdempotent(t *testing.T) {
	scorer, err := NewTrendingScorer(Default())
	if err != nil {
		t.Fatalf("NewTrendingScorer error: %v", err)
	}

	h := viralHistory(t)
	first := scorer.Score(h)
	second := scorer.Score(h)
	if first.Score != second.Score {
		t.Errorf("Scoring is not deterministic: %v then %v", first.Score, second.Score)
	}
	if first.Components != second.Components {
		t.Errorf("Components differ: %+v vs %+v", first.Components, second.Components)
	}
}

func TestTrendingGate(t *testing.T) {
	scorer, err := NewTrendingScorer(Default())
	if err != nil {
		t.Fatalf("NewTrendingScorer error: %v", err)
	}

	// No snapshot in the last week.
	stale := store.Metric{TrackID: "track-1", Timestamp: testNow.AddDate(0, 0, -10)}
	h := testHistory(t, testNow.AddDate(0, -1, 0), []store.Metric{stale})
	if scorer.Score(h).PassesThreshold {
		t.Error("Expected gate failure without a fresh snapshot")
	}

	// Fresh but reported activity below the floor.
	var metrics []store.Metric
	for daysAgo := 9; daysAgo >= 0; daysAgo-- {
		m := store.Metric{TrackID: "track-1", Timestamp: testNow.AddDate(0, 0, -daysAgo)}
		m.TikTokPosts7d = n(10) // below the 50-post floor
		metrics = append(metrics, m)
	}
	h = testHistory(t, testNow.AddDate(0, -1, 0), metrics)
	if scorer.Score(h).PassesThreshold {
		t.Error("Expected gate failure with TikTok activity below the floor")
	}

	// Fresh, floors satisfied, but too few observations.
	metrics = nil
	for daysAgo := 4; daysAgo >= 0; daysAgo-- {
		m := store.Metric{TrackID: "track-1", Timestamp: testNow.AddDate(0, 0, -daysAgo)}
		m.TikTokPosts7d = n(200)
		m.SpotifyStreams7d = n(20000)
		metrics = append(metrics, m)
	}
	h = testHistory(t, testNow.AddDate(0, -1, 0), metrics)
	if scorer.Score(h).PassesThreshold {
		t.Error("Expected gate failure with too few data points")
	}

	// A platform that never reported does not fail the floor check.
	metrics = nil
	for daysAgo := 9; daysAgo >= 0; daysAgo-- {
		m := store.Metric{TrackID: "track-1", Timestamp: testNow.AddDate(0, 0, -daysAgo)}
		m.SpotifyStreams7d = n(20000)
		metrics = append(metrics, m)
	}
	h = testHistory(t, testNow.AddDate(0, -1, 0), metrics)
	if !scorer.Score(h).PassesThreshold {
		t.Error("Expected gate pass when TikTok simply has no data")
	}
}

func TestEvergreenScoreStableTrack(t *testing.T) {
	scorer, err := NewEvergreenScorer(Default())
	if err != nil {
		t.Fatalf("NewEvergreenScorer error: %v", err)
	}

	h := stableHistory(t)
	result := scorer.Score(h)

	if !result.PassesThreshold {
		t.Error("Expected a stable year-old track to pass the gate")
	}
	if result.Components.StreamConsistency != 1.0 {
		t.Errorf("StreamConsistency = %v, want 1.0 for constant streams", result.Components.StreamConsistency)
	}
	if result.Components.LowVarianceBonus != 1.0 {
		t.Errorf("LowVarianceBonus = %v, want the full bonus", result.Components.LowVarianceBonus)
	}
	if result.Components.ActiveMonthsRatio != 1.0 {
		t.Errorf("ActiveMonthsRatio = %v, want 1.0 for daily activity", result.Components.ActiveMonthsRatio)
	}
	// 0.40 + 0.30 + 0.20 with no chart presence.
	if math.Abs(result.Score-90) > 0.001 {
		t.Errorf("Score = %v, want 90", result.Score)
	}
}

func TestEvergreenGate(t *testing.T) {
	scorer, err := NewEvergreenScorer(Default())
	if err != nil {
		t.Fatalf("NewEvergreenScorer error: %v", err)
	}

	// Plenty of observations but no streaming data at all: the average is
	// undefined, which must fail the gate rather than pass as zero.
	var metrics []store.Metric
	for daysAgo := 200; daysAgo >= 0; daysAgo-- {
		m := store.Metric{TrackID: "track-1", Timestamp: testNow.AddDate(0, 0, -daysAgo)}
		m.TikTokPosts7d = n(100)
		metrics = append(metrics, m)
	}
	h := testHistory(t, testNow.AddDate(-1, 0, 0), metrics)
	if scorer.Score(h).PassesThreshold {
		t.Error("Expected gate failure without any streaming data")
	}

	// Too few data points.
	h = stableHistory(t)
	h.Metrics = h.Metrics[len(h.Metrics)-30:]
	if scorer.Score(h).PassesThreshold {
		t.Error("Expected gate failure with 30 data points")
	}

	// Streams below the minimum average.
	var low []store.Metric
	for daysAgo := 364; daysAgo >= 0; daysAgo-- {
		m := store.Metric{TrackID: "track-1", Timestamp: testNow.AddDate(0, 0, -daysAgo)}
		m.SpotifyStreams = n(1000)
		low = append(low, m)
	}
	h = testHistory(t, testNow.AddDate(-2, 0, 0), low)
	if scorer.Score(h).PassesThreshold {
		t.Error("Expected gate failure with average streams below the floor")
	}
}

func TestLowVarianceBonusTiers(t *testing.T) {
	cases := []struct {
		consistency float64
		want        float64
	}{
		{0.95, 1.0},
		{0.81, 1.0},
		{0.8, 0.5},
		{0.7, 0.5},
		{0.6, 0.0},
		{0.2, 0.0},
	}
	for _, c := range cases {
		if got := lowVarianceBonus(c.consistency); got != c.want {
			t.Errorf("lowVarianceBonus(%v) = %v, want %v", c.consistency, got, c.want)
		}
	}
}

func TestNormalizeVelocity(t *testing.T) {
	cfg := Default()
	cases := []struct {
		ratio float64
		want  float64
	}{
		{0, 0},
		{1.0, 0},  // no growth
		{10.0, 1}, // saturates at the ceiling
		{15.0, 1},
		{5.5, 0.5},
	}
	for _, c := range cases {
		if got := cfg.normalizeVelocity(c.ratio); math.Abs(got-c.want) > 0.0001 {
			t.Errorf("normalizeVelocity(%v) = %v, want %v", c.ratio, got, c.want)
		}
	}
}
