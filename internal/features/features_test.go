package features

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/klangspor/track-radar/internal/store"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testHistory(t *testing.T, metrics []store.Metric) *History {
	t.Helper()
	return &History{
		Track: store.Track{
			ID:              "track-1",
			Title:           "Test Track",
			ArtistName:      "Test Artist",
			FirstDiscovered: testNow.AddDate(-1, 0, 0),
		},
		Metrics: metrics,
		Now:     testNow,
	}
}

func metricAt(daysAgo int) store.Metric {
	return store.Metric{
		TrackID:   "track-1",
		Timestamp: testNow.AddDate(0, 0, -daysAgo),
	}
}

func n(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func approx(t *testing.T, got, want float64, context string) {
	t.Helper()
	if math.Abs(got-want) > 0.0001 {
		t.Errorf("%s = %v, want %v", context, got, want)
	}
}

func TestTikTokPostsVelocity(t *testing.T) {
	recent := metricAt(1)
	recent.TikTokPosts7d = n(500)
	baseline := metricAt(14)
	baseline.TikTokPosts7d = n(100)

	h := testHistory(t, []store.Metric{baseline, recent})
	v := TikTokPostsVelocity(h)
	if !v.HasSignal() {
		t.Fatal("Expected a signal with both snapshots present")
	}
	approx(t, v.Float(), 5.0, "TikTokPostsVelocity")
}

func TestVelocityZeroBaseline(t *testing.T) {
	recent := metricAt(1)
	recent.TikTokPosts7d = n(500)
	baseline := metricAt(14)
	baseline.TikTokPosts7d = n(0)

	h := testHistory(t, []store.Metric{baseline, recent})
	// Zero baseline with new activity means unbounded growth: capped.
	approx(t, TikTokPostsVelocity(h).Float(), VelocityCap, "velocity with zero baseline")

	recent.TikTokPosts7d = n(0)
	h = testHistory(t, []store.Metric{baseline, recent})
	v := TikTokPostsVelocity(h)
	if !v.HasSignal() {
		t.Error("Two measured zeros are still evidence, not absence")
	}
	approx(t, v.Float(), 0, "velocity with both zero")
}

func TestVelocityMissingData(t *testing.T) {
	// No baseline snapshot at all.
	recent := metricAt(1)
	recent.TikTokPosts7d = n(500)
	h := testHistory(t, []store.Metric{recent})
	if TikTokPostsVelocity(h).HasSignal() {
		t.Error("Expected no signal without a baseline snapshot")
	}

	// Snapshots exist but the field was never reported.
	baseline := metricAt(14)
	h = testHistory(t, []store.Metric{baseline, recent})
	if TikTokPostsVelocity(h).HasSignal() {
		t.Error("Expected no signal when the baseline field is null")
	}

	// Empty history.
	h = testHistory(t, nil)
	if TikTokPostsVelocity(h).HasSignal() {
		t.Error("Expected no signal on empty history")
	}
}

func TestCrossPlatformConfirmed(t *testing.T) {
	recent := metricAt(1)
	recent.TikTokPosts7d = n(500)
	recent.SpotifyStreams7d = n(50000)
	baseline := metricAt(14)
	baseline.TikTokPosts7d = n(100)
	baseline.SpotifyStreams7d = n(20000)

	h := testHistory(t, []store.Metric{baseline, recent})
	if !CrossPlatformConfirmed(h) {
		t.Error("Expected cross-platform confirmation when both grow")
	}

	// Growth on TikTok only.
	recent.SpotifyStreams7d = n(10000)
	h = testHistory(t, []store.Metric{baseline, recent})
	if CrossPlatformConfirmed(h) {
		t.Error("Expected no confirmation with single-platform growth")
	}

	// Spotify absent entirely: absence is not growth.
	recent.SpotifyStreams7d = sql.NullInt64{}
	h = testHistory(t, []store.Metric{baseline, recent})
	if CrossPlatformConfirmed(h) {
		t.Error("Expected no confirmation when one platform is unreported")
	}
}

func TestStreamConsistencyRequiresEnoughPoints(t *testing.T) {
	var metrics []store.Metric
	for i := ConsistencyMinPoints - 1; i >= 1; i-- {
		m := metricAt(i)
		m.SpotifyStreams = n(10000)
		metrics = append(metrics, m)
	}
	h := testHistory(t, metrics)
	if StreamConsistency(h, 180).HasSignal() {
		t.Errorf("Expected no signal with %d points", ConsistencyMinPoints-1)
	}

	m := metricAt(ConsistencyMinPoints)
	m.SpotifyStreams = n(10000)
	metrics = append([]store.Metric{m}, metrics...)
	h = testHistory(t, metrics)
	v := StreamConsistency(h, 180)
	if !v.HasSignal() {
		t.Fatalf("Expected a signal with %d points", ConsistencyMinPoints)
	}
	// Identical values: zero variance, perfect consistency.
	approx(t, v.Float(), 1.0, "consistency of constant streams")
}

func TestStreamConsistencyErraticStreams(t *testing.T) {
	var metrics []store.Metric
	values := []int64{100, 90000, 50, 70000, 200, 80000}
	for i := 36; i >= 1; i-- {
		m := metricAt(i)
		m.SpotifyStreams = n(values[i%len(values)])
		metrics = append(metrics, m)
	}
	h := testHistory(t, metrics)
	v := StreamConsistency(h, 180)
	if !v.HasSignal() {
		t.Fatal("Expected a signal")
	}
	if v.Float() > 0.3 {
		t.Errorf("Expected erratic streams to score low, got %v", v.Float())
	}
}

func TestActiveMonthsRatio(t *testing.T) {
	// One observation per month for six distinct months.
	var metrics []store.Metric
	for i := 5; i >= 0; i-- {
		m := store.Metric{
			TrackID:   "track-1",
			Timestamp: testNow.AddDate(0, -i, -3),
		}
		m.SpotifyStreams = n(8000)
		metrics = append(metrics, m)
	}
	h := testHistory(t, metrics)
	v := ActiveMonthsRatio(h, 365)
	if !v.HasSignal() {
		t.Fatal("Expected a signal")
	}
	approx(t, v.Float(), 6/(365.0/30), "ActiveMonthsRatio")

	// No streaming activity at all.
	h = testHistory(t, []store.Metric{metricAt(5)})
	if ActiveMonthsRatio(h, 365).HasSignal() {
		t.Error("Expected no signal without streaming activity")
	}
}

func TestAverageStreams(t *testing.T) {
	m1 := metricAt(3)
	m1.SpotifyStreams = n(6000)
	m2 := metricAt(2)
	m2.SpotifyStreams = n(8000)
	m3 := metricAt(1)
	m3.SpotifyStreams = n(0) // zero days are excluded from the mean

	h := testHistory(t, []store.Metric{m1, m2, m3})
	v := AverageStreams(h, 180)
	if !v.HasSignal() {
		t.Fatal("Expected a signal")
	}
	approx(t, v.Float(), 7000, "AverageStreams")

	h = testHistory(t, nil)
	if AverageStreams(h, 180).HasSignal() {
		t.Error("Expected no signal on empty history")
	}
}

func TestRecencyScore(t *testing.T) {
	cases := []struct {
		daysAgo int
		want    float64
	}{
		{0, 1.0},
		{5, 0.9},
		{20, 0.5},
		{45, 0.2},
		{90, 0.0},
	}
	for _, c := range cases {
		h := testHistory(t, []store.Metric{metricAt(c.daysAgo)})
		if got := RecencyScore(h); got != c.want {
			t.Errorf("RecencyScore(%d days old) = %v, want %v", c.daysAgo, got, c.want)
		}
	}

	if got := RecencyScore(testHistory(t, nil)); got != 0 {
		t.Errorf("RecencyScore(no data) = %v, want 0", got)
	}
}

func TestLatestBetween(t *testing.T) {
	old := metricAt(40)
	mid := metricAt(14)
	fresh := metricAt(2)
	h := testHistory(t, []store.Metric{old, mid, fresh})

	baseline := h.LatestBetween(VelocityLongDays, VelocityShortDays)
	if baseline == nil {
		t.Fatal("Expected a baseline snapshot")
	}
	if !baseline.Timestamp.Equal(mid.Timestamp) {
		t.Errorf("Expected the 14-day-old snapshot, got %v", baseline.Timestamp)
	}

	// Only a fresh snapshot: no baseline in the window.
	h = testHistory(t, []store.Metric{fresh})
	if h.LatestBetween(VelocityLongDays, VelocityShortDays) != nil {
		t.Error("Expected no baseline with only fresh data")
	}
}

func TestValueFloatCollapsesNoSignal(t *testing.T) {
	if NoSignal().Float() != 0 {
		t.Error("NoSignal must collapse to 0 for arithmetic")
	}
	if !Signal(0).HasSignal() {
		t.Error("A measured zero is a signal")
	}
	if Signal(3.5).Float() != 3.5 {
		t.Error("Signal must preserve its value")
	}
}
