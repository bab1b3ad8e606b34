package features

import (
	"database/sql"
	"math"

	"github.com/klangspor/track-radar/internal/store"
)

const (
	// ConsistencyMinPoints is the minimum number of observations required
	// before a consistency value counts as evidence.
	ConsistencyMinPoints = 30

	// PlaylistGrowthCap is lower than the general velocity cap: playlist
	// counts move in much smaller steps than stream or post counts.
	PlaylistGrowthCap = 5.0
)

// SpotifyStreamGrowth is the growth ratio of 7-day stream counts.
func SpotifyStreamGrowth(h *History) Value {
	recent := h.LatestWithin(VelocityShortDays)
	baseline := h.LatestBetween(VelocityLongDays, VelocityShortDays)
	return velocity(recent, baseline, func(m *store.Metric) sql.NullInt64 {
		return m.SpotifyStreams7d
	}, VelocityCap)
}

// PlaylistGrowth is the growth ratio of playlist placements.
func PlaylistGrowth(h *History) Value {
	recent := h.LatestWithin(VelocityShortDays)
	baseline := h.LatestBetween(VelocityLongDays, VelocityShortDays)
	return velocity(recent, baseline, func(m *store.Metric) sql.NullInt64 {
		return m.SpotifyPlaylistCount
	}, PlaylistGrowthCap)
}

// StreamConsistency maps the coefficient of variation of daily stream counts
// to [0,1]: stable streams score near 1, erratic streams near 0. Fewer than
// ConsistencyMinPoints qualifying observations is insufficient evidence and
// yields no signal.
func StreamConsistency(h *History, lookbackDays int) Value {
	window := h.metricsSince(lookbackDays)

	count := 0
	var streams []float64
	for _, m := range window {
		if !m.SpotifyStreams.Valid {
			continue
		}
		count++
		if m.SpotifyStreams.Int64 > 0 {
			streams = append(streams, float64(m.SpotifyStreams.Int64))
		}
	}

	if count < ConsistencyMinPoints {
		return NoSignal()
	}
	if len(streams) == 0 {
		return NoSignal()
	}

	mean := meanOf(streams)
	if mean == 0 {
		return Signal(0)
	}
	cv := stdDevOf(streams, mean) / mean

	score := 1 - cv
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return Signal(score)
}

// ActiveMonthsRatio is the fraction of calendar months in the lookback window
// with positive streaming activity, clamped to [0,1].
func ActiveMonthsRatio(h *History, lookbackDays int) Value {
	window := h.metricsSince(lookbackDays)

	type monthKey struct {
		year  int
		month int
	}
	active := make(map[monthKey]struct{})
	for _, m := range window {
		if m.SpotifyStreams.Valid && m.SpotifyStreams.Int64 > 0 {
			active[monthKey{m.Timestamp.Year(), int(m.Timestamp.Month())}] = struct{}{}
		}
	}
	if len(active) == 0 {
		return NoSignal()
	}

	expected := float64(lookbackDays) / 30
	ratio := float64(len(active)) / expected
	if ratio > 1 {
		ratio = 1
	}
	return Signal(ratio)
}

// AverageStreams is the mean of positive daily stream counts in the lookback
// window. No streaming observations at all yields no signal.
func AverageStreams(h *History, lookbackDays int) Value {
	var streams []float64
	for _, m := range h.metricsSince(lookbackDays) {
		if m.SpotifyStreams.Valid && m.SpotifyStreams.Int64 > 0 {
			streams = append(streams, float64(m.SpotifyStreams.Int64))
		}
	}
	if len(streams) == 0 {
		return NoSignal()
	}
	return Signal(meanOf(streams))
}

// SpotifyChartPresence reports whether any observation in the lookback window
// carries a Spotify chart position.
func SpotifyChartPresence(h *History, lookbackDays int) bool {
	for _, m := range h.metricsSince(lookbackDays) {
		if m.SpotifyChartPosition.Valid {
			return true
		}
	}
	return false
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDevOf is the population standard deviation.
func stdDevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}
