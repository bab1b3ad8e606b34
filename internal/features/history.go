package features

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/klangspor/track-radar/internal/store"
)

// HistoryWindowDays is the span of metric history loaded per track. It covers
// the longest lookback any extractor uses (the 365-day evergreen window).
const HistoryWindowDays = 365

// History is a track's metric window, fetched once and shared by all feature
// extractors so that scoring issues a single store round-trip per track.
// Metrics are ordered oldest first. Now is the evaluation time; using a fixed
// time keeps a scoring pass deterministic even while ingestion appends rows.
type History struct {
	Track   store.Track
	Metrics []store.Metric
	Now     time.Time
}

// LoadHistory fetches the trailing metric window for a track.
func LoadHistory(s *store.Store, track store.Track, now time.Time) (*History, error) {
	since := now.AddDate(0, 0, -HistoryWindowDays)
	metrics, err := s.MetricsSince(track.ID, since)
	if err != nil {
		return nil, fmt.Errorf("loading history for %q: %w", track.ID, err)
	}
	return &History{Track: track, Metrics: metrics, Now: now}, nil
}

// LatestWithin returns the most recent observation no older than days, or nil.
func (h *History) LatestWithin(days int) *store.Metric {
	cutoff := h.Now.AddDate(0, 0, -days)
	for i := len(h.Metrics) - 1; i >= 0; i-- {
		m := &h.Metrics[i]
		if !m.Timestamp.Before(cutoff) {
			return m
		}
	}
	return nil
}

// LatestBetween returns the most recent observation in the window
// (now-longDays, now-shortDays], i.e. the baseline snapshot for velocity
// features, or nil.
func (h *History) LatestBetween(longDays, shortDays int) *store.Metric {
	lower := h.Now.AddDate(0, 0, -longDays)
	upper := h.Now.AddDate(0, 0, -shortDays)
	for i := len(h.Metrics) - 1; i >= 0; i-- {
		m := &h.Metrics[i]
		if m.Timestamp.Before(upper) && !m.Timestamp.Before(lower) {
			return m
		}
	}
	return nil
}

// Latest returns the most recent observation in the window, or nil.
func (h *History) Latest() *store.Metric {
	if len(h.Metrics) == 0 {
		return nil
	}
	return &h.Metrics[len(h.Metrics)-1]
}

// CountSince counts observations no older than days.
func (h *History) CountSince(days int) int {
	cutoff := h.Now.AddDate(0, 0, -days)
	count := 0
	for i := range h.Metrics {
		if !h.Metrics[i].Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}

// metricsSince returns the observations no older than days, oldest first.
func (h *History) metricsSince(days int) []store.Metric {
	cutoff := h.Now.AddDate(0, 0, -days)
	for i := range h.Metrics {
		if !h.Metrics[i].Timestamp.Before(cutoff) {
			return h.Metrics[i:]
		}
	}
	return nil
}

// velocity computes recent/baseline for a pair of optional metric fields.
// Missing snapshots or null fields are no signal. A zero baseline with
// positive recent activity means unbounded growth and returns the cap.
func velocity(recent, baseline *store.Metric, field func(*store.Metric) sql.NullInt64, maxRatio float64) Value {
	if recent == nil || baseline == nil {
		return NoSignal()
	}
	r := field(recent)
	b := field(baseline)
	if !r.Valid || !b.Valid {
		return NoSignal()
	}
	if b.Int64 == 0 {
		if r.Int64 > 0 {
			return Signal(maxRatio)
		}
		return Signal(0)
	}
	return Signal(float64(r.Int64) / float64(b.Int64))
}
