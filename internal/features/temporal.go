package features

// AgeDays is the track's age in days since it was first discovered.
func AgeDays(h *History) int {
	return int(h.Now.Sub(h.Track.FirstDiscovered).Hours() / 24)
}

// RecencyScore grades data freshness on a fixed staircase: same-day data is
// worth 1.0, data older than two months is worth nothing.
func RecencyScore(h *History) float64 {
	latest := h.Latest()
	if latest == nil {
		return 0
	}

	daysOld := int(h.Now.Sub(latest.Timestamp).Hours() / 24)
	switch {
	case daysOld <= 1:
		return 1.0
	case daysOld <= 7:
		return 0.9
	case daysOld <= 30:
		return 0.5
	case daysOld <= 60:
		return 0.2
	default:
		return 0.0
	}
}

// DataPointCount counts observations in the lookback window. More data means
// higher confidence in the derived scores.
func DataPointCount(h *History, lookbackDays int) int {
	return h.CountSince(lookbackDays)
}
