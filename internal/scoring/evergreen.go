package scoring

import (
	"fmt"

	"github.com/klangspor/track-radar/internal/features"
)

// Evergreen lookback windows. Stability claims need long horizons.
const (
	ConsistencyLookbackDays      = 180
	ActiveMonthsLookbackDays     = 365
	EvergreenChartLookbackDays   = 180
	EvergreenStreamsLookbackDays = 180
)

// EvergreenScorer computes long-term streaming stability scores (0-100).
// Evergreen is not viral: the target is predictable cashflow, low variance
// and continuous presence.
type EvergreenScorer struct {
	cfg Config
}

func NewEvergreenScorer(cfg Config) (*EvergreenScorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return &EvergreenScorer{cfg: cfg}, nil
}

type EvergreenResult struct {
	Score           float64
	Components      EvergreenComponents
	PassesThreshold bool
}

// Score computes the evergreen score for one track from its metric history.
func (s *EvergreenScorer) Score(h *features.History) EvergreenResult {
	consistency := features.StreamConsistency(h, ConsistencyLookbackDays).Float()

	c := EvergreenComponents{
		StreamConsistency: consistency,
		ActiveMonthsRatio: features.ActiveMonthsRatio(h, ActiveMonthsLookbackDays).Float(),
		LowVarianceBonus:  lowVarianceBonus(consistency),
	}
	if features.SpotifyChartPresence(h, EvergreenChartLookbackDays) {
		c.ChartPersistence = 1.0
	}

	return EvergreenResult{
		Score:           c.weightedTotal(s.cfg.Evergreen) * 100,
		Components:      c,
		PassesThreshold: s.passesThresholds(h),
	}
}

// lowVarianceBonus is a discretized emphasis on already-stable tracks,
// derived from the consistency value rather than measured independently.
func lowVarianceBonus(consistency float64) float64 {
	switch {
	case consistency > 0.8:
		return 1.0
	case consistency > 0.6:
		return 0.5
	default:
		return 0.0
	}
}

func (s *EvergreenScorer) passesThresholds(h *features.History) bool {
	t := s.cfg.Thresholds

	if features.DataPointCount(h, ActiveMonthsLookbackDays) < t.EvergreenMinDataPoints {
		return false
	}

	activeRatio := features.ActiveMonthsRatio(h, ActiveMonthsLookbackDays).Float()
	if activeRatio < float64(t.EvergreenMinActiveMonths)/12 {
		return false
	}

	avgStreams := features.AverageStreams(h, EvergreenStreamsLookbackDays)
	if !avgStreams.HasSignal() {
		// No streaming metrics in the window at all.
		return false
	}
	return avgStreams.Float() >= t.EvergreenMinAvgStreams
}
