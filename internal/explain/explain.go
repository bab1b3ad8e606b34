// Package explain translates score components into the ordered,
// human-readable justifications shown to A&R reviewers. Every rule is a
// plain threshold check producing a fixed sentence: no black boxes, and no
// "the system decided".
package explain

import (
	"fmt"

	"github.com/klangspor/track-radar/internal/features"
	"github.com/klangspor/track-radar/internal/scoring"
)

// Explanation is the reviewer-facing output for one score: positive reasons
// first, caveats second. Both lists keep rule order, so the leading reason is
// always the strongest signal.
type Explanation struct {
	WhySelected []string
	RiskFlags   []string
}

// Trending explains a trending score. Raw velocity ratios are recomputed from
// the same history so the sentences can quote actual multipliers rather than
// normalized values.
func Trending(h *features.History, c scoring.TrendingComponents) Explanation {
	var e Explanation

	if c.TikTokPostsVelocity > 0.5 {
		v := features.TikTokPostsVelocity(h).Float()
		e.why("TikTok posts growing %.1fx (7d vs 30d)", v)
	}
	if c.TikTokViewsVelocity > 0.5 {
		v := features.TikTokViewsVelocity(h).Float()
		e.why("TikTok views accelerating %.1fx", v)
	}
	if c.SpotifyStreamGrowth > 0.5 {
		v := features.SpotifyStreamGrowth(h).Float()
		e.why("Spotify streams up %.1fx in past week", v)
	}
	if c.PlaylistGrowth > 0.5 {
		e.why("Adding to Spotify playlists rapidly")
	}

	if c.CrossPlatformBoost == 1.0 {
		e.why("Growing on BOTH TikTok and Spotify (high confidence)")
	} else {
		e.risk("Single-platform growth only (may not translate)")
	}

	if c.ChartEntryBonus == 1.0 {
		e.why("Appeared on TikTok or Spotify charts")
	}

	if age := features.AgeDays(h); age < 7 {
		e.risk("Very new to system (%d days) - limited data", age)
	}
	if points := features.DataPointCount(h, features.VelocityLongDays); points < 15 {
		e.risk("Limited historical data (%d points)", points)
	}

	if recent := h.LatestWithin(features.VelocityShortDays); recent != nil {
		if !recent.TikTokPosts7d.Valid || recent.TikTokPosts7d.Int64 < 50 {
			e.risk("Low/no TikTok presence")
		}
		if !recent.SpotifyStreams7d.Valid || recent.SpotifyStreams7d.Int64 < 10000 {
			e.risk("Low Spotify streams")
		}
	}

	return e
}

// Evergreen explains an evergreen score.
func Evergreen(h *features.History, c scoring.EvergreenComponents) Explanation {
	var e Explanation

	switch {
	case c.StreamConsistency > 0.8:
		e.why("Extremely consistent streams (CV score: %.2f)", c.StreamConsistency)
	case c.StreamConsistency > 0.6:
		e.why("Stable streaming pattern (CV score: %.2f)", c.StreamConsistency)
	default:
		e.risk("Some variance in streams (CV score: %.2f)", c.StreamConsistency)
	}

	switch {
	case c.ActiveMonthsRatio > 0.9:
		e.why("Active %d/12 months in past year", int(c.ActiveMonthsRatio*12))
	case c.ActiveMonthsRatio > 0.7:
		e.why("Consistent presence (%d/12 months active)", int(c.ActiveMonthsRatio*12))
	default:
		e.risk("Gaps in streaming activity")
	}

	if c.LowVarianceBonus == 1.0 {
		e.why("Very low variance - highly predictable cashflow")
	}
	if c.ChartPersistence == 1.0 {
		e.why("Long-term chart presence (180+ days)")
	}

	if age := features.AgeDays(h); age < 180 {
		e.risk("Relatively new (%d days) - evergreen status unproven", age)
	}
	if points := features.DataPointCount(h, scoring.ActiveMonthsLookbackDays); points < 180 {
		e.risk("Limited long-term data (%d points)", points)
	}

	// Stability cuts both ways: an evergreen candidate should neither spike
	// nor decline.
	if growth := features.SpotifyStreamGrowth(h); growth.HasSignal() {
		if growth.Float() > 3.0 {
			e.risk("Currently experiencing viral growth - may destabilize")
		} else if growth.Float() < 0.7 {
			e.risk("Declining streams - may be losing evergreen status")
		}
	}

	return e
}

// Score modes, also used as discovery run types.
const (
	ModeTrending  = "trending"
	ModeEvergreen = "evergreen"
)

// Summary derives the one-sentence dashboard line: a severity tier from the
// score, plus the leading selection reason when there is one.
func Summary(mode string, score float64, whySelected []string) string {
	if mode == ModeTrending {
		var level string
		switch {
		case score > 80:
			level = "Strong"
		case score > 60:
			level = "Moderate"
		default:
			level = "Emerging"
		}
		summary := level + " momentum"
		if len(whySelected) > 0 {
			summary += ": " + whySelected[0]
		}
		return summary
	}

	var level string
	switch {
	case score > 80:
		level = "Highly stable"
	case score > 60:
		level = "Stable"
	default:
		level = "Moderately stable"
	}
	summary := level + " evergreen track"
	if len(whySelected) > 0 {
		summary += " - " + whySelected[0]
	}
	return summary
}

func (e *Explanation) why(format string, args ...any) {
	e.WhySelected = append(e.WhySelected, fmt.Sprintf(format, args...))
}

func (e *Explanation) risk(format string, args ...any) {
	e.RiskFlags = append(e.RiskFlags, fmt.Sprintf(format, args...))
}
