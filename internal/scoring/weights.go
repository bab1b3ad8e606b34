// Package scoring combines extracted features into deterministic 0-100
// discovery scores. Transparent, auditable arithmetic only: every score can
// be reproduced from its component breakdown.
package scoring

import (
	"fmt"
	"math"
)

// weightTolerance is the allowed numeric slack when checking that a weight
// table sums to 1.0.
const weightTolerance = 0.001

// TrendingWeights maps each trending feature to its contribution fraction.
// The weights must sum to 1.0.
type TrendingWeights struct {
	TikTokPostsVelocity float64
	TikTokViewsVelocity float64
	SpotifyStreamGrowth float64
	PlaylistGrowth      float64
	CrossPlatformBoost  float64
	ChartEntryBonus     float64
}

func (w TrendingWeights) sum() float64 {
	return w.TikTokPostsVelocity + w.TikTokViewsVelocity + w.SpotifyStreamGrowth +
		w.PlaylistGrowth + w.CrossPlatformBoost + w.ChartEntryBonus
}

// EvergreenWeights maps each evergreen feature to its contribution fraction.
// The weights must sum to 1.0.
type EvergreenWeights struct {
	StreamConsistency float64
	ActiveMonthsRatio float64
	LowVarianceBonus  float64
	ChartPersistence  float64
}

func (w EvergreenWeights) sum() float64 {
	return w.StreamConsistency + w.ActiveMonthsRatio + w.LowVarianceBonus +
		w.ChartPersistence
}

// Thresholds are the minimum-support gates. A track below them is excluded
// from selection regardless of its numeric score.
type Thresholds struct {
	TrendingMinTikTokPosts7d    int64
	TrendingMinSpotifyStreams7d int64
	TrendingMinDataPoints       int

	EvergreenMinActiveMonths int
	EvergreenMinDataPoints   int
	EvergreenMinAvgStreams   float64
}

// Normalization bounds map raw velocity ratios onto [0,1]: no growth scores
// 0, MaxVelocity-fold growth or better scores 1.
type Normalization struct {
	MinVelocity float64
	MaxVelocity float64
}

// Config is the full scoring configuration. It is constructed once at
// startup, validated, and passed explicitly into the scorers; there is no
// mutable global state.
type Config struct {
	Trending      TrendingWeights
	Evergreen     EvergreenWeights
	Thresholds    Thresholds
	Normalization Normalization
}

// Default returns the production weight tables and gates.
func Default() Config {
	return Config{
		Trending: TrendingWeights{
			TikTokPostsVelocity: 0.30,
			TikTokViewsVelocity: 0.20,
			SpotifyStreamGrowth: 0.20,
			PlaylistGrowth:      0.15,
			CrossPlatformBoost:  0.10,
			ChartEntryBonus:     0.05,
		},
		Evergreen: EvergreenWeights{
			StreamConsistency: 0.40,
			ActiveMonthsRatio: 0.30,
			LowVarianceBonus:  0.20,
			ChartPersistence:  0.10,
		},
		Thresholds: Thresholds{
			TrendingMinTikTokPosts7d:    50,
			TrendingMinSpotifyStreams7d: 10000,
			TrendingMinDataPoints:       7,
			EvergreenMinActiveMonths:    6,
			EvergreenMinDataPoints:      90,
			EvergreenMinAvgStreams:      5000,
		},
		Normalization: Normalization{
			MinVelocity: 1.0,
			MaxVelocity: 10.0,
		},
	}
}

// Validate checks the weight tables. A weight table that does not sum to 1.0
// is a fatal configuration error: any score computed under it would be
// meaningless, so validation failure must prevent scoring entirely.
func (c Config) Validate() error {
	if sum := c.Trending.sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("trending weights sum to %v, not 1.0", sum)
	}
	if sum := c.Evergreen.sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("evergreen weights sum to %v, not 1.0", sum)
	}
	if c.Normalization.MaxVelocity <= c.Normalization.MinVelocity {
		return fmt.Errorf("velocity normalization bounds inverted: [%v, %v]",
			c.Normalization.MinVelocity, c.Normalization.MaxVelocity)
	}
	return nil
}

// normalizeVelocity maps a raw growth ratio onto [0,1] by linear
// interpolation between the configured floor and ceiling. All velocity-type
// features share the same map.
func (c Config) normalizeVelocity(ratio float64) float64 {
	n := c.Normalization
	if ratio <= n.MinVelocity {
		return 0
	}
	if ratio >= n.MaxVelocity {
		return 1
	}
	return (ratio - n.MinVelocity) / (n.MaxVelocity - n.MinVelocity)
}
