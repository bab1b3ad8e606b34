package scoring

// Component names as persisted in score records and shown to reviewers.
const (
	ComponentTikTokPostsVelocity = "tiktok_posts_velocity"
	ComponentTikTokViewsVelocity = "tiktok_views_velocity"
	ComponentSpotifyStreamGrowth = "spotify_stream_growth"
	ComponentPlaylistGrowth      = "playlist_growth"
	ComponentCrossPlatformBoost  = "cross_platform_boost"
	ComponentChartEntryBonus     = "chart_entry_bonus"

	ComponentStreamConsistency = "stream_consistency"
	ComponentActiveMonthsRatio = "active_months_ratio"
	ComponentLowVarianceBonus  = "low_variance_bonus"
	ComponentChartPersistence  = "chart_persistence"
)

// TrendingComponents is the normalized feature breakdown behind a trending
// score. All fields are in [0,1]; the bonus fields are exactly 0 or 1.
type TrendingComponents struct {
	TikTokPostsVelocity float64
	TikTokViewsVelocity float64
	SpotifyStreamGrowth float64
	PlaylistGrowth      float64
	CrossPlatformBoost  float64
	ChartEntryBonus     float64
}

// Map serializes the breakdown to the loosely-typed persisted form.
func (c TrendingComponents) Map() map[string]float64 {
	return map[string]float64{
		ComponentTikTokPostsVelocity: c.TikTokPostsVelocity,
		ComponentTikTokViewsVelocity: c.TikTokViewsVelocity,
		ComponentSpotifyStreamGrowth: c.SpotifyStreamGrowth,
		ComponentPlaylistGrowth:      c.PlaylistGrowth,
		ComponentCrossPlatformBoost:  c.CrossPlatformBoost,
		ComponentChartEntryBonus:     c.ChartEntryBonus,
	}
}

func (c TrendingComponents) weightedTotal(w TrendingWeights) float64 {
	return c.TikTokPostsVelocity*w.TikTokPostsVelocity +
		c.TikTokViewsVelocity*w.TikTokViewsVelocity +
		c.SpotifyStreamGrowth*w.SpotifyStreamGrowth +
		c.PlaylistGrowth*w.PlaylistGrowth +
		c.CrossPlatformBoost*w.CrossPlatformBoost +
		c.ChartEntryBonus*w.ChartEntryBonus
}

// EvergreenComponents is the normalized feature breakdown behind an evergreen
// score.
type EvergreenComponents struct {
	StreamConsistency float64
	ActiveMonthsRatio float64
	LowVarianceBonus  float64
	ChartPersistence  float64
}

// Map serializes the breakdown to the loosely-typed persisted form.
func (c EvergreenComponents) Map() map[string]float64 {
	return map[string]float64{
		ComponentStreamConsistency: c.StreamConsistency,
		ComponentActiveMonthsRatio: c.ActiveMonthsRatio,
		ComponentLowVarianceBonus:  c.LowVarianceBonus,
		ComponentChartPersistence:  c.ChartPersistence,
	}
}

func (c EvergreenComponents) weightedTotal(w EvergreenWeights) float64 {
	return c.StreamConsistency*w.StreamConsistency +
		c.ActiveMonthsRatio*w.ActiveMonthsRatio +
		c.LowVarianceBonus*w.LowVarianceBonus +
		c.ChartPersistence*w.ChartPersistence
}
