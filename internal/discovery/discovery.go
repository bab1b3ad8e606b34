// Package discovery orchestrates the scoring pipeline across track
// collections: score, explain, filter, rank, persist, and batch-audit.
package discovery

import (
	"math"
	"sort"
	"time"
)

// Candidate is one ranked selection result. Plain values only, so callers
// outside the pipeline need no knowledge of scorer internals.
type Candidate struct {
	TrackID    string
	Title      string
	ArtistName string

	Score      float64
	Components map[string]float64

	Summary     string
	WhySelected []string
	RiskFlags   []string

	FirstDiscovered time.Time
}

// SelectOptions controls an in-memory selection pass.
type SelectOptions struct {
	// Limit caps the number of returned candidates. Zero or less means 50.
	Limit int

	// MinScore drops candidates scoring below it even when they pass the
	// eligibility gate.
	MinScore float64

	// MinMonths is the minimum months of history a track needs to be
	// considered at all. Only the evergreen selector uses it.
	MinMonths int

	// Workers bounds the parallel scoring fan-out. Scoring is read-only per
	// track, so tracks can be scored concurrently. Zero means 4.
	Workers int
}

const (
	defaultLimit   = 50
	defaultWorkers = 4
)

func (o SelectOptions) limit() int {
	if o.Limit <= 0 {
		return defaultLimit
	}
	return o.Limit
}

func (o SelectOptions) workers() int {
	if o.Workers <= 0 {
		return defaultWorkers
	}
	return o.Workers
}

// rankCandidates sorts by score descending and truncates to limit. Ties keep
// the candidates' original (deterministic) order.
func rankCandidates(candidates []Candidate, limit int) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func roundComponents(components map[string]float64, places int) map[string]float64 {
	rounded := make(map[string]float64, len(components))
	for name, v := range components {
		rounded[name] = roundTo(v, places)
	}
	return rounded
}
