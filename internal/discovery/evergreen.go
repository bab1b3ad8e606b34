package discovery

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/klangspor/track-radar/internal/explain"
	"github.com/klangspor/track-radar/internal/features"
	"github.com/klangspor/track-radar/internal/scoring"
	"github.com/klangspor/track-radar/internal/store"
)

// EvergreenSelector runs the evergreen discovery pipeline.
type EvergreenSelector struct {
	store  *store.Store
	scorer *scoring.EvergreenScorer
}

func NewEvergreenSelector(st *store.Store, cfg scoring.Config) (*EvergreenSelector, error) {
	scorer, err := scoring.NewEvergreenScorer(cfg)
	if err != nil {
		return nil, err
	}
	return &EvergreenSelector{store: st, scorer: scorer}, nil
}

// SelectTracks considers only tracks old enough to have MinMonths of
// history; stability cannot be judged on a track discovered last week.
func (s *EvergreenSelector) SelectTracks(opts SelectOptions, now time.Time) ([]Candidate, error) {
	minMonths := opts.MinMonths
	if minMonths <= 0 {
		minMonths = 6
	}
	cutoff := now.AddDate(0, 0, -minMonths*30)

	tracks, err := s.store.ListTracksDiscoveredBefore(cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}

	var (
		mu         sync.Mutex
		candidates []Candidate
	)
	g := new(errgroup.Group)
	g.SetLimit(opts.workers())

	for _, track := range tracks {
		track := track
		g.Go(func() error {
			h, err := features.LoadHistory(s.store, track, now)
			if err != nil {
				return err
			}

			result := s.scorer.Score(h)
			if !result.PassesThreshold || result.Score < opts.MinScore {
				return nil
			}

			explanation := explain.Evergreen(h, result.Components)
			c := Candidate{
				TrackID:         track.ID,
				Title:           track.Title,
				ArtistName:      track.ArtistName,
				Score:           roundTo(result.Score, 2),
				Components:      roundComponents(result.Components.Map(), 3),
				Summary:         explain.Summary(explain.ModeEvergreen, result.Score, explanation.WhySelected),
				WhySelected:     explanation.WhySelected,
				RiskFlags:       explanation.RiskFlags,
				FirstDiscovered: track.FirstDiscovered,
			}

			mu.Lock()
			candidates = append(candidates, c)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortByTrackID(candidates)
	return rankCandidates(candidates, opts.limit()), nil
}

// ScoreAndPersist mirrors the trending variant with the modes swapped: the
// new row carries forward the most recent prior trending score.
func (s *EvergreenSelector) ScoreAndPersist(track store.Track, now time.Time) (*store.Score, error) {
	h, err := features.LoadHistory(s.store, track, now)
	if err != nil {
		return nil, err
	}

	result := s.scorer.Score(h)
	if !result.PassesThreshold {
		return nil, nil
	}

	explanation := explain.Evergreen(h, result.Components)

	score := store.Score{
		TrackID:        track.ID,
		ComputedAt:     now,
		EvergreenScore: sql.NullFloat64{Float64: result.Score, Valid: true},
		Components:     roundComponents(result.Components.Map(), 4),
		WhySelected:    explanation.WhySelected,
		RiskFlags:      explanation.RiskFlags,
	}

	prior, err := s.store.LatestScore(track.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.TrendingScore.Valid {
		score.TrendingScore = prior.TrendingScore
	}

	id, err := s.store.InsertScore(score)
	if err != nil {
		return nil, err
	}
	score.ID = id
	return &score, nil
}

func (s *EvergreenSelector) RunDiscoveryBatch(trackIDs []string, now time.Time) (store.DiscoveryRun, error) {
	return runBatch(s.store, explain.ModeEvergreen, trackIDs, now, func(track store.Track) (bool, error) {
		score, err := s.ScoreAndPersist(track, now)
		return score != nil, err
	})
}
