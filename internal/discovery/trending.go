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

// TrendingSelector runs the trending discovery pipeline.
type TrendingSelector struct {
	store  *store.Store
	scorer *scoring.TrendingScorer
}

// NewTrendingSelector validates the scoring configuration up front; a bad
// weight table must prevent any scoring from running.
func NewTrendingSelector(st *store.Store, cfg scoring.Config) (*TrendingSelector, error) {
	scorer, err := scoring.NewTrendingScorer(cfg)
	if err != nil {
		return nil, err
	}
	return &TrendingSelector{store: st, scorer: scorer}, nil
}

// SelectTracks scores every known track as of now, keeps those passing the
// eligibility gate and the minimum score, and returns them ranked. In-memory
// only; nothing is persisted.
func (s *TrendingSelector) SelectTracks(opts SelectOptions, now time.Time) ([]Candidate, error) {
	tracks, err := s.store.ListTracks()
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

			explanation := explain.Trending(h, result.Components)
			c := Candidate{
				TrackID:         track.ID,
				Title:           track.Title,
				ArtistName:      track.ArtistName,
				Score:           roundTo(result.Score, 2),
				Components:      roundComponents(result.Components.Map(), 3),
				Summary:         explain.Summary(explain.ModeTrending, result.Score, explanation.WhySelected),
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

	// Restore a deterministic pre-rank order; goroutine completion order is
	// not stable.
	sortByTrackID(candidates)
	return rankCandidates(candidates, opts.limit()), nil
}

// ScoreAndPersist scores one track and appends a new score row. A track that
// fails the eligibility gate produces no score and no error; that is the
// routine outcome for most newly-discovered tracks. The most recent prior
// evergreen score, if any, is carried forward onto the new row so a trending
// pass does not erase the other mode's last known value.
func (s *TrendingSelector) ScoreAndPersist(track store.Track, now time.Time) (*store.Score, error) {
	h, err := features.LoadHistory(s.store, track, now)
	if err != nil {
		return nil, err
	}

	result := s.scorer.Score(h)
	if !result.PassesThreshold {
		return nil, nil
	}

	explanation := explain.Trending(h, result.Components)

	score := store.Score{
		TrackID:       track.ID,
		ComputedAt:    now,
		TrendingScore: sql.NullFloat64{Float64: result.Score, Valid: true},
		Components:    roundComponents(result.Components.Map(), 4),
		WhySelected:   explanation.WhySelected,
		RiskFlags:     explanation.RiskFlags,
	}

	prior, err := s.store.LatestScore(track.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.EvergreenScore.Valid {
		score.EvergreenScore = prior.EvergreenScore
	}

	id, err := s.store.InsertScore(score)
	if err != nil {
		return nil, err
	}
	score.ID = id
	return &score, nil
}

// RunDiscoveryBatch scores the given tracks sequentially under an audit run.
// An error mid-batch marks the run failed and stops processing, but scores
// committed earlier in the batch are preserved.
func (s *TrendingSelector) RunDiscoveryBatch(trackIDs []string, now time.Time) (store.DiscoveryRun, error) {
	return runBatch(s.store, explain.ModeTrending, trackIDs, now, func(track store.Track) (bool, error) {
		score, err := s.ScoreAndPersist(track, now)
		return score != nil, err
	})
}
