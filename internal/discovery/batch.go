package discovery

import (
	"fmt"
	"sort"
	"time"

	"github.com/klangspor/track-radar/internal/store"
)

// runBatch is the shared audit-run harness for both selectors. The run row
// is created with status "running" before any track is processed; on success
// it is completed with final counts, on error it is marked failed with the
// captured message. Either way the run row reflects how far the batch got,
// and scores committed before a failure stay committed.
func runBatch(st *store.Store, runType string, trackIDs []string, now time.Time, scoreTrack func(store.Track) (bool, error)) (store.DiscoveryRun, error) {
	runID, err := st.CreateRun(runType, now)
	if err != nil {
		return store.DiscoveryRun{}, fmt.Errorf("creating %s run: %w", runType, err)
	}

	var stats store.RunStats
	var batchErr error

	for _, trackID := range trackIDs {
		exists, err := st.TrackExists(trackID)
		if err != nil {
			batchErr = err
			break
		}
		if !exists {
			continue
		}

		track, err := st.GetTrack(trackID)
		if err != nil {
			batchErr = err
			break
		}

		stats.TracksProcessed++

		scored, err := scoreTrack(track)
		if err != nil {
			batchErr = fmt.Errorf("scoring track %q: %w", trackID, err)
			break
		}
		if scored {
			stats.TracksUpdated++
		}
	}

	if batchErr != nil {
		if err := st.FailRun(runID, now, batchErr.Error(), stats); err != nil {
			return store.DiscoveryRun{}, fmt.Errorf("recording failed run: %w", err)
		}
		run, err := st.GetRun(runID)
		if err != nil {
			return store.DiscoveryRun{}, err
		}
		return run, batchErr
	}

	if err := st.CompleteRun(runID, now, stats); err != nil {
		return store.DiscoveryRun{}, fmt.Errorf("completing run: %w", err)
	}
	return st.GetRun(runID)
}

func sortByTrackID(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TrackID < candidates[j].TrackID
	})
}
