/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klangspor/track-radar/internal/discovery"
	"github.com/klangspor/track-radar/internal/scoring"
	"github.com/klangspor/track-radar/internal/store"
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover <trending|evergreen> [track_id...]",
	Short: "Scores tracks and persists the results",
	Long: `Runs a scoring batch under an audit run record. Each track passing
the eligibility gate gets a new score row; tracks failing the gate are counted
but produce no score. Without track ids, all known tracks are scored.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runDiscover(viper.GetString("database"), args[0], args[1:])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

// batchRunner is the slice of both selectors that discover needs.
type batchRunner interface {
	RunDiscoveryBatch(trackIDs []string, now time.Time) (store.DiscoveryRun, error)
}

func runDiscover(dbPath string, mode string, trackIDs []string) error {
	st, err := openStoreAt(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	var runner batchRunner
	switch mode {
	case "trending":
		runner, err = discovery.NewTrendingSelector(st, scoring.Default())
	case "evergreen":
		runner, err = discovery.NewEvergreenSelector(st, scoring.Default())
	default:
		return fmt.Errorf("unknown mode %q: expected trending or evergreen", mode)
	}
	if err != nil {
		return err
	}

	if len(trackIDs) == 0 {
		tracks, err := st.ListTracks()
		if err != nil {
			return fmt.Errorf("listing tracks: %w", err)
		}
		for _, track := range tracks {
			trackIDs = append(trackIDs, track.ID)
		}
	}

	run, runErr := runner.RunDiscoveryBatch(trackIDs, time.Now())
	fmt.Printf("Run %d (%s): %s. Processed %d tracks, scored %d.\n",
		run.ID, run.RunType, run.Status, run.TracksProcessed, run.TracksUpdated)
	if runErr != nil {
		return fmt.Errorf("batch failed: %w", runErr)
	}
	return nil
}
