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
)

// trendingCmd represents the trending command
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Ranks tracks by viral momentum",
	Long: `Scores every known track on recent TikTok and Spotify growth and
prints the top candidates. Nothing is persisted; use discover for that.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := showTrending(viper.GetString("database"), selectOptionsFromFlags(cmd))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(trendingCmd)
	addSelectFlags(trendingCmd)
}

func addSelectFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 50, "Maximum number of candidates to show")
	cmd.Flags().Float64("min-score", 0, "Drop candidates scoring below this")
	cmd.Flags().Int("workers", 4, "Number of tracks to score in parallel")
}

func selectOptionsFromFlags(cmd *cobra.Command) discovery.SelectOptions {
	limit, _ := cmd.Flags().GetInt("limit")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	workers, _ := cmd.Flags().GetInt("workers")
	var minMonths int
	if cmd.Flags().Lookup("min-months") != nil {
		minMonths, _ = cmd.Flags().GetInt("min-months")
	}
	return discovery.SelectOptions{
		Limit:     limit,
		MinScore:  minScore,
		Workers:   workers,
		MinMonths: minMonths,
	}
}

func showTrending(dbPath string, opts discovery.SelectOptions) error {
	st, err := openStoreAt(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	selector, err := discovery.NewTrendingSelector(st, scoring.Default())
	if err != nil {
		return err
	}

	candidates, err := selector.SelectTracks(opts, time.Now())
	if err != nil {
		return fmt.Errorf("selecting trending tracks: %w", err)
	}

	fmt.Print(candidateReport{title: "Trending tracks", candidates: candidates})
	return nil
}
