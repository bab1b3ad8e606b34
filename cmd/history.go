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
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <track_id>",
	Short: "Shows the score history for a track",
	Long:  `Prints persisted scores newest first, with reasons and risk flags.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		err := showHistory(viper.GetString("database"), args[0], limit)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum number of score rows to show")
}

func showHistory(dbPath string, trackID string, limit int) error {
	st, err := openStoreAt(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	exists, err := st.TrackExists(trackID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("unknown track %q", trackID)
	}

	track, err := st.GetTrack(trackID)
	if err != nil {
		return err
	}

	scores, err := st.ScoresForTrack(trackID, limit)
	if err != nil {
		return fmt.Errorf("loading scores: %w", err)
	}

	fmt.Printf("%s - %s (first seen %s)\n", track.ArtistName, track.Title,
		track.FirstDiscovered.Format("2006-01-02"))
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Computed", "Trending", "Evergreen", "Why", "Risks"})
	for _, score := range scores {
		row := []string{
			score.ComputedAt.Format("2006-01-02 15:04"),
			formatScore(score.TrendingScore),
			formatScore(score.EvergreenScore),
			strings.Join(score.WhySelected, "; "),
			strings.Join(score.RiskFlags, "; "),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

func formatScore(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}
