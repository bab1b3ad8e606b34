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

// evergreenCmd represents the evergreen command
var evergreenCmd = &cobra.Command{
	Use:   "evergreen",
	Short: "Ranks tracks by long-term stability",
	Long: `Scores tracks with enough history on stream consistency and
sustained activity, and prints the top candidates. Nothing is persisted.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := showEvergreen(viper.GetString("database"), selectOptionsFromFlags(cmd))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evergreenCmd)
	addSelectFlags(evergreenCmd)
	evergreenCmd.Flags().Int("min-months", 6, "Minimum months of history a track needs")
}

func showEvergreen(dbPath string, opts discovery.SelectOptions) error {
	st, err := openStoreAt(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	selector, err := discovery.NewEvergreenSelector(st, scoring.Default())
	if err != nil {
		return err
	}

	candidates, err := selector.SelectTracks(opts, time.Now())
	if err != nil {
		return fmt.Errorf("selecting evergreen tracks: %w", err)
	}

	fmt.Print(candidateReport{title: "Evergreen tracks", candidates: candidates})
	return nil
}
