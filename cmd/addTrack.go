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
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klangspor/track-radar/internal/store"
)

// addTrackCmd represents the add-track command
var addTrackCmd = &cobra.Command{
	Use:   "add-track <title> <artist>",
	Short: "Adds a track to watch",
	Long: `Registers a track so that future updates record metrics for it.
If no --id is given, the ISRC is used, then the Spotify ID, then a random id.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := addTrack(viper.GetString("database"), args[0], args[1], cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addTrackCmd)

	addTrackCmd.Flags().String("id", "", "Track id (defaults to ISRC, Spotify id, or a random id)")
	addTrackCmd.Flags().String("isrc", "", "ISRC code")
	addTrackCmd.Flags().String("spotify-id", "", "Spotify track id")
	addTrackCmd.Flags().String("tiktok-id", "", "TikTok sound id")
}

func addTrack(dbPath string, title string, artist string, cmd *cobra.Command) error {
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	id, _ := cmd.Flags().GetString("id")
	isrc, _ := cmd.Flags().GetString("isrc")
	spotifyID, _ := cmd.Flags().GetString("spotify-id")
	tiktokID, _ := cmd.Flags().GetString("tiktok-id")

	if id == "" {
		id = trackID(isrc, spotifyID)
	}

	now := time.Now()
	track := store.Track{
		ID:              id,
		Title:           title,
		ArtistName:      artist,
		ISRC:            nullString(isrc),
		SpotifyID:       nullString(spotifyID),
		TikTokID:        nullString(tiktokID),
		FirstDiscovered: now,
		LastUpdated:     now,
	}
	if err := st.CreateTrack(track); err != nil {
		return fmt.Errorf("adding track: %w", err)
	}

	fmt.Printf("Added track %q (%s - %s)\n", id, artist, title)
	return nil
}

// trackID prefers stable external identifiers so repeated ingestion of the
// same song converges on one row.
func trackID(isrc, spotifyID string) string {
	if isrc != "" {
		return isrc
	}
	if spotifyID != "" {
		return spotifyID
	}
	return uuid.NewString()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
