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
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klangspor/track-radar/internal/chartex"
	"github.com/klangspor/track-radar/internal/store"
)

type UpdateConfig struct {
	DbPath        string
	Pages         int
	PageSize      int
	MinVideoCount int
	Search        string
	CountryCodes  string
	SortBy        string
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches track activity from Chartex",
	Long: `Stores one metric snapshot per track in the local SQLite database.
Tracks not seen before are registered automatically. Snapshots are append-only:
running update twice records two observations.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := UpdateConfig{
			DbPath:        viper.GetString("database"),
			Pages:         viper.GetInt("pages"),
			PageSize:      viper.GetInt("page_size"),
			MinVideoCount: viper.GetInt("min_video_count"),
			Search:        viper.GetString("search"),
			CountryCodes:  viper.GetString("country_codes"),
			SortBy:        viper.GetString("sort_by"),
		}

		err := updateDatabase(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var pages int
	updateCmd.Flags().IntVar(&pages, "pages", 1, "Number of result pages to fetch")
	viper.BindPFlag("pages", updateCmd.Flags().Lookup("pages"))

	var pageSize int
	updateCmd.Flags().IntVar(&pageSize, "page_size", 50, "Songs per page")
	viper.BindPFlag("page_size", updateCmd.Flags().Lookup("page_size"))

	var minVideoCount int
	updateCmd.Flags().IntVar(&minVideoCount, "min_video_count", 0, "Only fetch songs with at least this many TikTok videos")
	viper.BindPFlag("min_video_count", updateCmd.Flags().Lookup("min_video_count"))

	var search string
	updateCmd.Flags().StringVar(&search, "search", "", "Search term to filter songs")
	viper.BindPFlag("search", updateCmd.Flags().Lookup("search"))

	var countryCodes string
	updateCmd.Flags().StringVar(&countryCodes, "country_codes", "", "Comma-separated country codes to filter charts")
	viper.BindPFlag("country_codes", updateCmd.Flags().Lookup("country_codes"))

	var sortBy string
	updateCmd.Flags().StringVar(&sortBy, "sort_by", "tiktok_last_7_days_video_count", "Chartex sort field")
	viper.BindPFlag("sort_by", updateCmd.Flags().Lookup("sort_by"))
}

func updateDatabase(config UpdateConfig) error {
	st, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	client := chartex.New(chartexAppID, chartexAppToken)

	now := time.Now()
	runID, err := st.CreateRun("ingestion", now)
	if err != nil {
		return fmt.Errorf("creating ingestion run: %w", err)
	}

	stats, err := ingestPages(st, client, config, now)
	if err != nil {
		if failErr := st.FailRun(runID, time.Now(), err.Error(), stats); failErr != nil {
			return fmt.Errorf("recording failed run: %w", failErr)
		}
		return err
	}

	if err := st.CompleteRun(runID, time.Now(), stats); err != nil {
		return fmt.Errorf("completing run: %w", err)
	}

	fmt.Printf("Recorded %d snapshots (%d new tracks, %d known)\n",
		stats.TracksProcessed, stats.TracksNew, stats.TracksUpdated)
	return nil
}

func ingestPages(st *store.Store, client *chartex.Client, config UpdateConfig, now time.Time) (store.RunStats, error) {
	var stats store.RunStats

	for page := 1; page <= config.Pages; page++ {
		songs, err := client.ListSongs(context.Background(), chartex.ListOptions{
			Limit:         config.PageSize,
			Page:          page,
			SortBy:        config.SortBy,
			MinVideoCount: config.MinVideoCount,
			Search:        config.Search,
			CountryCodes:  config.CountryCodes,
		})
		if err != nil {
			return stats, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if len(songs) == 0 {
			break
		}

		for _, song := range songs {
			isNew, err := ingestSong(st, song, now)
			if err != nil {
				return stats, err
			}
			stats.TracksProcessed++
			if isNew {
				stats.TracksNew++
			} else {
				stats.TracksUpdated++
			}
		}

		fmt.Printf("Downloaded page %v (%d songs)\n", page, len(songs))
	}

	return stats, nil
}

// ingestSong registers the track if needed and appends one metric snapshot.
func ingestSong(st *store.Store, song chartex.Song, now time.Time) (isNew bool, err error) {
	id := trackID(song.ISRC, song.SpotifyID)

	exists, err := st.TrackExists(id)
	if err != nil {
		return false, err
	}

	track := store.Track{
		ID:              id,
		Title:           song.Title,
		ArtistName:      song.Artist,
		ISRC:            nullString(song.ISRC),
		SpotifyID:       nullString(song.SpotifyID),
		ImageURL:        nullString(song.ImageURL),
		FirstDiscovered: now,
		LastUpdated:     now,
	}
	if err := st.CreateTrack(track); err != nil {
		return false, fmt.Errorf("upserting track %q: %w", id, err)
	}

	metric := store.Metric{
		TrackID:   id,
		Timestamp: now,

		SpotifyStreams:       nullInt64(song.SpotifyStreamsTotal),
		SpotifyStreams7d:     nullInt64(song.SpotifyStreams7Days),
		SpotifyStreams30d:    nullInt64(song.SpotifyStreams30Days),
		SpotifyPlaylistCount: nullInt64(song.SpotifyPlaylistCount),
		SpotifyChartPosition: nullInt64(song.SpotifyChartPosition),

		TikTokPosts:         nullInt64(song.TikTokTotalVideoCount),
		TikTokPosts7d:       nullInt64(song.TikTokLast7DaysVideoCount),
		TikTokPosts30d:      nullInt64(song.TikTokLast30DaysVideoCount),
		TikTokViews:         nullInt64(song.TikTokTotalViewCount),
		TikTokViews7d:       nullInt64(song.TikTokLast7DaysViewCount),
		TikTokViews30d:      nullInt64(song.TikTokLast30DaysViewCount),
		TikTokChartPosition: nullInt64(song.TikTokChartPosition),
	}
	if err := st.AddMetrics(id, []store.Metric{metric}); err != nil {
		return false, fmt.Errorf("recording metrics for %q: %w", id, err)
	}

	return !exists, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
