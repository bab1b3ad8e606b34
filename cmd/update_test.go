package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/klangspor/track-radar/internal/chartex"
	"github.com/klangspor/track-radar/internal/store"
)

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "track-radar.db")

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}
	return st
}

func int64p(v int64) *int64 {
	return &v
}

func TestIngestSong(t *testing.T) {
	st := createTestStore(t)
	defer st.Close()

	song := chartex.Song{
		Title:                     "Test Track",
		Artist:                    "Test Artist",
		ISRC:                      "USTEST2600001",
		SpotifyID:                 "spotify-1",
		TikTokLast7DaysVideoCount: int64p(4200),
		SpotifyStreams7Days:       int64p(150000),
	}

	now := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	isNew, err := ingestSong(st, song, now)
	if err != nil {
		t.Fatalf("ingestSong error: %v", err)
	}
	if !isNew {
		t.Error("Expected first sighting to report new")
	}

	track, err := st.GetTrack("USTEST2600001")
	if err != nil {
		t.Fatalf("GetTrack error: %v", err)
	}
	if track.Title != "Test Track" || track.ArtistName != "Test Artist" {
		t.Errorf("Track metadata = %+v", track)
	}

	metrics, err := st.MetricsSince("USTEST2600001", now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("MetricsSince error: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 metric row, got %d", len(metrics))
	}
	m := metrics[0]
	if !m.TikTokPosts7d.Valid || m.TikTokPosts7d.Int64 != 4200 {
		t.Errorf("TikTokPosts7d = %+v", m.TikTokPosts7d)
	}
	if !m.SpotifyStreams7d.Valid || m.SpotifyStreams7d.Int64 != 150000 {
		t.Errorf("SpotifyStreams7d = %+v", m.SpotifyStreams7d)
	}
	// Platforms Chartex omitted must stay null in the store.
	if m.TikTokViews7d.Valid || m.SpotifyStreams.Valid {
		t.Errorf("Expected omitted fields to stay null, got %+v", m)
	}

	// Second sighting: same track row, one more metric row.
	isNew, err = ingestSong(st, song, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ingestSong (repeat) error: %v", err)
	}
	if isNew {
		t.Error("Expected repeat sighting to report known")
	}

	metrics, err = st.MetricsSince("USTEST2600001", now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("MetricsSince error: %v", err)
	}
	if len(metrics) != 2 {
		t.Errorf("Expected 2 metric rows after repeat, got %d", len(metrics))
	}

	tracks, err := st.ListTracks()
	if err != nil {
		t.Fatalf("ListTracks error: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("Expected 1 track after repeat, got %d", len(tracks))
	}

	if !tracks[0].FirstDiscovered.Equal(now) {
		t.Errorf("FirstDiscovered = %v, want the first sighting %v", tracks[0].FirstDiscovered, now)
	}
}
