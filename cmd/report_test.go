package cmd

import (
	"strings"
	"testing"

	"github.com/klangspor/track-radar/internal/discovery"
)

func testCandidates() []discovery.Candidate {
	return []discovery.Candidate{
		{
			TrackID:     "t1",
			Title:       "First Track",
			ArtistName:  "First Artist",
			Score:       87.25,
			Summary:     "Strong momentum: TikTok posts growing 9.0x (7d vs 30d)",
			WhySelected: []string{"TikTok posts growing 9.0x (7d vs 30d)"},
			RiskFlags:   []string{"Low Spotify streams"},
		},
		{
			TrackID:    "t2",
			Title:      "Second Track",
			ArtistName: "Second Artist",
			Score:      64.5,
			Summary:    "Moderate momentum",
		},
	}
}

func TestCandidateReportString(t *testing.T) {
	out := candidateReport{title: "Trending tracks", candidates: testCandidates()}.String()

	if !strings.Contains(out, "Trending tracks (2 candidates)") {
		t.Errorf("Expected the title line, got:\n%s", out)
	}
	if !strings.Contains(out, "First Artist") || !strings.Contains(out, "87.25") {
		t.Errorf("Expected candidate rows, got:\n%s", out)
	}
	if !strings.Contains(out, "+ TikTok posts growing 9.0x (7d vs 30d)") {
		t.Errorf("Expected reasons in the detail block, got:\n%s", out)
	}
	if !strings.Contains(out, "! Low Spotify streams") {
		t.Errorf("Expected risk flags in the detail block, got:\n%s", out)
	}
}

func TestCandidateReportStringEmpty(t *testing.T) {
	out := candidateReport{title: "Evergreen tracks"}.String()
	if !strings.Contains(out, "Evergreen tracks (0 candidates)") {
		t.Errorf("Expected the empty header, got:\n%s", out)
	}
}

func TestCandidateReportHTML(t *testing.T) {
	out := candidateReport{title: "Trending tracks", candidates: testCandidates()}.html()

	if !strings.Contains(out, "<h2>Trending tracks</h2>") {
		t.Errorf("Expected a section heading, got:\n%s", out)
	}
	if !strings.Contains(out, "<td>First Track</td>") {
		t.Errorf("Expected table cells, got:\n%s", out)
	}
	if !strings.Contains(out, "<li>Risk: Low Spotify streams</li>") {
		t.Errorf("Expected risk list items, got:\n%s", out)
	}

	empty := candidateReport{title: "Evergreen tracks"}.html()
	if !strings.Contains(empty, "No candidates found.") {
		t.Errorf("Expected the empty message, got:\n%s", empty)
	}
}

func TestTrackID(t *testing.T) {
	if got := trackID("USTEST1", "spotify-1"); got != "USTEST1" {
		t.Errorf("Expected ISRC preferred, got %q", got)
	}
	if got := trackID("", "spotify-1"); got != "spotify-1" {
		t.Errorf("Expected Spotify id fallback, got %q", got)
	}
	if got := trackID("", ""); got == "" {
		t.Error("Expected a generated id when no identifiers exist")
	}
}
