// Package chartex is a minimal client for the Chartex songs API, the
// system's source of TikTok and Spotify activity snapshots.
package chartex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.chartex.com"

type Client struct {
	// BaseURL may be overridden, e.g. to point at a test server.
	BaseURL string

	appID    string
	appToken string

	httpClient *http.Client
	limiter    *rate.Limiter
}

// New returns a client paced to one request per second, matching the
// API's fair-use expectations.
func New(appID, appToken string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		appID:      appID,
		appToken:   appToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

// Song is one entry from the songs endpoint. Counter fields are pointers:
// Chartex omits platforms it has no data for, and that absence must survive
// into the metric store as null rather than zero.
type Song struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	ISRC      string `json:"isrc"`
	SpotifyID string `json:"spotify_id"`
	ImageURL  string `json:"image_url"`

	TikTokTotalVideoCount      *int64 `json:"tiktok_total_video_count"`
	TikTokLast7DaysVideoCount  *int64 `json:"tiktok_last_7_days_video_count"`
	TikTokLast30DaysVideoCount *int64 `json:"tiktok_last_30_days_video_count"`
	TikTokTotalViewCount       *int64 `json:"tiktok_total_view_count"`
	TikTokLast7DaysViewCount   *int64 `json:"tiktok_last_7_days_view_count"`
	TikTokLast30DaysViewCount  *int64 `json:"tiktok_last_30_days_view_count"`
	TikTokChartPosition        *int64 `json:"tiktok_chart_position"`

	SpotifyStreamsTotal  *int64 `json:"spotify_total_streams"`
	SpotifyStreams7Days  *int64 `json:"spotify_last_7_days_streams"`
	SpotifyStreams30Days *int64 `json:"spotify_last_30_days_streams"`
	SpotifyPlaylistCount *int64 `json:"spotify_playlist_count"`
	SpotifyChartPosition *int64 `json:"spotify_chart_position"`
}

// ListOptions narrows the songs query.
type ListOptions struct {
	Limit         int
	Page          int
	SortBy        string
	MinVideoCount int
	Search        string
	CountryCodes  string
}

type songsEnvelope struct {
	Data struct {
		Items []Song `json:"items"`
	} `json:"data"`
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("chartex: status %d: %s", e.code, e.body)
}

// ListSongs fetches one page of songs, retrying transient server errors.
func (c *Client) ListSongs(ctx context.Context, opts ListOptions) ([]Song, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.SortBy == "" {
		opts.SortBy = "tiktok_last_7_days_video_count"
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.Limit))
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("sort_by", opts.SortBy)
	if opts.MinVideoCount > 0 {
		params.Set("min_video_count", strconv.Itoa(opts.MinVideoCount))
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.CountryCodes != "" {
		params.Set("country_codes", opts.CountryCodes)
	}

	var songs []Song
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			songs, err = c.fetchSongs(ctx, params)
			return err
		},
		retry.RetryIf(func(err error) bool {
			if serr, ok := err.(*statusError); ok {
				return serr.code/100 == 5
			}
			return false
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching songs: %w", err)
	}
	return songs, nil
}

func (c *Client) fetchSongs(ctx context.Context, params url.Values) ([]Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/external/v1/songs/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-APP-ID", c.appID)
	req.Header.Set("X-APP-TOKEN", c.appToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	var envelope songsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding songs response: %w", err)
	}
	return envelope.Data.Items, nil
}
