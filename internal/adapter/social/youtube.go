// internal/adapter/social/youtube.go

package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"contentradar/internal/domain/content"
)

// YouTubeConfig holds the Data API key and chart settings
type YouTubeConfig struct {
	BaseURL    string
	APIKey     string
	RegionCode string
	MaxResults int
}

// YouTubeFetcher reads the most popular videos chart
type YouTubeFetcher struct {
	config YouTubeConfig
	client *http.Client
	now    func() time.Time
}

type youtubeResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// NewYouTubeFetcher creates a new youtube fetcher
func NewYouTubeFetcher(config YouTubeConfig) *YouTubeFetcher {
	if config.BaseURL == "" {
		config.BaseURL = "https://www.googleapis.com"
	}
	if config.RegionCode == "" {
		config.RegionCode = "US"
	}
	if config.MaxResults <= 0 || config.MaxResults > 50 {
		config.MaxResults = 25
	}

	return &YouTubeFetcher{
		config: config,
		client: newHTTPClient(),
		now:    time.Now,
	}
}

// Source implements content.Fetcher
func (f *YouTubeFetcher) Source() content.Source {
	return content.SourceYouTube
}

// Fetch implements content.Fetcher
func (f *YouTubeFetcher) Fetch(ctx context.Context) (content.FetchResult, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("chart", "mostPopular")
	q.Set("regionCode", f.config.RegionCode)
	q.Set("maxResults", strconv.Itoa(f.config.MaxResults))
	q.Set("key", f.config.APIKey)

	var resp youtubeResponse
	if err := getJSON(ctx, f.client, f.config.BaseURL+"/youtube/v3/videos?"+q.Encode(), nil, &resp); err != nil {
		return content.FetchResult{}, fmt.Errorf("youtube chart: %w", err)
	}

	c := newCollector(content.SourceYouTube, f.now())
	for _, item := range resp.Items {
		c.add(content.RawPost{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			URL:          "https://www.youtube.com/watch?v=" + url.QueryEscape(item.ID),
			Author:       item.Snippet.ChannelTitle,
			PublishedRaw: item.Snippet.PublishedAt,
			Views:        parseCount(item.Statistics.ViewCount),
			Likes:        parseCount(item.Statistics.LikeCount),
			Comments:     parseCount(item.Statistics.CommentCount),
		})
	}

	return c.result, nil
}

// parseCount reads a decimal counter; hidden or malformed counters are zero
func parseCount(v string) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}
