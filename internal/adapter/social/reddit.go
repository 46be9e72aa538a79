// internal/adapter/social/reddit.go

package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"contentradar/internal/domain/content"
)

// RedditConfig holds the listings a RedditFetcher reads
type RedditConfig struct {
	BaseURL    string
	Subreddits []string
	Limit      int
	TimeRange  string // hour, day, week, month, year, all
}

// RedditFetcher reads top posts from one or more subreddits
type RedditFetcher struct {
	config RedditConfig
	client *http.Client
	now    func() time.Time
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Permalink   string  `json:"permalink"`
	Score       float64 `json:"score"`
	NumComments float64 `json:"num_comments"`
	Created     float64 `json:"created_utc"`
	Author      string  `json:"author"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditFetcher creates a new reddit fetcher
func NewRedditFetcher(config RedditConfig) *RedditFetcher {
	if config.BaseURL == "" {
		config.BaseURL = "https://www.reddit.com"
	}
	if len(config.Subreddits) == 0 {
		config.Subreddits = []string{"popular"}
	}
	if config.Limit <= 0 {
		config.Limit = 25
	}
	if config.TimeRange == "" {
		config.TimeRange = "day"
	}

	return &RedditFetcher{
		config: config,
		client: newHTTPClient(),
		now:    time.Now,
	}
}

// Source implements content.Fetcher
func (f *RedditFetcher) Source() content.Source {
	return content.SourceReddit
}

// Fetch implements content.Fetcher. A failing subreddit is annotated;
// the fetch fails only when every subreddit fails.
func (f *RedditFetcher) Fetch(ctx context.Context) (content.FetchResult, error) {
	c := newCollector(content.SourceReddit, f.now())
	failed := 0

	for _, sub := range f.config.Subreddits {
		endpoint := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=%s",
			f.config.BaseURL, url.PathEscape(sub), f.config.Limit, url.QueryEscape(f.config.TimeRange))

		var listing redditListing
		if err := getJSON(ctx, f.client, endpoint, nil, &listing); err != nil {
			failed++
			c.fail(fmt.Errorf("r/%s: %w", sub, err))
			continue
		}

		for _, child := range listing.Data.Children {
			p := child.Data
			raw := content.RawPost{
				ID:       p.ID,
				Title:    p.Title,
				URL:      f.config.BaseURL + p.Permalink,
				Author:   p.Author,
				Views:    p.Score,
				Comments: p.NumComments,
			}
			if p.Created > 0 {
				published := time.Unix(int64(p.Created), 0)
				raw.Published = &published
			}
			c.add(raw)
		}
	}

	if failed == len(f.config.Subreddits) {
		return content.FetchResult{}, fmt.Errorf("all %d subreddits failed: %s", failed, c.result.Errors[0].Message)
	}
	return c.result, nil
}
