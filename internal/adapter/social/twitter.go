// internal/adapter/social/twitter.go

package social

import (
	"context"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"contentradar/internal/domain/content"
)

// TwitterConfig holds the API v2 bearer token and search settings
type TwitterConfig struct {
	Host        string
	BearerToken string
	Query       string
	MaxResults  int
}

// TwitterFetcher reads recent tweets matching a search query
type TwitterFetcher struct {
	config TwitterConfig
	client *twitter.Client
	now    func() time.Time
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// NewTwitterFetcher creates a new twitter fetcher
func NewTwitterFetcher(config TwitterConfig) *TwitterFetcher {
	if config.Host == "" {
		config.Host = "https://api.twitter.com"
	}
	// the recent search endpoint accepts 10 to 100 results
	if config.MaxResults < 10 || config.MaxResults > 100 {
		config.MaxResults = 50
	}

	return &TwitterFetcher{
		config: config,
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: config.BearerToken},
			Client:     newHTTPClient(),
			Host:       config.Host,
		},
		now: time.Now,
	}
}

// Source implements content.Fetcher
func (f *TwitterFetcher) Source() content.Source {
	return content.SourceTwitter
}

// Fetch implements content.Fetcher. Public metrics carry no view counter,
// so the view count is the sum of all public interactions.
func (f *TwitterFetcher) Fetch(ctx context.Context) (content.FetchResult, error) {
	opts := twitter.TweetRecentSearchOpts{
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldPublicMetrics,
			twitter.TweetFieldAuthorID,
		},
		MaxResults: f.config.MaxResults,
	}

	resp, err := f.client.TweetRecentSearch(ctx, f.config.Query, opts)
	if err != nil {
		return content.FetchResult{}, fmt.Errorf("twitter recent search: %w", err)
	}

	c := newCollector(content.SourceTwitter, f.now())
	if resp == nil || resp.Raw == nil {
		return c.result, nil
	}

	for _, tweet := range resp.Raw.Tweets {
		if tweet == nil {
			continue
		}
		raw := content.RawPost{
			ID:           tweet.ID,
			Title:        tweet.Text,
			URL:          "https://twitter.com/i/web/status/" + tweet.ID,
			Author:       tweet.AuthorID,
			PublishedRaw: tweet.CreatedAt,
		}
		if m := tweet.PublicMetrics; m != nil {
			raw.Likes = float64(m.Likes + m.Retweets)
			raw.Comments = float64(m.Replies + m.Quotes)
			raw.Views = float64(m.Likes + m.Retweets + m.Replies + m.Quotes)
		}
		c.add(raw)
	}

	return c.result, nil
}
