// internal/adapter/social/naver.go

package social

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentradar/internal/domain/content"
)

const (
	naverTopScore = 100
	naverRankStep = 5
	naverMinScore = 1
)

// NaverConfig holds credentials and search queries for the naver search API
type NaverConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Queries      []string
	Display      int
}

// NaverFetcher reads news search results. Naver exposes no counters,
// so the view count is a popularity score derived from the result rank.
type NaverFetcher struct {
	config NaverConfig
	client *http.Client
	now    func() time.Time
}

type naverResponse struct {
	Items []struct {
		Title        string `json:"title"`
		OriginalLink string `json:"originallink"`
		Link         string `json:"link"`
		PubDate      string `json:"pubDate"`
	} `json:"items"`
}

var naverMarkup = strings.NewReplacer("<b>", "", "</b>", "")

// NewNaverFetcher creates a new naver fetcher
func NewNaverFetcher(config NaverConfig) *NaverFetcher {
	if config.BaseURL == "" {
		config.BaseURL = "https://openapi.naver.com"
	}
	if config.Display <= 0 {
		config.Display = 20
	}

	return &NaverFetcher{
		config: config,
		client: newHTTPClient(),
		now:    time.Now,
	}
}

// Source implements content.Fetcher
func (f *NaverFetcher) Source() content.Source {
	return content.SourceNaver
}

// Fetch implements content.Fetcher
func (f *NaverFetcher) Fetch(ctx context.Context) (content.FetchResult, error) {
	if len(f.config.Queries) == 0 {
		return content.FetchResult{}, fmt.Errorf("no naver queries configured")
	}

	c := newCollector(content.SourceNaver, f.now())
	headers := map[string]string{
		"X-Naver-Client-Id":     f.config.ClientID,
		"X-Naver-Client-Secret": f.config.ClientSecret,
	}
	failed := 0

	for _, q := range f.config.Queries {
		endpoint := fmt.Sprintf("%s/v1/search/news.json?query=%s&display=%d&sort=sim",
			f.config.BaseURL, url.QueryEscape(q), f.config.Display)

		var resp naverResponse
		if err := getJSON(ctx, f.client, endpoint, headers, &resp); err != nil {
			failed++
			c.fail(fmt.Errorf("query %q: %w", q, err))
			continue
		}

		for i, item := range resp.Items {
			link := item.OriginalLink
			if link == "" {
				link = item.Link
			}
			key := itemKey(item.Title, item.PubDate, link)
			if key == "" {
				c.fail(fmt.Errorf("query %q: item %d without link or title", q, i+1))
				continue
			}
			c.add(content.RawPost{
				ID:           hashID(key),
				Title:        html.UnescapeString(naverMarkup.Replace(item.Title)),
				URL:          link,
				PublishedRaw: item.PubDate,
				Views:        float64(RankScore(i + 1)),
			})
		}
	}

	if failed == len(f.config.Queries) {
		return content.FetchResult{}, fmt.Errorf("all %d naver queries failed: %s", failed, c.result.Errors[0].Message)
	}
	return c.result, nil
}

// RankScore maps a 1-based result rank to a popularity score:
// 100 for rank 1, decreasing linearly, never below 1.
func RankScore(rank int) int {
	if rank < 1 {
		rank = 1
	}
	score := naverTopScore - (rank-1)*naverRankStep
	if score < naverMinScore {
		return naverMinScore
	}
	return score
}
