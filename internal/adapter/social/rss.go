// internal/adapter/social/rss.go

package social

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"contentradar/internal/domain/content"
)

// RSSFetcher reads items from RSS and Atom feeds. Feeds carry no counters;
// scoring falls back to recency for this source.
type RSSFetcher struct {
	feeds  []string
	parser *gofeed.Parser
	now    func() time.Time
}

// NewRSSFetcher creates a new feed fetcher
func NewRSSFetcher(feeds []string) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient()
	parser.UserAgent = userAgent

	return &RSSFetcher{
		feeds:  feeds,
		parser: parser,
		now:    time.Now,
	}
}

// Source implements content.Fetcher
func (f *RSSFetcher) Source() content.Source {
	return content.SourceRSS
}

// Fetch implements content.Fetcher
func (f *RSSFetcher) Fetch(ctx context.Context) (content.FetchResult, error) {
	if len(f.feeds) == 0 {
		return content.FetchResult{}, fmt.Errorf("no feeds configured")
	}

	c := newCollector(content.SourceRSS, f.now())
	failed := 0

	for _, link := range f.feeds {
		feed, err := f.parser.ParseURLWithContext(link, ctx)
		if err != nil {
			failed++
			c.fail(fmt.Errorf("feed %s: %w", link, err))
			continue
		}

		for _, item := range feed.Items {
			if item == nil {
				continue
			}
			key := itemKey(item.Title, item.Published, item.GUID, item.Link)
			if key == "" {
				c.fail(fmt.Errorf("feed %s: item without guid, link or title", link))
				continue
			}
			raw := content.RawPost{
				ID:        hashID(key),
				Title:     item.Title,
				URL:       item.Link,
				Published: item.PublishedParsed,
			}
			if raw.Published == nil {
				raw.Published = item.UpdatedParsed
			}
			if item.Author != nil {
				raw.Author = item.Author.Name
			}
			c.add(raw)
		}
	}

	if failed == len(f.feeds) {
		return content.FetchResult{}, fmt.Errorf("all %d feeds failed: %s", failed, c.result.Errors[0].Message)
	}
	return c.result, nil
}
