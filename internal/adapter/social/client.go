// internal/adapter/social/client.go

package social

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"contentradar/internal/domain/content"
)

const userAgent = "contentradar/1.0"

// newHTTPClient returns the client shared by the HTTP based fetchers
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

// getJSON performs a GET request and decodes the JSON body into v
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// hashID derives a stable short id for items that have no platform id
func hashID(value string) string {
	sum := sha1.Sum([]byte(value))
	return hex.EncodeToString(sum[:])[:12]
}

// itemKey returns the first non-empty id. Items with none are keyed by title and date,
// and items without a title either have no key.
func itemKey(title, published string, ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return title + "|" + published
}

// collector accumulates normalized posts and per-item problems for one fetch
type collector struct {
	source content.Source
	seen   map[string]bool
	result content.FetchResult
}

func newCollector(source content.Source, now time.Time) *collector {
	return &collector{
		source: source,
		seen:   make(map[string]bool),
		result: content.FetchResult{
			Source:    source,
			Posts:     []content.Post{},
			Errors:    []content.FetchError{},
			FetchedAt: now.UTC(),
		},
	}
}

func (c *collector) add(raw content.RawPost) {
	raw.Source = c.source
	post, err := content.NormalizePost(raw)
	if err != nil {
		c.fail(err)
		return
	}
	if c.seen[post.PostID] {
		return
	}
	c.seen[post.PostID] = true
	c.result.Posts = append(c.result.Posts, post)
}

func (c *collector) fail(err error) {
	c.result.Errors = append(c.result.Errors, content.FetchError{
		Source:  c.source,
		Message: err.Error(),
	})
}
