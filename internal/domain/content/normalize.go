package content

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPost is returned when a raw item cannot become a Post
var ErrInvalidPost = errors.New("invalid post")

// RawPost is the loosely typed item an adapter builds from a platform payload
type RawPost struct {
	ID           string
	Source       Source
	Title        string
	URL          string
	Author       string
	Published    *time.Time
	PublishedRaw string
	Views        float64
	Likes        float64
	Comments     float64
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"20060102",
	"2006-01-02",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func postValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// NormalizePost coerces a raw adapter item into a validated Post.
// Counters that are negative or non-finite become zero; the id gets the source prefix.
func NormalizePost(raw RawPost) (Post, error) {
	id := strings.TrimSpace(raw.ID)
	if id != "" && !strings.HasPrefix(id, string(raw.Source)+"_") {
		id = string(raw.Source) + "_" + id
	}

	post := Post{
		PostID:       id,
		Title:        strings.TrimSpace(raw.Title),
		Source:       raw.Source,
		URL:          raw.URL,
		Author:       raw.Author,
		PublishedAt:  parsePublished(raw),
		ViewCount:    toCounter(raw.Views),
		LikeCount:    toCounter(raw.Likes),
		CommentCount: toCounter(raw.Comments),
	}

	if err := postValidator().Struct(post); err != nil {
		return Post{}, fmt.Errorf("%w: %s: %v", ErrInvalidPost, raw.ID, err)
	}

	return post, nil
}

func parsePublished(raw RawPost) *time.Time {
	if raw.Published != nil && !raw.Published.IsZero() {
		t := raw.Published.UTC()
		return &t
	}

	value := strings.TrimSpace(raw.PublishedRaw)
	if value == "" {
		return nil
	}

	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func toCounter(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}
