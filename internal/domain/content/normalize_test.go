package content

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePost_PrefixesIDAndCoercesCounters(t *testing.T) {
	post, err := NormalizePost(RawPost{
		ID:       "abc123",
		Source:   SourceReddit,
		Title:    "  Hello  ",
		Views:    12.6,
		Likes:    -4,
		Comments: math.NaN(),
	})

	require.NoError(t, err)
	assert.Equal(t, "reddit_abc123", post.PostID)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, int64(13), post.ViewCount)
	assert.Equal(t, int64(0), post.LikeCount)
	assert.Equal(t, int64(0), post.CommentCount)
	assert.Nil(t, post.PublishedAt)
}

func TestNormalizePost_KeepsExistingPrefix(t *testing.T) {
	post, err := NormalizePost(RawPost{ID: "rss_deadbeef", Source: SourceRSS})

	require.NoError(t, err)
	assert.Equal(t, "rss_deadbeef", post.PostID)
}

func TestNormalizePost_ParsesPublishedText(t *testing.T) {
	post, err := NormalizePost(RawPost{
		ID:           "1",
		Source:       SourceYouTube,
		PublishedRaw: "2026-10-01T08:30:00+09:00",
	})

	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, time.Date(2026, 9, 30, 23, 30, 0, 0, time.UTC), *post.PublishedAt)
}

func TestNormalizePost_UnparseableDateIsAbsent(t *testing.T) {
	post, err := NormalizePost(RawPost{ID: "1", Source: SourceNaver, PublishedRaw: "yesterday"})

	require.NoError(t, err)
	assert.Nil(t, post.PublishedAt)
}

func TestNormalizePost_RejectsMissingIDAndUnknownSource(t *testing.T) {
	_, err := NormalizePost(RawPost{ID: "", Source: SourceReddit})
	assert.ErrorIs(t, err, ErrInvalidPost)

	_, err = NormalizePost(RawPost{ID: "1", Source: Source("myspace")})
	assert.ErrorIs(t, err, ErrInvalidPost)
}

func TestPostKey(t *testing.T) {
	assert.Equal(t, "twitter:twitter_9", Post{PostID: "twitter_9", Source: SourceTwitter}.Key())
	assert.True(t, SourceRSS.Valid())
	assert.False(t, Source("").Valid())
}
