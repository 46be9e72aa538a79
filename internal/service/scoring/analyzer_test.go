package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentradar/internal/domain/content"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func ago(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestViewVelocity(t *testing.T) {
	a := newAnalyzer(DefaultTrendConfig(), DefaultProfiles(), fixedNow)

	tests := []struct {
		name string
		post content.Post
		want float64
	}{
		{"hourly source", content.Post{Source: content.SourceReddit, ViewCount: 300, PublishedAt: ago(3 * time.Hour)}, 100},
		{"floored at one hour", content.Post{Source: content.SourceReddit, ViewCount: 300, PublishedAt: ago(10 * time.Minute)}, 300},
		{"future publish floored", content.Post{Source: content.SourceYouTube, ViewCount: 50, PublishedAt: ago(-time.Hour)}, 50},
		{"daily source", content.Post{Source: content.SourceNaver, ViewCount: 80, PublishedAt: ago(48 * time.Hour)}, 40},
		{"missing publish time", content.Post{Source: content.SourceTwitter, ViewCount: 1000}, 0},
		{"zero counters", content.Post{Source: content.SourceReddit, PublishedAt: ago(time.Hour)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ViewVelocity(tt.post)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
		})
	}
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, EngagementRate(content.Post{}))
	assert.Equal(t, 0.0, EngagementRate(content.Post{LikeCount: 5, CommentCount: 3}))
	assert.InDelta(t, 0.25, EngagementRate(content.Post{ViewCount: 40, LikeCount: 6, CommentCount: 4}), 1e-9)
}

func TestMovingAverage(t *testing.T) {
	avg, ok := MovingAverage([]float64{1, 2, 3, 4}, 2)
	require.True(t, ok)
	assert.Equal(t, 3.5, avg)

	_, ok = MovingAverage([]float64{1, 2}, 3)
	assert.False(t, ok)

	_, ok = MovingAverage(nil, 0)
	assert.False(t, ok)
}

func TestDetectCross_ThirtyPointsIsNotEnough(t *testing.T) {
	history := append(repeat(10, 7), repeat(5, 23)...)

	result := DetectCross(history, 7, 30)

	assert.Equal(t, content.CrossNone, result.Cross)
	require.NotNil(t, result.ShortMA)
	require.NotNil(t, result.LongMA)
	assert.InDelta(t, 5.0, *result.ShortMA, 1e-9)
	assert.InDelta(t, 185.0/30.0, *result.LongMA, 1e-9)
}

func TestDetectCross_Golden(t *testing.T) {
	history := append(repeat(10, 30), 50)

	result := DetectCross(history, 7, 30)

	assert.Equal(t, content.CrossGolden, result.Cross)
	assert.InDelta(t, 110.0/7.0, *result.ShortMA, 1e-9)
	assert.InDelta(t, 340.0/30.0, *result.LongMA, 1e-9)
}

func TestDetectCross_Dead(t *testing.T) {
	history := append(repeat(10, 30), 0)

	result := DetectCross(history, 7, 30)

	assert.Equal(t, content.CrossDead, result.Cross)
}

func TestDetectCross_AboveWithoutFreshCross(t *testing.T) {
	history := make([]float64, 0, 32)
	for i := 1; i <= 32; i++ {
		history = append(history, float64(i))
	}

	result := DetectCross(history, 7, 30)

	assert.Equal(t, content.CrossNone, result.Cross)
	assert.Greater(t, *result.ShortMA, *result.LongMA)
}

func TestDetectCross_NeverCrossesWithShortHistory(t *testing.T) {
	for n := 0; n <= 30; n++ {
		history := append(repeat(0, n/2), repeat(100, n-n/2)...)
		result := DetectCross(history, 7, 30)
		assert.Equal(t, content.CrossNone, result.Cross, "points=%d", n)
	}
}

func TestAnalyzePost_AppendsCurrentCount(t *testing.T) {
	a := newAnalyzer(TrendConfig{ShortPeriod: 2, LongPeriod: 3}, DefaultProfiles(), fixedNow)
	post := content.Post{PostID: "reddit_x", Source: content.SourceReddit, ViewCount: 100, CommentCount: 10, PublishedAt: ago(2 * time.Hour)}
	snapshots := content.SnapshotMap{
		"reddit_x": {{ViewCount: 10}, {ViewCount: 10}, {ViewCount: 10}},
	}

	result := a.AnalyzePost(post, snapshots)

	assert.Equal(t, "reddit_x", result.PostID)
	assert.Equal(t, 4, result.HistoryPoints)
	assert.Equal(t, content.CrossGolden, result.Cross)
	assert.InDelta(t, 50.0, result.Velocity, 1e-9)
	assert.InDelta(t, 0.1, result.EngagementRate, 1e-9)
}

func TestAnalyzeAll_PreservesInputOrder(t *testing.T) {
	a := newAnalyzer(DefaultTrendConfig(), nil, fixedNow)
	posts := []content.Post{{PostID: "b"}, {PostID: "a"}, {PostID: "c"}}

	results := a.AnalyzeAll(posts, nil)

	require.Len(t, results, 3)
	assert.Equal(t, "b", results[0].PostID)
	assert.Equal(t, "a", results[1].PostID)
	assert.Equal(t, "c", results[2].PostID)
	for _, r := range results {
		assert.Equal(t, content.CrossNone, r.Cross)
		assert.Nil(t, r.ShortMA)
	}
}
