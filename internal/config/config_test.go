package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Trend.ShortPeriod)
	assert.Equal(t, 30, cfg.Trend.LongPeriod)
	assert.Equal(t, 90*24*time.Hour, cfg.Snapshot.Retention())
	assert.Equal(t, 25.0, cfg.Scoring.WeightVelocity)
	assert.Equal(t, 75.0, cfg.Scoring.DoubleDownThreshold)
	assert.Equal(t, 60.0, cfg.Strategy.DoubleDownAvgScore)
	assert.Equal(t, []string{"popular"}, cfg.Sources.RedditSubreddits)
	assert.Empty(t, cfg.NATS.URL)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.JobTimeout)
	assert.True(t, hasStandaloneTerm(cfg.Sources.TwitterQuery))
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("SNAPSHOT_RETENTION_DAYS", "30")
	t.Setenv("RSS_FEEDS", " https://a.example/feed , ,https://b.example/rss")
	t.Setenv("REFRESH_CACHE_TTL", "90s")
	t.Setenv("REFRESH_REQUIRE_SOURCE", "true")
	t.Setenv("REFRESH_JOB_TIMEOUT", "2m")
	t.Setenv("SERVER_WRITE_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*24*time.Hour, cfg.Snapshot.Retention())
	assert.Equal(t, []string{"https://a.example/feed", "https://b.example/rss"}, cfg.Sources.RSSFeeds)
	assert.Equal(t, 90*time.Second, cfg.Refresh.CacheTTL)
	assert.True(t, cfg.Refresh.RequireSource)
	assert.Equal(t, 2*time.Minute, cfg.Refresh.JobTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_RejectsInvalidWeights(t *testing.T) {
	t.Setenv("SCORING_WEIGHT_GROWTH", "30")

	_, err := Load()

	assert.ErrorContains(t, err, "sum to 100")
}

func TestLoad_RejectsInvertedPeriods(t *testing.T) {
	t.Setenv("TREND_SHORT_PERIOD", "30")
	t.Setenv("TREND_LONG_PERIOD", "7")

	_, err := Load()

	assert.ErrorContains(t, err, "short period")
}

func TestLoad_RejectsNonPositiveRetention(t *testing.T) {
	t.Setenv("SNAPSHOT_RETENTION_DAYS", "0")

	_, err := Load()

	assert.ErrorContains(t, err, "retention")
}

func TestLoad_RejectsOperatorOnlyTwitterQuery(t *testing.T) {
	t.Setenv("TWITTER_BEARER_TOKEN", "token")
	t.Setenv("TWITTER_QUERY", "lang:en -is:retweet")

	_, err := Load()

	assert.ErrorContains(t, err, "twitter query")
}

func TestLoad_IgnoresTwitterQueryWithoutToken(t *testing.T) {
	t.Setenv("TWITTER_QUERY", "lang:en -is:retweet")

	_, err := Load()

	assert.NoError(t, err)
}

func TestHasStandaloneTerm(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"news lang:en -is:retweet", true},
		{"#golang -is:reply", true},
		{`"breaking news" lang:ko`, true},
		{"(ai OR crypto) lang:en", true},
		{"lang:en -is:retweet", false},
		{"-spam", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hasStandaloneTerm(tt.query), tt.query)
	}
}
