// internal/config/config.go

package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Log         LogConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Snapshot    SnapshotConfig
	Trend       TrendConfig
	Scoring     ScoringConfig
	Strategy    StrategyConfig
	Refresh     RefreshConfig
	Sources     SourcesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig holds the optional Postgres archive configuration
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration. An empty URL disables publishing.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	SubjectPrefix  string
}

// SnapshotConfig holds snapshot store configuration
type SnapshotConfig struct {
	StatePath     string
	ArchiveDir    string
	RetentionDays int
	QueueSize     int
}

// TrendConfig holds moving-average configuration
type TrendConfig struct {
	ShortPeriod int
	LongPeriod  int
}

// ScoringConfig holds factor weights and signal thresholds
type ScoringConfig struct {
	WeightVelocity      float64
	WeightEngagement    float64
	WeightGrowth        float64
	WeightTopic         float64
	WeightPlatform      float64
	DoubleDownThreshold float64
	MaintainThreshold   float64
}

// StrategyConfig holds advisor thresholds
type StrategyConfig struct {
	DoubleDownAvgScore  float64
	PivotAvgScore       float64
	PivotMinPosts       int
	ConcentrationShare  float64
	UnexploredLimit     int
	RelevanceWindowSize int
}

// RefreshConfig holds orchestration configuration
type RefreshConfig struct {
	CronSpec      string
	JobTimeout    time.Duration
	CacheTTL      time.Duration
	SourceTimeout time.Duration
	RequireSource bool
}

// SourcesConfig holds platform credentials and targets.
// A source with no credentials or targets is not registered.
type SourcesConfig struct {
	RedditSubreddits []string
	RedditLimit      int
	RedditTimeRange  string
	NaverClientID    string
	NaverSecret      string
	NaverQueries     []string
	TwitterToken     string
	TwitterQuery     string
	TwitterLimit     int
	YouTubeAPIKey    string
	YouTubeRegion    string
	YouTubeLimit     int
	RSSFeeds         []string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "contentradar"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			SubjectPrefix:  getEnv("NATS_SUBJECT_PREFIX", "contentradar"),
		},
		Snapshot: SnapshotConfig{
			StatePath:     getEnv("SNAPSHOT_STATE_PATH", "data/snapshots.json"),
			ArchiveDir:    getEnv("SNAPSHOT_ARCHIVE_DIR", "data/archive"),
			RetentionDays: getEnvAsInt("SNAPSHOT_RETENTION_DAYS", 90),
			QueueSize:     getEnvAsInt("SNAPSHOT_QUEUE_SIZE", 16),
		},
		Trend: TrendConfig{
			ShortPeriod: getEnvAsInt("TREND_SHORT_PERIOD", 7),
			LongPeriod:  getEnvAsInt("TREND_LONG_PERIOD", 30),
		},
		Scoring: ScoringConfig{
			WeightVelocity:      getEnvAsFloat("SCORING_WEIGHT_VELOCITY", 25),
			WeightEngagement:    getEnvAsFloat("SCORING_WEIGHT_ENGAGEMENT", 25),
			WeightGrowth:        getEnvAsFloat("SCORING_WEIGHT_GROWTH", 20),
			WeightTopic:         getEnvAsFloat("SCORING_WEIGHT_TOPIC", 15),
			WeightPlatform:      getEnvAsFloat("SCORING_WEIGHT_PLATFORM", 15),
			DoubleDownThreshold: getEnvAsFloat("SCORING_DOUBLE_DOWN_THRESHOLD", 75),
			MaintainThreshold:   getEnvAsFloat("SCORING_MAINTAIN_THRESHOLD", 40),
		},
		Strategy: StrategyConfig{
			DoubleDownAvgScore:  getEnvAsFloat("STRATEGY_DOUBLE_DOWN_AVG", 60),
			PivotAvgScore:       getEnvAsFloat("STRATEGY_PIVOT_AVG", 30),
			PivotMinPosts:       getEnvAsInt("STRATEGY_PIVOT_MIN_POSTS", 2),
			ConcentrationShare:  getEnvAsFloat("STRATEGY_CONCENTRATION_SHARE", 50),
			UnexploredLimit:     getEnvAsInt("STRATEGY_UNEXPLORED_LIMIT", 3),
			RelevanceWindowSize: getEnvAsInt("STRATEGY_RELEVANCE_WINDOW", 20),
		},
		Refresh: RefreshConfig{
			CronSpec:      getEnv("REFRESH_CRON", "@every 30m"),
			JobTimeout:    getEnvAsDuration("REFRESH_JOB_TIMEOUT", 5*time.Minute),
			CacheTTL:      getEnvAsDuration("REFRESH_CACHE_TTL", 10*time.Minute),
			SourceTimeout: getEnvAsDuration("REFRESH_SOURCE_TIMEOUT", 15*time.Second),
			RequireSource: getEnvAsBool("REFRESH_REQUIRE_SOURCE", false),
		},
		Sources: SourcesConfig{
			RedditSubreddits: getEnvAsSlice("REDDIT_SUBREDDITS", []string{"popular"}),
			RedditLimit:      getEnvAsInt("REDDIT_LIMIT", 25),
			RedditTimeRange:  getEnv("REDDIT_TIME_RANGE", "day"),
			NaverClientID:    getEnv("NAVER_CLIENT_ID", ""),
			NaverSecret:      getEnv("NAVER_CLIENT_SECRET", ""),
			NaverQueries:     getEnvAsSlice("NAVER_QUERIES", nil),
			TwitterToken:     getEnv("TWITTER_BEARER_TOKEN", ""),
			TwitterQuery:     getEnv("TWITTER_QUERY", "news lang:en -is:retweet"),
			TwitterLimit:     getEnvAsInt("TWITTER_LIMIT", 50),
			YouTubeAPIKey:    getEnv("YOUTUBE_API_KEY", ""),
			YouTubeRegion:    getEnv("YOUTUBE_REGION", "US"),
			YouTubeLimit:     getEnvAsInt("YOUTUBE_LIMIT", 25),
			RSSFeeds:         getEnvAsSlice("RSS_FEEDS", nil),
		},
	}

	return config, validate(config)
}

// Retention returns the snapshot retention window
func (c SnapshotConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// validate checks if config is valid
func validate(config Config) error {
	s := config.Scoring
	sum := s.WeightVelocity + s.WeightEngagement + s.WeightGrowth + s.WeightTopic + s.WeightPlatform
	if math.Abs(sum-100) > 1e-6 {
		return fmt.Errorf("scoring weights must sum to 100, got %.2f", sum)
	}

	if config.Trend.ShortPeriod <= 0 || config.Trend.ShortPeriod >= config.Trend.LongPeriod {
		return fmt.Errorf("trend short period must be positive and below long period (%d >= %d)",
			config.Trend.ShortPeriod, config.Trend.LongPeriod)
	}

	if config.Snapshot.RetentionDays <= 0 {
		return fmt.Errorf("snapshot retention must be positive, got %d days", config.Snapshot.RetentionDays)
	}

	if s.MaintainThreshold > s.DoubleDownThreshold {
		return fmt.Errorf("maintain threshold %.2f exceeds double-down threshold %.2f",
			s.MaintainThreshold, s.DoubleDownThreshold)
	}

	if config.Sources.TwitterToken != "" && !hasStandaloneTerm(config.Sources.TwitterQuery) {
		return fmt.Errorf("twitter query %q needs at least one keyword besides operators",
			config.Sources.TwitterQuery)
	}

	return nil
}

// hasStandaloneTerm reports whether a recent-search query contains a keyword,
// hashtag or phrase that is not a negation or a field operator such as lang: or is:
func hasStandaloneTerm(query string) bool {
	for _, field := range strings.Fields(query) {
		field = strings.Trim(field, "()")
		if field == "" || field == "OR" || strings.HasPrefix(field, "-") {
			continue
		}
		if strings.HasPrefix(field, "\"") || !strings.Contains(field, ":") {
			return true
		}
	}
	return false
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
