// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"contentradar/internal/adapter/events"
	"contentradar/internal/adapter/social"
	"contentradar/internal/adapter/storage"
	"contentradar/internal/config"
	"contentradar/internal/domain/content"
	"contentradar/internal/logging"
	"contentradar/internal/scheduler"
	"contentradar/internal/server"
	"contentradar/internal/service/listening"
	"contentradar/internal/service/scoring"
	"contentradar/internal/service/strategy"
)

func main() {
	// A missing .env file is fine outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := logging.With("main")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Snapshot archive: Postgres when enabled, files otherwise
	var archiver content.Archiver = storage.NewFileArchiver(cfg.Snapshot.ArchiveDir)
	if cfg.Database.Enabled {
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()

		pgArchiver := storage.NewPostgresArchiver(db)
		if err := pgArchiver.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare archive schema")
		}
		archiver = pgArchiver
	}

	snapshotStore := storage.NewSnapshotStore(storage.SnapshotStoreConfig{
		StatePath: cfg.Snapshot.StatePath,
		Retention: cfg.Snapshot.Retention(),
		QueueSize: cfg.Snapshot.QueueSize,
	}, archiver)

	// Event publishing is optional
	var publisher content.EventPublisher
	if cfg.NATS.URL != "" {
		natsConn, err := initNATS(cfg.NATS)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsConn.Close()
		publisher = events.NewPublisher(natsConn, cfg.NATS.SubjectPrefix)
	}

	// Initialize services
	topics := scoring.NewTopicTable(scoring.DefaultTopics())
	analyzer := scoring.NewAnalyzer(scoring.TrendConfig{
		ShortPeriod: cfg.Trend.ShortPeriod,
		LongPeriod:  cfg.Trend.LongPeriod,
	}, scoring.DefaultProfiles())

	scorer := scoring.NewScorer(scoring.ScorerConfig{
		Weights: scoring.Weights{
			ViewVelocity:     cfg.Scoring.WeightVelocity,
			EngagementRate:   cfg.Scoring.WeightEngagement,
			GrowthTrend:      cfg.Scoring.WeightGrowth,
			TopicPerformance: cfg.Scoring.WeightTopic,
			PlatformRelative: cfg.Scoring.WeightPlatform,
		},
		Thresholds: scoring.SignalThresholds{
			DoubleDown: cfg.Scoring.DoubleDownThreshold,
			Maintain:   cfg.Scoring.MaintainThreshold,
		},
	}, analyzer, topics)

	advisor := strategy.NewAdvisor(strategy.AdvisorConfig{
		DoubleDownAvgScore:  cfg.Strategy.DoubleDownAvgScore,
		PivotAvgScore:       cfg.Strategy.PivotAvgScore,
		PivotMinPosts:       cfg.Strategy.PivotMinPosts,
		ConcentrationShare:  cfg.Strategy.ConcentrationShare,
		UnexploredLimit:     cfg.Strategy.UnexploredLimit,
		RelevanceWindowSize: cfg.Strategy.RelevanceWindowSize,
	}, topics)

	refresher := listening.NewRefresher(snapshotStore, analyzer, scorer, advisor, publisher, listening.RefresherConfig{
		SourceTimeout: cfg.Refresh.SourceTimeout,
		CacheTTL:      cfg.Refresh.CacheTTL,
		RequireSource: cfg.Refresh.RequireSource,
	})
	registerFetchers(refresher, cfg.Sources)
	logger.Info().Interface("sources", refresher.Sources()).Msg("sources registered")

	// Scheduled refresh
	cronManager := scheduler.NewManager(scheduler.NewRefreshJob(refresher, cfg.Refresh.JobTimeout))
	if err := cronManager.RegisterJobs(cfg.Refresh.CronSpec); err != nil {
		logger.Fatal().Err(err).Msg("failed to register scheduled refresh")
	}
	cronManager.Start()

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, refresher, snapshotStore)

	// Start HTTP server
	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info().Msg("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop scheduled refreshes
	if err := cronManager.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("scheduler shutdown error")
	}

	// Drain queued snapshot saves
	snapshotStore.Close()

	logger.Info().Msg("shutdown complete")
}

// registerFetchers adds every configured source in fixed order
func registerFetchers(r *listening.Refresher, cfg config.SourcesConfig) {
	if len(cfg.RedditSubreddits) > 0 {
		r.AddFetcher(social.NewRedditFetcher(social.RedditConfig{
			Subreddits: cfg.RedditSubreddits,
			Limit:      cfg.RedditLimit,
			TimeRange:  cfg.RedditTimeRange,
		}))
	}

	if cfg.NaverClientID != "" && cfg.NaverSecret != "" && len(cfg.NaverQueries) > 0 {
		r.AddFetcher(social.NewNaverFetcher(social.NaverConfig{
			ClientID:     cfg.NaverClientID,
			ClientSecret: cfg.NaverSecret,
			Queries:      cfg.NaverQueries,
		}))
	}

	if cfg.TwitterToken != "" {
		r.AddFetcher(social.NewTwitterFetcher(social.TwitterConfig{
			BearerToken: cfg.TwitterToken,
			Query:       cfg.TwitterQuery,
			MaxResults:  cfg.TwitterLimit,
		}))
	}

	if cfg.YouTubeAPIKey != "" {
		r.AddFetcher(social.NewYouTubeFetcher(social.YouTubeConfig{
			APIKey:     cfg.YouTubeAPIKey,
			RegionCode: cfg.YouTubeRegion,
			MaxResults: cfg.YouTubeLimit,
		}))
	}

	if len(cfg.RSSFeeds) > 0 {
		r.AddFetcher(social.NewRSSFetcher(cfg.RSSFeeds))
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	logger := logging.With("nats")

	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
