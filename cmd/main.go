package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hypewatch/internal/adapters/config"
	"hypewatch/internal/adapters/errors/noop"
	"hypewatch/internal/adapters/errors/sentry"
	"hypewatch/internal/adapters/postgres"
	"hypewatch/internal/adapters/redis"
	"hypewatch/internal/adapters/sources/alphavantage"
	redditsource "hypewatch/internal/adapters/sources/reddit"
	twittersource "hypewatch/internal/adapters/sources/twitter"
	"hypewatch/internal/adapters/telegram"
	"hypewatch/internal/analysis"
	"hypewatch/internal/api"
	"hypewatch/internal/api/health"
	"hypewatch/internal/domain/feedback"
	"hypewatch/internal/ml/fintone"
	memoryrepo "hypewatch/internal/repository/memory"
	postgresrepo "hypewatch/internal/repository/postgres"
	"hypewatch/internal/services/conversation"
	feedbacksvc "hypewatch/internal/services/feedback"
	"hypewatch/internal/services/prediction"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional infrastructure
	healthChecks := make(map[string]health.Checker)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, source cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			healthChecks["redis"] = redisClient
			log.Info("✓ Redis connected")
		}
	}

	feedbackRepo := initFeedbackRepo(ctx, cfg, healthChecks, log)

	// Analysis pipeline
	aggregator := analysis.NewAggregator(toneLoader(cfg))

	var cache *prediction.SourceCache
	if redisClient != nil {
		cache = prediction.NewSourceCache(prediction.DefaultCacheConfig(), redisClient)
	}

	predictions := prediction.NewService(
		redditsource.NewClient(cfg.Reddit),
		twittersource.NewClient(cfg.Twitter),
		alphavantage.NewClient(cfg.AlphaVantage),
		aggregator,
		cache,
		prediction.NewMessenger(nil),
	)

	feedbackService := feedbacksvc.NewService(feedbackRepo)
	conversations := conversation.NewService(predictions, feedbackService)

	healthHandler := health.New(log, healthChecks, cfg.App.Name, version)

	// Telegram bot
	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.NewBot(telegram.Config{
			Token: cfg.Telegram.BotToken,
			Debug: cfg.Telegram.Debug,
		}, log)
		if err != nil {
			log.Fatalf("Failed to create Telegram bot: %v", err)
		}

		handler := telegram.NewHandler(bot, conversations, healthHandler.Statuses)
		bot.SetMessageHandler(handler.HandleUpdate)

		go func() {
			if err := bot.Start(ctx); err != nil {
				log.Errorf("Telegram bot error: %v", err)
			}
		}()
		log.Info("✓ Telegram bot started")
	} else {
		log.Info("Telegram bot disabled (no token)")
	}

	// HTTP server
	var server *api.Server
	if cfg.Server.Enabled {
		server = api.NewServer(
			api.ServerConfig{Port: cfg.Server.Port, ServiceName: cfg.App.Name, Version: version},
			healthHandler,
			api.NewAPI(predictions, feedbackService),
			log,
		)

		go func() {
			if err := server.Start(); err != nil {
				log.Errorf("HTTP server error: %v", err)
				cancel()
			}
		}()
	}

	log.Info("System initialized successfully")

	waitForShutdown(cancel, log)

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warnf("HTTP server shutdown: %v", err)
		}
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := errorTracker.Flush(flushCtx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}

	log.Info("Shutdown complete")
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initFeedbackRepo selects postgres or in-memory feedback storage
func initFeedbackRepo(ctx context.Context, cfg *config.Config, healthChecks map[string]health.Checker, log *logger.Logger) feedback.Repository {
	if !cfg.Postgres.Enabled() {
		log.Info("Feedback storage: in-memory (postgres not configured)")
		return memoryrepo.NewFeedbackRepository()
	}

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Warnf("Postgres unavailable, feedback falls back to in-memory: %v", err)
		return memoryrepo.NewFeedbackRepository()
	}

	repo := postgresrepo.NewFeedbackRepository(pgClient.DB())
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warnf("Failed to ensure feedback schema, falling back to in-memory: %v", err)
		pgClient.Close()
		return memoryrepo.NewFeedbackRepository()
	}

	healthChecks["postgres"] = pgClient
	log.Info("✓ Feedback storage: postgres")
	return repo
}

// toneLoader builds the lazy financial-tone classifier loader.
// Returns nil (classifier disabled) when the feature flag is off.
func toneLoader(cfg *config.Config) analysis.ToneLoader {
	if !cfg.Sentiment.FinToneEnabled {
		return nil
	}

	return func() (analysis.ToneClassifier, error) {
		return fintone.NewClassifier(fintone.Config{
			ModelPath:     cfg.Sentiment.ModelPath,
			TokenizerPath: cfg.Sentiment.TokenizerPath,
			MaxSeqLen:     cfg.Sentiment.MaxSeqLen,
		})
	}
}

// waitForShutdown blocks until SIGINT or SIGTERM
func waitForShutdown(cancel context.CancelFunc, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")
	cancel()
}
