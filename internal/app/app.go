package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/teachstack/edudir/internal/cache"
	"github.com/teachstack/edudir/internal/config"
	"github.com/teachstack/edudir/internal/enrich"
	"github.com/teachstack/edudir/internal/httpserver"
	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/mw"
	"github.com/teachstack/edudir/internal/index"
	"github.com/teachstack/edudir/internal/ingest"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/metadata"
	"github.com/teachstack/edudir/internal/newsletter"
	"github.com/teachstack/edudir/internal/scheduler"
	"github.com/teachstack/edudir/internal/store/sqlite"
	"github.com/teachstack/edudir/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	store       *sqlite.Store
	redisClient *goredis.Client
	refresher   *scheduler.IndexRefresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		loggerClient.Errorf("Failed to open database at %s: %v", cfg.DBPath, err)
		os.Exit(1)
	}
	loggerClient.Info("database opened", logger.String("path", cfg.DBPath))

	// Optional Redis metadata cache. When an address is configured it
	// must be reachable; when it is not, the fetcher just hits origins
	// every time.
	var (
		redisClient *goredis.Client
		mdCache     metadata.Cache
	)
	if cfg.RedisAddr != "" {
		redisClient, err = cache.Connect(cache.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		mdCache = cache.NewMetadataCache(redisClient, cfg.MetadataCacheTTL, loggerClient)
	} else {
		loggerClient.Info("redis not configured, metadata cache disabled")
	}

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	fetcher := metadata.NewFetcher(httpClient, cfg.UserAgent, mdCache, loggerClient)

	// Enrichment is all-or-nothing: without both API keys the pipeline
	// still imports bookmarks, just without overviews.
	var (
		summarizer    *enrich.Summarizer
		genSummarizer ingest.Summarizer
	)
	if cfg.EnrichmentEnabled() {
		exa := enrich.NewExaClient(httpClient, cfg.ExaBaseURL, cfg.ExaAPIKey)
		gemini := enrich.NewGeminiClient(httpClient, cfg.GeminiURL, cfg.GeminiModel, cfg.GeminiAPIKey)
		summarizer = enrich.NewSummarizer(exa, gemini)
		genSummarizer = summarizer
	} else {
		loggerClient.Info("enrichment API keys not configured, overviews disabled")
	}

	generator := ingest.NewGenerator(fetcher, genSummarizer, loggerClient)
	pipeline := ingest.NewPipeline(generator, store, ingest.Options{
		URLTimeout: cfg.URLTimeout,
		URLDelay:   cfg.URLDelay,
	}, loggerClient)

	memIndex := index.NewMemoryIndex()
	reloadTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewIndexRefresher(store, memIndex, loggerClient, cfg.ReindexInterval, reloadTrigger)

	subscribers := newsletter.NewStore(cfg.SubscribersFile, loggerClient)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AdminToken:    cfg.AdminToken,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		MemoryIndex:   memIndex,
		Fetcher:       fetcher,
		Summarizer:    summarizer,
		Pipeline:      pipeline,
		Subscribers:   subscribers,
		RedisClient:   redisClient,
		ReloadTrigger: reloadTrigger,
		RateLimiter: mw.RateLimit(mw.RateLimitConfig{
			Burst:             cfg.RateLimitBurst,
			RefillPerIPPerMin: cfg.RateLimitPerMin,
			TrustProxy:        cfg.TrustProxy,
		}),
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		store:       store,
		redisClient: redisClient,
		refresher:   refresher,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting edudir v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("edudir %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed categories before the first index build so they are visible
	// immediately.
	if err := scheduler.SeedCategories(ctx, a.cfg.SeedFile, a.store, a.logger); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	// Start the index refresher (builds the read model and keeps it fresh)
	if err := a.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start index refresher: %w", err)
	}
	a.logger.Info("index refresher started",
		logger.Duration("interval", a.cfg.ReindexInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	}

	a.logger.Info("edudir stopped cleanly")
	return nil
}
