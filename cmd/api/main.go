package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"vfxprompt/internal/adapter/repo"
	"vfxprompt/internal/adapter/supabase"
	"vfxprompt/internal/cache"
	"vfxprompt/internal/composer"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/enforce"
	"vfxprompt/internal/export"
	"vfxprompt/internal/http/handlers"
	httpapi "vfxprompt/internal/http/httpapi"
	"vfxprompt/internal/infra"
	"vfxprompt/internal/infra/credentials"
	"vfxprompt/internal/infra/geoip"
	"vfxprompt/internal/middleware"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/providers/prompt"
	"vfxprompt/internal/providers/vision"
	"vfxprompt/internal/settings"
	"vfxprompt/internal/storage"
	"vfxprompt/internal/subscription"
	"vfxprompt/internal/variations"
	"vfxprompt/internal/vocab"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	// Storage backend. Stored provider keys live in Postgres, so the pool is
	// also opened on the supabase backend when DATABASE_URL is set.
	var (
		repos domain.Repositories
		keys  keyStore
	)
	if cfg.StoreBackend == infra.StoreBackendPostgres || cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		runner := infra.NewSQLRunner(dbpool, logger)
		keys = credentials.NewStore(runner)
		repos = repo.NewRepositories(runner)
	}
	if cfg.StoreBackend == infra.StoreBackendSupabase {
		client, err := infra.NewSupabaseClient(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create supabase client")
		}
		repos = supabase.NewRepositories(client)
	}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb, "vfxprompt:")
	}

	files, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	var lookup middleware.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	gws := buildGateways(ctx, cfg, keys, logger)
	app := newApp(cfg, logger, repos, store, files, gws)

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		DefaultLocale:  middleware.LocaleEnglish,
		CountryLookup:  lookup,
		Limiter:        middleware.NewIPLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst),
		StaticDir:      files.BasePath(),
		Logger:         logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("backend", cfg.StoreBackend).Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newApp(cfg *infra.Config, logger zerolog.Logger, repos domain.Repositories, store cache.Store, files *storage.FileStore, gws flowGateways) *handlers.App {
	v := vocab.Default()
	reconciler := settings.New(v)
	builder := composer.New(v)
	enforcer := enforce.NewRegex(v, logger)

	opts := func(gw llm.Gateway) prompt.Options {
		return prompt.Options{
			Gateway:    gw,
			Vocab:      v,
			Reconciler: reconciler,
			Builder:    builder,
			Enforcer:   enforcer,
			Logger:     logger,
		}
	}

	var limiter *rate.Limiter
	if cfg.VariationRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.VariationRatePerSecond), 1)
	}

	return &handlers.App{
		Logger:     logger,
		Repos:      repos,
		Store:      files,
		Subs:       subscription.NewService(repos.Roles, store, cfg.FreeDailyGenerations, logger),
		Reconciler: reconciler,
		Builder:    builder,
		Analyzer: vision.NewAnalyzer(vision.AnalyzerOptions{
			Gateway: gws.Analyze,
			Vocab:   v,
			Cache:   store,
			TTL:     cfg.AnalysisCacheTTL,
			Logger:  logger,
		}),
		Deep:       vision.NewDeepAnalyzer(gws.Deep, logger),
		Enhancer:   prompt.NewEnhancer(opts(gws.Enhance)),
		Generator:  prompt.NewGenerator(opts(gws.Generate), prompt.NewCatalogResolver(repos.Effects, logger)),
		Variations: variations.New(gws.Variations, v, limiter, cfg.VariationConcurrency, logger),
		Exporter:   export.New(),
		ImageHosts: cfg.ImageHostAllowlist,
	}
}
