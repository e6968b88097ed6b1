package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"nexus-gateway/internal/catalog"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/jobs"
	"nexus-gateway/internal/migrate"
	"nexus-gateway/internal/ratelimit"
	"nexus-gateway/internal/recommend"
	"nexus-gateway/internal/repos"
	"nexus-gateway/internal/server"
	"nexus-gateway/pkg/cache"
	pkgdb "nexus-gateway/pkg/db"
	"nexus-gateway/pkg/deps"
	"nexus-gateway/pkg/signer"
	"nexus-gateway/pkg/tmdb"
)

func main() {
	_ = godotenv.Load() // best-effort
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	if err := migrate.Up(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	var store cache.Cache
	var counters cache.Counters
	if addr := cfg.ValkeyAddr; addr != "" {
		vc, err := cache.NewValkey(addr, cfg.ValkeyPassword)
		if err != nil {
			log.Error().Err(err).Msg("valkey connect failed, using in-memory cache")
			mem := cache.NewInMemory()
			store, counters = mem, mem
		} else {
			store, counters = vc, vc
		}
	} else {
		mem := cache.NewInMemory()
		store, counters = mem, mem
	}

	if cfg.TMDBToken == "" {
		log.Fatal().Msg("TMDB_API_TOKEN is required")
	}
	provider := tmdb.New(cfg.TMDBToken)
	provider.TrendingPages = cfg.TMDBMaxPages

	repository := repos.New(pool)
	cat := catalog.New(provider, store, catalog.Config{
		PageSize:     cfg.PageSize,
		ImageBaseURL: cfg.ImageBaseURL,
		TrendingTTL:  cfg.TrendingTTL,
		DetailTTL:    cfg.DetailTTL,
		SearchTTL:    cfg.SearchTTL,
		GenresTTL:    cfg.GenresTTL,
		RecommendTTL: cfg.RecommendTTL,
	})
	engine := recommend.New(cat, repository.Profiles)
	limiter := ratelimit.New(counters, cfg.UserDailyLimit, cfg.AnonDailyLimit)

	api := server.New(deps.ServerDeps{
		Catalog:            cat,
		Engine:             engine,
		Limiter:            limiter,
		Favorites:          repository.Favorites,
		Profiles:           repository.Profiles,
		Fingerprint:        signer.NewHMAC(cfg.BucketSecret),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Name:               "nexus-gateway",
		StartedAt:          time.Now(),
	})

	jobs.StartGenreSync(ctx, cat, repository, store, cfg.GenreSyncInterval)
	jobs.WarmTrending(ctx, cat)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := server.StartHTTP(ctx, addr, api.Router()); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	_, _ = fmt.Fprintln(os.Stderr, "shutting down...")
	time.Sleep(200 * time.Millisecond)
}
