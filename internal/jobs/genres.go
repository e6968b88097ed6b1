package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"nexus-gateway/internal/catalog"
	"nexus-gateway/internal/repos"
	"nexus-gateway/pkg/cache"
)

// StartGenreSync refreshes the genre reference set from the provider on a
// fixed interval: the genres:all cache entry is overwritten, cached
// recommendation pages are invalidated, and the genres table upserted. Runs
// once at start so a fresh deployment has genres before the first request.
func StartGenreSync(ctx context.Context, c *catalog.Service, r *repos.Repository, store cache.Cache, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	go func() {
		syncGenres(ctx, c, r, store)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				syncGenres(ctx, c, r, store)
			}
		}
	}()
}

func syncGenres(ctx context.Context, c *catalog.Service, r *repos.Repository, store cache.Cache) {
	genres, err := c.RefreshGenres(ctx)
	if err != nil {
		log.Error().Err(err).Msg("genre sync: provider fetch failed")
		return
	}
	// genre-filtered pages were computed against the old reference set;
	// drop them so the next request recomputes
	if pd, ok := store.(cache.PrefixDeleter); ok {
		if err := pd.DeletePrefix(ctx, "recommend:"); err != nil {
			log.Warn().Err(err).Msg("genre sync: recommendation invalidation failed")
		}
	}
	if r == nil {
		return
	}
	n, err := r.Genres.Upsert(ctx, genres)
	if err != nil {
		log.Error().Err(err).Int("written", n).Msg("genre sync: upsert failed")
		return
	}
	log.Info().Int("count", n).Msg("genre sync completed")
}
