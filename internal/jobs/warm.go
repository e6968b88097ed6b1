package jobs

import (
	"context"

	"github.com/rs/zerolog/log"

	"nexus-gateway/internal/catalog"
)

// WarmTrending populates the first trending page at boot so the first
// request after a deploy does not pay the provider round-trip.
func WarmTrending(ctx context.Context, c *catalog.Service) {
	go func() {
		res, err := c.Trending(ctx, 1)
		if err != nil {
			log.Warn().Err(err).Msg("trending warmup failed")
			return
		}
		log.Info().Int("results", len(res.Results)).Msg("trending cache warmed")
	}()
}
