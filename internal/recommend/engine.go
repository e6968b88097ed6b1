package recommend

import (
	"context"
	"sort"

	"nexus-gateway/internal/catalog"
	"nexus-gateway/internal/model"
)

const (
	msgPersonalized = "Personalized recommendations based on your favorite genres."
	msgFallback     = "Showing trending movies. Add favorite genres to get personalized recommendations."
)

// ProfileSource exposes the favorite-genre set of a user. The repos package
// satisfies this interface.
type ProfileSource interface {
	FavoriteGenres(ctx context.Context, userID string) ([]int64, error)
}

// Engine produces ranked movie recommendations from a user's favorite
// genres, falling back to trending when no genre signal exists. The fallback
// is a hard policy: whenever the provider has trending data, the caller gets
// a non-empty list.
type Engine struct {
	catalog  *catalog.Service
	profiles ProfileSource
}

func New(c *catalog.Service, p ProfileSource) *Engine {
	return &Engine{catalog: c, profiles: p}
}

// Recommend returns one page of recommendations for userID. Genre-matched
// results are ranked by popularity descending (stable, so provider order
// breaks ties) and deduplicated by movie id keeping the first occurrence.
func (e *Engine) Recommend(ctx context.Context, userID string, page int) (model.Recommendation, error) {
	genreIDs, err := e.profiles.FavoriteGenres(ctx, userID)
	if err != nil {
		return model.Recommendation{}, err
	}
	if len(genreIDs) == 0 {
		return e.fallback(ctx, page)
	}
	mp, err := e.catalog.DiscoverByGenres(ctx, genreIDs, page)
	if err != nil {
		return model.Recommendation{}, err
	}
	if len(mp.Results) == 0 {
		return e.fallback(ctx, page)
	}
	mp.Results = rank(mp.Results)
	return model.Recommendation{MoviePage: mp, Personalized: true, Message: msgPersonalized}, nil
}

func (e *Engine) fallback(ctx context.Context, page int) (model.Recommendation, error) {
	mp, err := e.catalog.Trending(ctx, page)
	if err != nil {
		return model.Recommendation{}, err
	}
	return model.Recommendation{MoviePage: mp, Personalized: false, Message: msgFallback}, nil
}

func rank(movies []model.Movie) []model.Movie {
	ranked := append([]model.Movie(nil), movies...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Popularity > ranked[j].Popularity
	})
	out := ranked[:0]
	seen := make(map[int64]struct{}, len(ranked))
	for _, m := range ranked {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
