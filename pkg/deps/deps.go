package deps

import (
	"context"
	"time"

	"nexus-gateway/internal/catalog"
	"nexus-gateway/internal/model"
	"nexus-gateway/internal/ratelimit"
	"nexus-gateway/internal/recommend"
	"nexus-gateway/pkg/signer"
)

// FavoritesStore is the per-user favorites collection. Add is idempotent and
// Remove on an absent record is a no-op. repos.FavoritesRepo satisfies it.
type FavoritesStore interface {
	Add(ctx context.Context, userID string, m model.Movie) error
	Remove(ctx context.Context, userID string, movieID int64) error
	List(ctx context.Context, userID string) ([]model.Favorite, error)
}

// ProfilesStore holds the user's favorite genre set. repos.ProfilesRepo
// satisfies it.
type ProfilesStore interface {
	FavoriteGenres(ctx context.Context, userID string) ([]int64, error)
	SetFavoriteGenres(ctx context.Context, userID string, genreIDs []int64) error
}

// ServerDeps holds the dependencies required by handlers and server.
type ServerDeps struct {
	Catalog     *catalog.Service
	Engine      *recommend.Engine
	Limiter     *ratelimit.Limiter
	Favorites   FavoritesStore
	Profiles    ProfilesStore
	Fingerprint signer.Fingerprinter

	CORSAllowedOrigins []string

	Name      string
	StartedAt time.Time
}
