package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"nexus-gateway/internal/model"
	"nexus-gateway/pkg/cache"
	"nexus-gateway/pkg/fault"
	"nexus-gateway/pkg/tmdb"
)

// Provider is the upstream metadata client the catalogue fronts.
// tmdb.Client satisfies this interface.
type Provider interface {
	Trending(ctx context.Context) ([]tmdb.Movie, error)
	Detail(ctx context.Context, id int64) (tmdb.Movie, error)
	Search(ctx context.Context, query string, page int) (tmdb.Page, error)
	DiscoverByGenres(ctx context.Context, genreIDs []int64, page int) (tmdb.Page, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
}

// Config fixes page sizing and TTL policy. TTLs balance provider freshness
// against its rate limits.
type Config struct {
	PageSize     int
	ImageBaseURL string
	TrendingTTL  time.Duration
	DetailTTL    time.Duration
	SearchTTL    time.Duration
	GenresTTL    time.Duration
	RecommendTTL time.Duration
}

// Service serves provider-backed resources cache-aside: a hit is served from
// the store, a miss fetches upstream once per distinct key (single-flight)
// and populates the store. Cache store failures degrade to direct provider
// fetches, never to caller-visible errors.
type Service struct {
	provider Provider
	cache    cache.Cache
	cfg      Config
	sf       singleflight.Group
}

func New(p Provider, c cache.Cache, cfg Config) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	return &Service{provider: p, cache: c, cfg: cfg}
}

// cached runs the cache-aside read path for key: serve a fresh entry, else
// collapse concurrent misses into one fetch, store the serialized result,
// and decode it into dst. Fetch errors are never stored.
func (s *Service) cached(ctx context.Context, key string, ttl time.Duration, dst any, fetch func() (any, error)) error {
	if raw, ok := s.cache.Get(ctx, key); ok {
		if err := json.Unmarshal([]byte(raw), dst); err == nil {
			return nil
		}
		// undecodable entry: drop it and fall through to a fetch
		_ = s.cache.Delete(ctx, key)
	}
	v, err, _ := s.sf.Do(key, func() (any, error) {
		if raw, ok := s.cache.Get(ctx, key); ok {
			return []byte(raw), nil
		}
		val, err := fetch()
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, string(b), ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed, serving uncached")
		}
		return b, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dst)
}

// Trending returns one gateway page of the aggregated trending window.
// Pages are 1-indexed; pages past the window are empty, not errors.
func (s *Service) Trending(ctx context.Context, page int) (model.MoviePage, error) {
	if page < 1 {
		return model.MoviePage{}, fault.InvalidArgument("page must be >= 1", nil)
	}
	var out model.MoviePage
	key := "trending:page:" + strconv.Itoa(page)
	err := s.cached(ctx, key, s.cfg.TrendingTTL, &out, func() (any, error) {
		movies, err := s.provider.Trending(ctx)
		if err != nil {
			return nil, err
		}
		return s.slicePage(movies, page, int64(len(movies))), nil
	})
	return out, err
}

// Detail returns one movie by provider id.
func (s *Service) Detail(ctx context.Context, movieID int64) (model.Movie, error) {
	if movieID <= 0 {
		return model.Movie{}, fault.InvalidArgument("movie id must be positive", nil)
	}
	var out model.Movie
	key := fmt.Sprintf("movie:%d", movieID)
	err := s.cached(ctx, key, s.cfg.DetailTTL, &out, func() (any, error) {
		m, err := s.provider.Detail(ctx, movieID)
		if err != nil {
			return nil, err
		}
		return s.toMovie(m), nil
	})
	return out, err
}

// Search returns one gateway page of title matches for query. The query must
// be non-empty after trimming; it is rejected before any upstream call.
func (s *Service) Search(ctx context.Context, query string, page int) (model.MoviePage, error) {
	norm := normalizeQuery(query)
	if norm == "" {
		return model.MoviePage{}, fault.InvalidArgument("search query is required", nil)
	}
	if page < 1 {
		return model.MoviePage{}, fault.InvalidArgument("page must be >= 1", nil)
	}
	var out model.MoviePage
	key := fmt.Sprintf("search:%s:page:%d", norm, page)
	err := s.cached(ctx, key, s.cfg.SearchTTL, &out, func() (any, error) {
		return s.fetchWindow(page, func(providerPage int) (tmdb.Page, error) {
			return s.provider.Search(ctx, norm, providerPage)
		})
	})
	return out, err
}

// Genres returns the near-static genre reference set.
func (s *Service) Genres(ctx context.Context) ([]model.Genre, error) {
	var out []model.Genre
	err := s.cached(ctx, "genres:all", s.cfg.GenresTTL, &out, func() (any, error) {
		return s.fetchGenres(ctx)
	})
	return out, err
}

// RefreshGenres fetches the genre set upstream and overwrites the cache
// entry, for the periodic sync job.
func (s *Service) RefreshGenres(ctx context.Context) ([]model.Genre, error) {
	genres, err := s.fetchGenres(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, "genres:all", string(b), s.cfg.GenresTTL); err != nil {
		log.Warn().Err(err).Msg("genre refresh: cache set failed")
	}
	return genres, nil
}

// DiscoverByGenres returns one gateway page of movies matching any of the
// given genre ids, cached per sorted genre-set key.
func (s *Service) DiscoverByGenres(ctx context.Context, genreIDs []int64, page int) (model.MoviePage, error) {
	if len(genreIDs) == 0 {
		return model.MoviePage{}, fault.InvalidArgument("at least one genre id is required", nil)
	}
	if page < 1 {
		return model.MoviePage{}, fault.InvalidArgument("page must be >= 1", nil)
	}
	var out model.MoviePage
	key := fmt.Sprintf("recommend:%s:page:%d", genreSetHash(genreIDs), page)
	err := s.cached(ctx, key, s.cfg.RecommendTTL, &out, func() (any, error) {
		return s.fetchWindow(page, func(providerPage int) (tmdb.Page, error) {
			return s.provider.DiscoverByGenres(ctx, genreIDs, providerPage)
		})
	})
	return out, err
}

func (s *Service) fetchGenres(ctx context.Context) ([]model.Genre, error) {
	gs, err := s.provider.Genres(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Genre, 0, len(gs))
	for _, g := range gs {
		out = append(out, model.Genre{ID: g.ID, Name: g.Name})
	}
	return out, nil
}

// fetchWindow maps a 1-indexed gateway page onto the provider page that
// contains its first item. When the configured page size does not divide the
// provider's and the slice straddles a page boundary, the next provider page
// is fetched as well.
func (s *Service) fetchWindow(page int, fetch func(providerPage int) (tmdb.Page, error)) (model.MoviePage, error) {
	start := (page - 1) * s.cfg.PageSize
	providerPage := start/tmdb.PageSize + 1
	offset := start % tmdb.PageSize

	first, err := fetch(providerPage)
	if err != nil {
		return model.MoviePage{}, err
	}
	results := first.Results
	if offset+s.cfg.PageSize > len(results) && first.Page < first.TotalPages {
		second, err := fetch(providerPage + 1)
		if err != nil {
			return model.MoviePage{}, err
		}
		results = append(append([]tmdb.Movie(nil), results...), second.Results...)
	}

	out := model.MoviePage{Page: page, PageSize: s.cfg.PageSize, Total: first.TotalResults, Results: []model.Movie{}}
	if offset >= len(results) {
		return out, nil
	}
	hi := offset + s.cfg.PageSize
	if hi > len(results) {
		hi = len(results)
	}
	for _, m := range results[offset:hi] {
		out.Results = append(out.Results, s.toMovie(m))
	}
	return out, nil
}

func (s *Service) slicePage(movies []tmdb.Movie, page int, total int64) model.MoviePage {
	lo := (page - 1) * s.cfg.PageSize
	hi := lo + s.cfg.PageSize
	out := model.MoviePage{Page: page, PageSize: s.cfg.PageSize, Total: total, Results: []model.Movie{}}
	if lo >= len(movies) {
		return out
	}
	if hi > len(movies) {
		hi = len(movies)
	}
	for _, m := range movies[lo:hi] {
		out.Results = append(out.Results, s.toMovie(m))
	}
	return out
}

func (s *Service) toMovie(m tmdb.Movie) model.Movie {
	poster := ""
	if m.PosterPath != "" {
		poster = s.cfg.ImageBaseURL + m.PosterPath
	}
	return model.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		PosterURL:   poster,
		Popularity:  m.Popularity,
		GenreIDs:    m.GenreIDs,
	}
}

// normalizeQuery lowercases and collapses whitespace so trivially different
// spellings share a cache entry.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// genreSetHash produces a stable key fragment for a genre id set; order of
// the input does not matter.
func genreSetHash(ids []int64) string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	h := fnv.New64a()
	for _, id := range sorted {
		fmt.Fprintf(h, "%d,", id)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
