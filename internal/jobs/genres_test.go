package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"nexus-gateway/internal/catalog"
	"nexus-gateway/pkg/cache"
	"nexus-gateway/pkg/tmdb"
)

type stubProvider struct {
	mu            sync.Mutex
	discoverCalls int
	discover      []tmdb.Movie
	genres        []tmdb.Genre
}

func (s *stubProvider) Trending(context.Context) ([]tmdb.Movie, error) { return nil, nil }

func (s *stubProvider) Detail(context.Context, int64) (tmdb.Movie, error) {
	return tmdb.Movie{}, nil
}

func (s *stubProvider) Search(_ context.Context, _ string, page int) (tmdb.Page, error) {
	return tmdb.Page{Page: page}, nil
}

func (s *stubProvider) DiscoverByGenres(_ context.Context, _ []int64, page int) (tmdb.Page, error) {
	s.mu.Lock()
	s.discoverCalls++
	s.mu.Unlock()
	return tmdb.Page{Page: page, TotalPages: 1, TotalResults: int64(len(s.discover)), Results: s.discover}, nil
}

func (s *stubProvider) Genres(context.Context) ([]tmdb.Genre, error) { return s.genres, nil }

func TestSyncGenresInvalidatesRecommendationPages(t *testing.T) {
	p := &stubProvider{
		discover: []tmdb.Movie{{ID: 1, Title: "a", GenreIDs: []int64{28}}},
		genres:   []tmdb.Genre{{ID: 28, Name: "Action"}},
	}
	store := cache.NewInMemory()
	svc := catalog.New(p, store, catalog.Config{
		PageSize:     5,
		GenresTTL:    time.Minute,
		RecommendTTL: time.Minute,
	})
	ctx := context.Background()

	if _, err := svc.DiscoverByGenres(ctx, []int64{28}, 1); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if _, err := svc.DiscoverByGenres(ctx, []int64{28}, 1); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if p.discoverCalls != 1 {
		t.Fatalf("expected cached page before sync, got %d calls", p.discoverCalls)
	}

	syncGenres(ctx, svc, nil, store)

	if _, ok := store.Get(ctx, "genres:all"); !ok {
		t.Fatal("expected genre set refreshed in cache")
	}
	if _, err := svc.DiscoverByGenres(ctx, []int64{28}, 1); err != nil {
		t.Fatalf("discover after sync: %v", err)
	}
	if p.discoverCalls != 2 {
		t.Fatalf("expected recommendation pages invalidated by sync, got %d calls", p.discoverCalls)
	}
}
