package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"nexus-gateway/internal/catalog"
	"nexus-gateway/internal/model"
	"nexus-gateway/internal/ratelimit"
	"nexus-gateway/internal/recommend"
	"nexus-gateway/internal/server"
	"nexus-gateway/pkg/cache"
	"nexus-gateway/pkg/deps"
	"nexus-gateway/pkg/fault"
	"nexus-gateway/pkg/signer"
	"nexus-gateway/pkg/tmdb"
)

type stubProvider struct {
	trending []tmdb.Movie
	movies   map[int64]tmdb.Movie
}

func (s *stubProvider) Trending(ctx context.Context) ([]tmdb.Movie, error) {
	return s.trending, nil
}

func (s *stubProvider) Detail(ctx context.Context, id int64) (tmdb.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return tmdb.Movie{}, fault.NotFound("provider reports no such resource", nil)
	}
	return m, nil
}

func (s *stubProvider) Search(ctx context.Context, query string, page int) (tmdb.Page, error) {
	return tmdb.Page{Page: page}, nil
}

func (s *stubProvider) DiscoverByGenres(ctx context.Context, genreIDs []int64, page int) (tmdb.Page, error) {
	return tmdb.Page{Page: page}, nil
}

func (s *stubProvider) Genres(ctx context.Context) ([]tmdb.Genre, error) {
	return []tmdb.Genre{{ID: 28, Name: "Action"}}, nil
}

type stubProfiles struct{}

func (stubProfiles) FavoriteGenres(context.Context, string) ([]int64, error) { return nil, nil }

func (stubProfiles) SetFavoriteGenres(context.Context, string, []int64) error { return nil }

// fakeFavorites mirrors the repository contract: Add is idempotent and
// Remove of an absent record succeeds.
type fakeFavorites struct {
	mu   sync.Mutex
	recs map[string]map[int64]model.Favorite
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{recs: make(map[string]map[int64]model.Favorite)}
}

func (f *fakeFavorites) Add(_ context.Context, userID string, m model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	byUser := f.recs[userID]
	if byUser == nil {
		byUser = make(map[int64]model.Favorite)
		f.recs[userID] = byUser
	}
	if _, ok := byUser[m.ID]; ok {
		return nil
	}
	byUser[m.ID] = model.Favorite{MovieID: m.ID, Title: m.Title, FavoritedAt: time.Now()}
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID string, movieID int64) error {
	f.mu.Lock()
	delete(f.recs[userID], movieID)
	f.mu.Unlock()
	return nil
}

func (f *fakeFavorites) List(_ context.Context, userID string) ([]model.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Favorite, 0, len(f.recs[userID]))
	for _, fav := range f.recs[userID] {
		out = append(out, fav)
	}
	return out, nil
}

func (f *fakeFavorites) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs[userID])
}

func newTestServer(anonLimit int64) (http.Handler, *fakeFavorites) {
	p := &stubProvider{
		trending: []tmdb.Movie{
			{ID: 1, Title: "a", Popularity: 9},
			{ID: 2, Title: "b", Popularity: 8},
		},
		movies: map[int64]tmdb.Movie{1: {ID: 1, Title: "a", Popularity: 9}},
	}
	store := cache.NewInMemory()
	cat := catalog.New(p, store, catalog.Config{
		PageSize:    5,
		TrendingTTL: time.Minute,
		DetailTTL:   time.Minute,
		SearchTTL:   time.Minute,
		GenresTTL:   time.Minute,
	})
	favs := newFakeFavorites()
	s := server.New(deps.ServerDeps{
		Catalog:     cat,
		Engine:      recommend.New(cat, stubProfiles{}),
		Limiter:     ratelimit.New(store, 1000, anonLimit),
		Favorites:   favs,
		Profiles:    stubProfiles{},
		Fingerprint: signer.NewHMAC([]byte("test-secret")),
		Name:        "nexus-gateway",
		StartedAt:   time.Now(),
	})
	return s.Router(), favs
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}
}

func TestTrendingRoute(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodGet, "/movies/trending", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-RateLimit-Remaining") == "" {
		t.Fatal("expected X-RateLimit-Remaining on admitted requests")
	}
	if w.Header().Get("X-Correlation-Id") == "" {
		t.Fatal("expected correlation id header")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodGet, "/movies/search?q=", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDetailNotFound(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodGet, "/movies/999", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestQuotaRejection(t *testing.T) {
	r, _ := newTestServer(2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/movies/trending", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/movies/trending", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after quota, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After on quota rejection")
	}
}

func TestFavoritesRequireAuthentication(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodPost, "/users/favorites/1", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAddFavoriteTwiceKeepsOneRecord(t *testing.T) {
	r, favs := newTestServer(500)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users/favorites/1", nil)
		req.Header.Set("X-User-Id", "u1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("add %d: expected 201, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}
	if n := favs.count("u1"); n != 1 {
		t.Fatalf("expected exactly one record after double add, got %d", n)
	}
}

func TestRemoveMissingFavoriteSucceeds(t *testing.T) {
	r, favs := newTestServer(500)
	req := httptest.NewRequest(http.MethodDelete, "/users/favorites/999", nil)
	req.Header.Set("X-User-Id", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for never-favorited movie, got %d", w.Code)
	}
	if n := favs.count("u1"); n != 0 {
		t.Fatalf("expected no records, got %d", n)
	}
}

func TestPreflightBypassesQuota(t *testing.T) {
	r, _ := newTestServer(1)
	req := httptest.NewRequest(http.MethodOptions, "/movies/trending", nil)
	req.Header.Set("Origin", "https://app.example")
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard allow-origin, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("expected allow-methods on preflight")
	}

	// the preflight must not have consumed the single-request quota
	req = httptest.NewRequest(http.MethodGet, "/movies/trending", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after preflight, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Fatal("expected a content security policy")
	}
}

func TestRecommendationsForUserFallBackToTrending(t *testing.T) {
	r, _ := newTestServer(500)
	req := httptest.NewRequest(http.MethodGet, "/users/recommendations", nil)
	req.Header.Set("X-User-Id", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
