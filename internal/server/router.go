package server

import (
	"net/http"

	"nexus-gateway/internal/routes"
	"nexus-gateway/pkg/deps"
)

type Server struct {
	deps.ServerDeps
}

func New(d deps.ServerDeps) *Server {
	return &Server{ServerDeps: d}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	sd := s.ServerDeps

	// Endpoints declared here for easy scanning
	mux.HandleFunc("GET /health", routes.Health(sd))
	mux.HandleFunc("GET /movies/trending", routes.Trending(sd))
	mux.HandleFunc("GET /movies/search", routes.SearchMovies(sd))
	mux.HandleFunc("GET /movies/{id}", routes.MovieDetail(sd))
	mux.HandleFunc("GET /genres", routes.Genres(sd))
	mux.HandleFunc("GET /users/recommendations", routes.Recommendations(sd))
	mux.HandleFunc("POST /users/favorites/{id}", routes.AddFavorite(sd))
	mux.HandleFunc("DELETE /users/favorites/{id}", routes.RemoveFavorite(sd))
	mux.HandleFunc("GET /users/favorites", routes.ListFavorites(sd))
	mux.HandleFunc("PUT /users/genres", routes.SetFavoriteGenres(sd))

	// Quota admission runs after identity resolution and before dispatch.
	// CORS sits outside identity so preflights never consume quota.
	var h http.Handler = mux
	h = withRateLimit(sd.Limiter)(h)
	h = withIdentity(sd.Fingerprint)(h)
	h = withCORS(sd.CORSAllowedOrigins)(h)
	h = withSecurityHeaders(h)
	return withCorrelationID(withLogging(h))
}
