package routes

import (
	"encoding/json"
	"net/http"

	"nexus-gateway/pkg/fault"

	pkgdeps "nexus-gateway/pkg/deps"
	pkghttpx "nexus-gateway/pkg/httpx"
)

// AddFavorite registers POST /users/favorites/{id}. The movie snapshot is
// fetched through the catalogue first, so favoriting an unknown id is a 404
// and the stored record carries current metadata.
func AddFavorite(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		movieID, err := movieIDParam(r, "id")
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		movie, err := d.Catalog.Detail(r.Context(), movieID)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		if err := d.Favorites.Add(r.Context(), userID, movie); err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusCreated, map[string]any{
			"message": "movie added to favorites",
			"data":    movie,
		})
	}
}

// RemoveFavorite registers DELETE /users/favorites/{id}. Removing a movie
// that was never favorited is a no-op success.
func RemoveFavorite(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		movieID, err := movieIDParam(r, "id")
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		if err := d.Favorites.Remove(r.Context(), userID, movieID); err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListFavorites registers GET /users/favorites
func ListFavorites(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		favorites, err := d.Favorites.List(r.Context(), userID)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		resp := map[string]any{
			"favorites": favorites,
			"count":     len(favorites),
		}
		if len(favorites) == 0 {
			resp["message"] = "browse and add movies to your favorites; your catalogue is currently empty"
		}
		pkghttpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// SetFavoriteGenres registers PUT /users/genres
func SetFavoriteGenres(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var body struct {
			GenreIDs []int64 `json:"genre_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			pkghttpx.WriteError(w, r, fault.InvalidArgument("invalid request body", err))
			return
		}
		if err := d.Profiles.SetFavoriteGenres(r.Context(), userID, body.GenreIDs); err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"message":   "favorite genres updated",
			"genre_ids": body.GenreIDs,
		})
	}
}
