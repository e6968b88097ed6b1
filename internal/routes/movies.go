package routes

import (
	"net/http"

	pkgdeps "nexus-gateway/pkg/deps"
	pkghttpx "nexus-gateway/pkg/httpx"
)

// Trending registers GET /movies/trending
func Trending(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		res, err := d.Catalog.Trending(r.Context(), page)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, res)
	}
}

// MovieDetail registers GET /movies/{id}
func MovieDetail(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieIDParam(r, "id")
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		movie, err := d.Catalog.Detail(r.Context(), id)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, movie)
	}
}

// SearchMovies registers GET /movies/search
func SearchMovies(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		res, err := d.Catalog.Search(r.Context(), r.URL.Query().Get("q"), page)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, res)
	}
}
