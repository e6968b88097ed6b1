package routes

import (
	"net/http"

	pkgdeps "nexus-gateway/pkg/deps"
	pkghttpx "nexus-gateway/pkg/httpx"
)

// Genres registers GET /genres
func Genres(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genres, err := d.Catalog.Genres(r.Context())
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"genres": genres,
			"count":  len(genres),
		})
	}
}
