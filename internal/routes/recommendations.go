package routes

import (
	"net/http"

	pkgdeps "nexus-gateway/pkg/deps"
	pkghttpx "nexus-gateway/pkg/httpx"
)

// Recommendations registers GET /users/recommendations
func Recommendations(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		page, err := pageParam(r)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		rec, err := d.Engine.Recommend(r.Context(), userID, page)
		if err != nil {
			pkghttpx.WriteError(w, r, err)
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, rec)
	}
}
