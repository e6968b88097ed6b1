package routes

import (
	"net/http"
	"strconv"

	"nexus-gateway/pkg/fault"
	pkghttpx "nexus-gateway/pkg/httpx"
	pkgrequestctx "nexus-gateway/pkg/requestctx"
)

// pageParam parses the 1-indexed page query parameter, defaulting to 1.
func pageParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fault.InvalidArgument("page must be a positive integer", err)
	}
	return n, nil
}

// movieIDParam parses the {id} path segment.
func movieIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fault.InvalidArgument("movie id must be a positive integer", err)
	}
	return id, nil
}

// requireUser returns the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := pkgrequestctx.Identity(r.Context())
	if !ok || id.Anonymous() {
		pkghttpx.WriteStatus(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
		return "", false
	}
	return id.UserID, true
}
