package httpx

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"nexus-gateway/pkg/fault"
	pkgrequestctx "nexus-gateway/pkg/requestctx"
)

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps fault kinds to HTTP status codes. Unknown errors are 500.
func statusFor(k fault.Kind) int {
	switch k {
	case fault.KindInvalidArgument:
		return http.StatusBadRequest
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindUpstreamUnavailable:
		return http.StatusBadGateway
	case fault.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case fault.KindCacheUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WriteError standardizes error responses and logs with correlation id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	cid := pkgrequestctx.CorrelationID(r.Context())
	if cid != "" {
		w.Header().Set("X-Correlation-Id", cid)
	}
	kind := fault.KindOf(err)
	code := string(kind)
	msg := "internal error"
	var fe *fault.Error
	if errors.As(err, &fe) {
		msg = fe.Message
		if fe.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(fe.RetryAfter.Seconds()))))
		}
	}
	if code == "" {
		code = "internal"
	}
	log.Error().Str("correlation_id", cid).Str("code", code).Err(err).Msg(msg)
	WriteJSON(w, statusFor(kind), map[string]any{
		"error": map[string]any{
			"code":           code,
			"message":        msg,
			"correlation_id": cid,
		},
	})
}

// WriteStatus writes an error payload for conditions outside the fault
// taxonomy (e.g. missing authentication).
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	cid := pkgrequestctx.CorrelationID(r.Context())
	if cid != "" {
		w.Header().Set("X-Correlation-Id", cid)
	}
	WriteJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":           code,
			"message":        msg,
			"correlation_id": cid,
		},
	})
}
