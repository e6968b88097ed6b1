package ratelimit

import (
	"context"
	"fmt"
	"time"

	"nexus-gateway/internal/model"
	"nexus-gateway/pkg/cache"
	"nexus-gateway/pkg/fault"
)

// Limiter tracks request counts per identity over a calendar UTC day and
// admits or rejects requests. Counters live in the shared counter store;
// the window TTL is pinned on the first increment, so no reset job exists.
type Limiter struct {
	counters  cache.Counters
	userLimit int64
	anonLimit int64

	// now is swappable for tests.
	now func() time.Time
}

func New(counters cache.Counters, userLimit, anonLimit int64) *Limiter {
	return &Limiter{counters: counters, userLimit: userLimit, anonLimit: anonLimit, now: time.Now}
}

// Admit consumes one unit of the identity's daily quota. It returns the
// remaining allowance, or a quota_exceeded fault carrying the time until the
// window resets. A counter-store failure rejects (fail closed): quota
// availability is security-relevant, unlike the read cache.
func (l *Limiter) Admit(ctx context.Context, id model.Identity) (remaining int64, err error) {
	now := l.now().UTC()
	day := now.Format("2006-01-02")
	untilReset := nextMidnight(now).Sub(now)

	key := fmt.Sprintf("quota:%s:%s", id.Key(), day)
	n, err := l.counters.IncrWithTTL(ctx, key, untilReset)
	if err != nil {
		return 0, fault.CacheUnavailable("quota store unreachable", err)
	}
	limit := l.userLimit
	if id.Anonymous() {
		limit = l.anonLimit
	}
	if n > limit {
		return 0, fault.QuotaExceeded("daily request quota exceeded", untilReset)
	}
	return limit - n, nil
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
