package cache

import (
	"context"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyClient implements Cache and Counters using Valkey.
type ValkeyClient struct {
	c valkey.Client
}

func NewValkey(addr, password string) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		opts.Username = "default"
		opts.Password = password
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &ValkeyClient{c: client}, nil
}

func (v *ValkeyClient) Get(ctx context.Context, key string) (string, bool) {
	res := v.c.Do(ctx, v.c.B().Get().Key(key).Build())
	if err := res.Error(); err != nil {
		return "", false
	}
	str, err := res.ToString()
	if err != nil {
		return "", false
	}
	return str, true
}

// expirySeconds converts a positive TTL for EX/EXPIRE. The server rejects a
// zero expiry, so sub-second TTLs round up to the 1s floor instead of down.
func expirySeconds(ttl time.Duration) int64 {
	secs := int64(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (v *ValkeyClient) Set(ctx context.Context, key string, val string, ttl time.Duration) error {
	if ttl > 0 {
		res := v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).ExSeconds(expirySeconds(ttl)).Build())
		return res.Error()
	}
	res := v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).Build())
	return res.Error()
}

func (v *ValkeyClient) Delete(ctx context.Context, key string) error {
	res := v.c.Do(ctx, v.c.B().Del().Key(key).Build())
	return res.Error()
}

// IncrWithTTL increments the counter and pins the window expiry when the
// increment created the key. INCR is atomic server-side, so concurrent
// requests at the limit boundary cannot both observe the pre-limit count.
func (v *ValkeyClient) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	res := v.c.Do(ctx, v.c.B().Incr().Key(key).Build())
	n, err := res.AsInt64()
	if err != nil {
		return 0, err
	}
	if n == 1 && ttl > 0 {
		exp := v.c.Do(ctx, v.c.B().Expire().Key(key).Seconds(expirySeconds(ttl)).Build())
		if err := exp.Error(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// DeletePrefix removes all keys matching prefix*. Used to invalidate a
// resource family at once, e.g. recommendation pages after a genre refresh.
func (v *ValkeyClient) DeletePrefix(ctx context.Context, prefix string) error {
	res := v.c.Do(ctx, v.c.B().Keys().Pattern(prefix+"*").Build())
	if err := res.Error(); err != nil {
		return err
	}
	keys, err := res.AsStrSlice()
	if err != nil {
		return err
	}
	var lastErr error
	for _, k := range keys {
		if err := v.Delete(ctx, k); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
