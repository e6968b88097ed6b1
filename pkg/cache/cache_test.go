package cache

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryGetSetDelete(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := c.Get(ctx, "k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with v, got %q ok=%v", got, ok)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestInMemoryExpiry(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to read as absent")
	}
}

func TestInMemoryDeletePrefix(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	for _, k := range []string{"recommend:a:page:1", "recommend:a:page:2", "trending:page:1"} {
		if err := c.Set(ctx, k, "v", time.Minute); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := c.DeletePrefix(ctx, "recommend:"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	if _, ok := c.Get(ctx, "recommend:a:page:1"); ok {
		t.Fatal("expected prefixed key removed")
	}
	if _, ok := c.Get(ctx, "recommend:a:page:2"); ok {
		t.Fatal("expected prefixed key removed")
	}
	if _, ok := c.Get(ctx, "trending:page:1"); !ok {
		t.Fatal("expected unrelated key to survive")
	}
}

func TestExpirySecondsRoundsSubSecondUp(t *testing.T) {
	if got := expirySeconds(300 * time.Millisecond); got != 1 {
		t.Fatalf("expected sub-second TTL to round up to 1, got %d", got)
	}
	if got := expirySeconds(90 * time.Second); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
}

func TestInMemoryIncrWithTTL(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.IncrWithTTL(ctx, "q", time.Minute)
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if n != want {
			t.Fatalf("expected %d, got %d", want, n)
		}
	}
}

func TestInMemoryIncrWindowReset(t *testing.T) {
	c := NewInMemory()
	ctx := context.Background()

	if _, err := c.IncrWithTTL(ctx, "q", 10*time.Millisecond); err != nil {
		t.Fatalf("incr: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	n, err := c.IncrWithTTL(ctx, "q", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected counter to reset after window, got %d", n)
	}
}
