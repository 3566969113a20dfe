package infra

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("Get = %v/%v", v, ok)
	}

	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Error("invalidated key should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)
	c.Set("k", "v")

	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry should hit")
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()
	if _, ok := c.Get("a"); ok {
		t.Error("flushed cache should miss")
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("burst of 3 took %v, want immediate", elapsed)
	}
}

func TestRateLimiterCancellation(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	cctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	if err := rl.Wait(cctx); err == nil {
		t.Error("Wait should fail once the context is cancelled")
	}
}
