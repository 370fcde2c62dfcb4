package ttlcache

import (
	"context"
	"testing"
	"time"
)

func TestSaveFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New[string](Config{})
	t.Cleanup(func() { _ = c.Close(ctx) })

	if err := c.Save(ctx, "k", "v", 0); err != nil {
		t.Fatal(err)
	}
	v, ok, err := c.Fetch(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Fetch=%q,%v,%v want v,true,nil", v, ok, err)
	}
	if ok, _ := c.Contains(ctx, "k"); !ok {
		t.Fatal("expected Contains=true")
	}
	if _, ok, _ := c.Fetch(ctx, "other"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestEntryExpires(t *testing.T) {
	ctx := context.Background()
	c := New[int](Config{})
	t.Cleanup(func() { _ = c.Close(ctx) })

	if err := c.Save(ctx, "k", 1, 20*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, ok, _ := c.Fetch(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if ok, _ := c.Contains(ctx, "k"); ok {
		t.Fatal("expected Contains=false after expiry")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := New[int](Config{})
	t.Cleanup(func() { _ = c.Close(ctx) })

	if err := c.Save(ctx, "k", 1, 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := c.Fetch(ctx, "k"); !ok {
		t.Fatal("expected ttl=0 entry to survive")
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	ctx := context.Background()
	c := New[int](Config{})
	t.Cleanup(func() { _ = c.Close(ctx) })

	for _, k := range []string{"a", "b"} {
		if err := c.Save(ctx, k, 1, 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Contains(ctx, "a"); ok {
		t.Fatal("expected a to be gone")
	}

	if err := c.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len=%d want 0 after ClearAll", c.Len())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := New[int](Config{})
	if err := c.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(ctx); err != nil {
		t.Fatal(err)
	}
}
