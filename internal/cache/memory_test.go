package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestMemory() *Memory {
	return NewMemory(MemoryOptions{DefaultTTL: time.Minute})
}

func TestMemory_SetGet(t *testing.T) {
	c := newTestMemory()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}
}

func TestMemory_Miss(t *testing.T) {
	c := newTestMemory()
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get error = %v, want ErrCacheMiss", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := newTestMemory()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry = %v, want ErrCacheMiss", err)
	}
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	c := newTestMemory()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "news:list", []byte("a"), 0)
	_ = c.Set(ctx, "news:item:1", []byte("b"), 0)
	_ = c.Set(ctx, "faq:list", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "news:"); err != nil {
		t.Fatalf("DeleteByPrefix error: %v", err)
	}

	if _, err := c.Get(ctx, "news:list"); !errors.Is(err, ErrCacheMiss) {
		t.Error("news:list still cached after prefix delete")
	}
	if _, err := c.Get(ctx, "faq:list"); err != nil {
		t.Errorf("faq:list evicted by unrelated prefix delete: %v", err)
	}
}

func TestMemory_MaxSizeEviction(t *testing.T) {
	c := NewMemory(MemoryOptions{DefaultTTL: time.Minute, MaxSize: 2})
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if got := c.Stats().Items; got > 2 {
		t.Errorf("Items = %d, want at most 2", got)
	}
}

func TestMemory_Closed(t *testing.T) {
	c := newTestMemory()
	_ = c.Close()

	if _, err := c.Get(context.Background(), "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(context.Background(), "key", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
}

func TestManager_JSONRoundTrip(t *testing.T) {
	m := NewManagerWithBackend(newTestMemory(), time.Minute, nil)
	defer m.Close()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := m.SetJSON(ctx, "news:list", payload{Name: "latest", Count: 3}); err != nil {
		t.Fatalf("SetJSON error: %v", err)
	}

	var got payload
	if err := m.GetJSON(ctx, "news:list", &got); err != nil {
		t.Fatalf("GetJSON error: %v", err)
	}
	if got.Name != "latest" || got.Count != 3 {
		t.Errorf("GetJSON = %+v, want {latest 3}", got)
	}
}

func TestManager_CorruptEntryIsMiss(t *testing.T) {
	backend := newTestMemory()
	m := NewManagerWithBackend(backend, time.Minute, nil)
	defer m.Close()
	ctx := context.Background()

	_ = backend.Set(ctx, "bad", []byte("{not json"), 0)

	var dest map[string]any
	if err := m.GetJSON(ctx, "bad", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON on corrupt entry = %v, want ErrCacheMiss", err)
	}
}
