package statestore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &Store{store: mock, ttl: time.Hour}

	in := &Snapshot{
		Pincode:     "560001",
		ProductSlug: "classic-tee",
		Listing:     []string{"classic-tee", "denim-jacket"},
		Custom:      map[string]string{"campaign": "summer"},
	}
	if err := store.SaveSnapshot(ctx, "sess-1", in); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	out, err := store.Snapshot(ctx, "sess-1")
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if out.Pincode != "560001" || out.ProductSlug != "classic-tee" {
		t.Fatalf("unexpected snapshot %+v", out)
	}
	if len(out.Listing) != 2 || out.Listing[1] != "denim-jacket" {
		t.Fatalf("unexpected listing %+v", out.Listing)
	}
	if out.Custom["campaign"] != "summer" {
		t.Fatalf("unexpected custom map %+v", out.Custom)
	}
}

func TestSnapshotMissingIsEmpty(t *testing.T) {
	store := &Store{store: newMockCmdable(), ttl: time.Hour}
	snap, err := store.Snapshot(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil || snap.Pincode != "" || len(snap.Listing) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestCartSummaryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := &Store{store: newMockCmdable(), ttl: time.Hour}

	if summary, err := store.CartSummary(ctx, "sess-2"); err != nil || summary != nil {
		t.Fatalf("expected no summary yet, got %+v err=%v", summary, err)
	}

	saved := CartSummary{ItemCount: 3, UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := store.SaveCartSummary(ctx, "sess-2", saved); err != nil {
		t.Fatalf("save summary: %v", err)
	}

	summary, err := store.CartSummary(ctx, "sess-2")
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if summary == nil || summary.ItemCount != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestKeyBuilders(t *testing.T) {
	store := &Store{}
	if got := store.SnapshotKey("abc"); got != "cp:session:abc:snapshot" {
		t.Fatalf("unexpected snapshot key %q", got)
	}
	if got := store.CartSummaryKey("abc"); got != "cp:session:abc:cart_summary" {
		t.Fatalf("unexpected summary key %q", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
