package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryCounts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, p := range []string{"quick-stats", "quick-stats", "nation-overview"} {
		if err := m.Incr(ctx, p); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}
	tot, err := m.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if tot.Total != 3 || tot.Today != 3 || tot.Pages["quick-stats"] != 2 || tot.Pages["nation-overview"] != 1 {
		t.Fatalf("totals = %+v", tot)
	}
	tot.Pages["quick-stats"] = 100
	again, _ := m.Totals(ctx)
	if again.Pages["quick-stats"] != 2 {
		t.Fatal("Totals must return a copy of the page map")
	}
}

func TestMemoryDayRollover(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	_ = m.Incr(ctx, "quick-stats")
	_ = m.Incr(ctx, "quick-stats")
	now = now.Add(2 * time.Minute)
	_ = m.Incr(ctx, "quick-stats")
	tot, _ := m.Totals(ctx)
	if tot.Total != 3 || tot.Today != 1 {
		t.Fatalf("totals after midnight = %+v", tot)
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Incr(ctx, "quick-stats")
		}()
	}
	wg.Wait()
	tot, _ := m.Totals(ctx)
	if tot.Total != 50 {
		t.Fatalf("total = %d, want 50", tot.Total)
	}
}

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := dayKey(time.Date(2024, 5, 2, 3, 0, 0, 0, loc))
	if got != "milpower:views:day:2024-05-01" {
		t.Fatalf("dayKey = %q", got)
	}
}

func newTestRedis(t *testing.T, now time.Time) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := NewRedis(rdb)
	r.now = func() time.Time { return now }
	return r, mr
}

func TestRedisCounts(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r, mr := newTestRedis(t, now)
	ctx := context.Background()
	for _, p := range []string{"quick-stats", "nation-overview"} {
		if err := r.Incr(ctx, p); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}
	tot, err := r.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if tot.Backend != "redis" || tot.Total != 2 || tot.Today != 2 {
		t.Fatalf("totals = %+v", tot)
	}
	if tot.Pages["quick-stats"] != 1 || tot.Pages["nation-overview"] != 1 {
		t.Fatalf("pages = %v", tot.Pages)
	}
	if ttl := mr.TTL(dayKey(now)); ttl != dayKeyTTL {
		t.Fatalf("day key ttl = %v, want %v", ttl, dayKeyTTL)
	}
	if mr.TTL(keyTotal) != 0 {
		t.Fatal("total key must not expire")
	}
}

func TestRedisEmptyStore(t *testing.T) {
	r, _ := newTestRedis(t, time.Now())
	tot, err := r.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals on an empty store: %v", err)
	}
	if tot.Total != 0 || tot.Today != 0 || len(tot.Pages) != 0 || tot.Pages == nil {
		t.Fatalf("totals = %+v", tot)
	}
}

func TestRedisTodayFollowsDate(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	r, _ := newTestRedis(t, now)
	ctx := context.Background()
	_ = r.Incr(ctx, "quick-stats")
	r.now = func() time.Time { return now.Add(2 * time.Minute) }
	_ = r.Incr(ctx, "quick-stats")
	tot, err := r.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if tot.Total != 2 || tot.Today != 1 {
		t.Fatalf("totals after midnight = %+v", tot)
	}
}

func TestRedisUnavailable(t *testing.T) {
	r, mr := newTestRedis(t, time.Now())
	mr.Close()
	if err := r.Incr(context.Background(), "quick-stats"); err == nil {
		t.Fatal("expected an error once redis is gone")
	}
	if _, err := r.Totals(context.Background()); err == nil {
		t.Fatal("expected an error once redis is gone")
	}
}

var (
	_ Counter = (*Memory)(nil)
	_ Counter = (*Redis)(nil)
)
