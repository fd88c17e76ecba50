// Package stats counts dashboard page views, in Redis when configured and in memory otherwise.
// Counters only ever grow; nothing rendered is stored.
package stats

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyTotal   = "milpower:views:total"
	keyDayPfx  = "milpower:views:day:"
	keyPages   = "milpower:views:pages"
	dayKeyTTL  = 48 * time.Hour
	dateLayout = "2006-01-02"
)

// Totals: snapshot of the counters.
type Totals struct {
	Backend string           `json:"backend"`
	Total   int64            `json:"total"`
	Today   int64            `json:"today"`
	Pages   map[string]int64 `json:"pages"`
}

// Counter records one view of a page and reports the running totals.
type Counter interface {
	Incr(ctx context.Context, page string) error
	Totals(ctx context.Context) (Totals, error)
}

func dayKey(t time.Time) string { return keyDayPfx + t.UTC().Format(dateLayout) }

// Redis keeps the counters in three keys so every replica shares them.
// Background: one MULTI per view keeps total, today and the page hash in step.
// Constraint: the day key expires after 48h; missing keys read as zero.
type Redis struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, now: time.Now}
}

func (r *Redis) Incr(ctx context.Context, page string) error {
	day := dayKey(r.now())
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, keyTotal)
		p.Incr(ctx, day)
		p.Expire(ctx, day, dayKeyTTL)
		p.HIncrBy(ctx, keyPages, page, 1)
		return nil
	})
	return err
}

func (r *Redis) Totals(ctx context.Context) (Totals, error) {
	t := Totals{Backend: "redis", Pages: map[string]int64{}}
	var err error
	if t.Total, err = getInt(ctx, r.rdb, keyTotal); err != nil {
		return Totals{}, err
	}
	if t.Today, err = getInt(ctx, r.rdb, dayKey(r.now())); err != nil {
		return Totals{}, err
	}
	raw, err := r.rdb.HGetAll(ctx, keyPages).Result()
	if err != nil {
		return Totals{}, err
	}
	for page, v := range raw {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		t.Pages[page] = n
	}
	return t, nil
}

func getInt(ctx context.Context, rdb *redis.Client, key string) (int64, error) {
	n, err := rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Memory is the single-process fallback. Today resets when the UTC date changes.
type Memory struct {
	mu    sync.Mutex
	now   func() time.Time
	total int64
	day   string
	today int64
	pages map[string]int64
}

func NewMemory() *Memory {
	return &Memory{now: time.Now, pages: map[string]int64{}}
}

func (m *Memory) Incr(_ context.Context, page string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDay()
	m.total++
	m.today++
	m.pages[page]++
	return nil
}

func (m *Memory) Totals(_ context.Context) (Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDay()
	pages := make(map[string]int64, len(m.pages))
	for k, v := range m.pages {
		pages[k] = v
	}
	return Totals{Backend: "memory", Total: m.total, Today: m.today, Pages: pages}, nil
}

func (m *Memory) rollDay() {
	d := m.now().UTC().Format(dateLayout)
	if d != m.day {
		m.day = d
		m.today = 0
	}
}
