package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/teamoff/offdays/internal/cache"
	"github.com/teamoff/offdays/internal/domain"
	"github.com/teamoff/offdays/internal/logger"
	redisstore "github.com/teamoff/offdays/internal/store/redis"
)

func sweeperFixture(t *testing.T) (*WindowSweeper, *cache.WindowCache, *redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.NewStore(client)
	c := cache.NewWindowCache()
	ws := NewWindowSweeper(store, c, logger.New("error", false), time.Minute)
	return ws, c, store, mr
}

func records() []*domain.Record {
	return []*domain.Record{
		{
			ID:        1,
			Name:      "Jane",
			GithubID:  "janedoe",
			Type:      "annual",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
			State:     domain.StateOpen,
		},
	}
}

func TestSweepDropsExpiredWindows(t *testing.T) {
	ws, c, store, mr := sweeperFixture(t)
	ctx := context.Background()

	live := domain.MonthWindow("2026-03")
	expiring := domain.MonthWindow("2026-04")

	c.Put(live, records())
	c.Put(expiring, records())
	if err := store.SaveWindow(ctx, live, records(), time.Hour); err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}
	if err := store.SaveWindow(ctx, expiring, records(), time.Minute); err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	ws.Sweep(ctx)

	if _, ok := c.Get(live); !ok {
		t.Error("sweep dropped a window whose snapshot is still live")
	}
	if _, ok := c.Get(expiring); ok {
		t.Error("sweep kept a window whose snapshot expired")
	}
}

func TestSweepDropsWindowsNeverSnapshotted(t *testing.T) {
	ws, c, _, _ := sweeperFixture(t)
	ctx := context.Background()

	key := domain.MonthWindow("2026-03")
	c.Put(key, records())

	ws.Sweep(ctx)

	if _, ok := c.Get(key); ok {
		t.Error("sweep kept a window with no backing snapshot")
	}
}

func TestSweepKeepsWindowsWhenRedisUnreachable(t *testing.T) {
	ws, c, store, mr := sweeperFixture(t)
	ctx := context.Background()

	key := domain.MonthWindow("2026-03")
	c.Put(key, records())
	if err := store.SaveWindow(ctx, key, records(), time.Hour); err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}

	mr.Close()
	ws.Sweep(ctx)

	if _, ok := c.Get(key); !ok {
		t.Error("sweep dropped a window while redis was unreachable")
	}
}
