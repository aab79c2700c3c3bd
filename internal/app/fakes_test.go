package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"landlord_rep/internal/domain"
	"landlord_rep/internal/storage/memory"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

var fixedClock = domain.ClockFunc(func() time.Time { return now })

// countingRepo counts read calls so tests can tell cache hits from misses.
type countingRepo struct {
	*memory.Repo
	mu    sync.Mutex
	calls map[string]int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{Repo: memory.New(), calls: map[string]int{}}
}

func (c *countingRepo) hit(name string) {
	c.mu.Lock()
	c.calls[name]++
	c.mu.Unlock()
}

func (c *countingRepo) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *countingRepo) GetLandlord(ctx context.Context, id string) (domain.Landlord, error) {
	c.hit("GetLandlord")
	return c.Repo.GetLandlord(ctx, id)
}

func (c *countingRepo) ListLandlords(ctx context.Context, q domain.LandlordsQuery) ([]domain.Landlord, error) {
	c.hit("ListLandlords")
	return c.Repo.ListLandlords(ctx, q)
}

func (c *countingRepo) ListReviewsForLandlord(ctx context.Context, id string) ([]domain.Review, error) {
	c.hit("ListReviewsForLandlord")
	return c.Repo.ListReviewsForLandlord(ctx, id)
}

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	ttl  map[string]int
	hits int
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string][]byte{}, ttl: map[string]int{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.m[key] = b
	c.ttl[key] = ttlSec
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) ttlOf(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl[key]
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	return ok
}

func ptr[T any](v T) *T { return &v }

// seed adds a landlord with the given star values, one review per day
// going back from now.
func seed(repo domain.DirectoryRepository, l domain.Landlord, stars ...int) {
	ctx := context.Background()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now.AddDate(-2, 0, 0)
	}
	if err := repo.AppendLandlord(ctx, l); err != nil {
		panic(err)
	}
	for i, s := range stars {
		r := domain.Review{
			ID:         fmt.Sprintf("%s-r%02d", l.ID, i),
			LandlordID: l.ID,
			Stars:      s,
			Body:       "ok",
			CreatedAt:  now.AddDate(0, 0, -i),
		}
		if err := repo.AppendReview(ctx, r); err != nil {
			panic(err)
		}
	}
}
