package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nightmarlin/birthdays/cache"
)

func TestLRU_Lookup(t *testing.T) {
	t.Parallel()

	t.Run(
		"lookup of same key is cached",
		func(t *testing.T) {
			t.Parallel()

			var (
				k, v = "key", 5

				ctx = t.Context()
				c   = cache.New[string, int](1)
			)

			res, err := c.Lookup(
				ctx,
				k,
				func(_ context.Context, got string) (int, error) {
					if got != k {
						t.Errorf("lookup func: got key %q, want %q", got, k)
					}
					return v, nil
				},
			)
			if err != nil {
				t.Errorf("lookup: got error %v, want nil", err)
			} else if res != v {
				t.Errorf("lookup: got value %v, want %v", res, v)
			}

			res, err = c.Lookup(
				ctx,
				k,
				func(context.Context, string) (int, error) {
					t.Errorf("lookup func called, but the value should have been cached")
					return v, nil
				},
			)
			if err != nil {
				t.Errorf("lookup: got error %v, want nil", err)
			} else if res != v {
				t.Errorf("lookup: got value %v, want %v", res, v)
			}
		},
	)

	t.Run(
		"returns error if lookup func returns error and caches nothing",
		func(t *testing.T) {
			t.Parallel()

			var (
				k, expectErr = "key", fmt.Errorf("broken")

				ctx = t.Context()
				c   = cache.New[string, int](1)
			)

			res, err := c.Lookup(
				ctx,
				k,
				func(context.Context, string) (int, error) { return 0, expectErr },
			)
			if !errors.Is(err, expectErr) {
				t.Errorf("lookup: got error %v, want %v", err, expectErr)
			}
			if res != 0 {
				t.Errorf("lookup: got value %v, want 0", res)
			}
			if c.Len() != 0 {
				t.Errorf("len: got %d, want 0", c.Len())
			}
		},
	)

	t.Run(
		"evicts least-recently-used entry",
		func(t *testing.T) {
			t.Parallel()

			var (
				kv   = map[int]string{1: "k1", 2: "k2", 3: "k3"}
				load = func(_ context.Context, key int) (string, error) { return kv[key], nil }

				ctx = t.Context()
				c   = cache.New[int, string](2)
			)

			_, _ = c.Lookup(ctx, 1, load) // lru: k1
			_, _ = c.Lookup(ctx, 2, load) // lru: k1
			_, _ = c.Lookup(ctx, 1, load) // lru: k2
			_, _ = c.Lookup(ctx, 3, load) // evicts k2

			if c.Len() != 2 {
				t.Errorf("len: got %d, want 2", c.Len())
			}

			var loaded []int
			track := func(_ context.Context, key int) (string, error) {
				loaded = append(loaded, key)
				return kv[key], nil
			}
			_, _ = c.Lookup(ctx, 1, track)
			_, _ = c.Lookup(ctx, 3, track)
			if len(loaded) != 0 {
				t.Errorf("lookup func called for %v, want k1 and k3 cached", loaded)
			}

			_, _ = c.Lookup(ctx, 2, track)
			if len(loaded) != 1 || loaded[0] != 2 {
				t.Errorf("lookup func should have been called for key 2, as it should have been evicted")
			}
		},
	)
}

func TestLRU_Invalidate(t *testing.T) {
	t.Parallel()

	var (
		ctx   = t.Context()
		c     = cache.New[string, int](4)
		calls int
		load  = func(context.Context, string) (int, error) {
			calls++
			return calls, nil
		}
	)

	_, _ = c.Lookup(ctx, "a", load)
	_, _ = c.Lookup(ctx, "b", load)
	c.Invalidate("a")
	c.Invalidate("missing")

	if c.Len() != 1 {
		t.Errorf("len: got %d, want 1", c.Len())
	}

	v, err := c.Lookup(ctx, "a", load)
	if err != nil {
		t.Fatalf("lookup: got error %v, want nil", err)
	}
	if v != 3 {
		t.Errorf("lookup after invalidate: got %d, want freshly loaded 3", v)
	}
}

func TestLRU_invalidateDuringLoad(t *testing.T) {
	t.Parallel()

	var (
		ctx     = t.Context()
		c       = cache.New[string, string](4)
		started = make(chan struct{})
		release = make(chan struct{})
		done    = make(chan string)
	)

	go func() {
		v, _ := c.Lookup(ctx, "lewis", func(context.Context, string) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate("lewis")
	close(release)

	if v := <-done; v != "old" {
		t.Errorf("in-flight lookup: got %q, want %q", v, "old")
	}
	if c.Len() != 0 {
		t.Errorf("len: got %d, want 0 as the load straddled an invalidation", c.Len())
	}

	v, err := c.Lookup(ctx, "lewis", func(context.Context, string) (string, error) { return "new", nil })
	if err != nil {
		t.Fatalf("lookup: got error %v, want nil", err)
	}
	if v != "new" {
		t.Errorf("lookup after invalidate: got %q, want reloaded %q", v, "new")
	}
}

func TestLRU_concurrentUse(t *testing.T) {
	t.Parallel()

	var (
		ctx  = t.Context()
		c    = cache.New[int, int](8)
		load = func(_ context.Context, k int) (int, error) { return k * 2, nil }
		wg   sync.WaitGroup
	)

	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				k := (g + i) % 16
				v, err := c.Lookup(ctx, k, load)
				if err != nil || v != k*2 {
					t.Errorf("lookup %d: got (%d, %v), want (%d, nil)", k, v, err, k*2)
				}
				if i%10 == 0 {
					c.Invalidate(k)
				}
			}
		}()
	}
	wg.Wait()

	if n := c.Len(); n > 8 {
		t.Errorf("len: got %d, want at most 8", n)
	}
}
