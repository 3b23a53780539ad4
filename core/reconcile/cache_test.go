package reconcile

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cached[T any](c *ViewCache[T]) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func TestViewCache_GetOrBuild(t *testing.T) {
	c := NewViewCache[[]int](time.Minute)
	var builds int32

	build := func() ([]int, error) {
		atomic.AddInt32(&builds, 1)
		time.Sleep(10 * time.Millisecond)
		return []int{1, 2}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrBuild("store:1", build)
			assert.NoError(t, err)
			assert.Equal(t, []int{1, 2}, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	assert.Equal(t, 1, cached(c))
}

func TestViewCache_ErrorsAreNotCached(t *testing.T) {
	c := NewViewCache[string](time.Minute)

	_, err := c.GetOrBuild("k", func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 0, cached(c))

	v, err := c.GetOrBuild("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestViewCache_Invalidate(t *testing.T) {
	c := NewViewCache[int](time.Minute)
	for _, k := range []string{"store:1:a", "store:1:b", "store:2:a"} {
		_, _ = c.GetOrBuild(k, func() (int, error) { return 1, nil })
	}

	c.Invalidate("store:1:")
	assert.Equal(t, 1, cached(c))

	c.Invalidate("")
	assert.Equal(t, 0, cached(c))
}

func TestViewCache_InvalidateDuringBuild(t *testing.T) {
	c := NewViewCache[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, err := c.GetOrBuild("store:1", func() (string, error) {
			close(started)
			<-release
			return "before sync", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	c.Invalidate("store:")

	// A miss after the invalidation builds afresh instead of joining the stale build.
	v, err := c.GetOrBuild("store:1", func() (string, error) { return "after sync", nil })
	require.NoError(t, err)
	assert.Equal(t, "after sync", v)

	close(release)
	assert.Equal(t, "before sync", <-done)

	v, err = c.GetOrBuild("store:1", func() (string, error) { return "rebuilt", nil })
	require.NoError(t, err)
	assert.Equal(t, "after sync", v)
	assert.Equal(t, 1, cached(c))
}

func TestViewCache_ZeroTTLDisables(t *testing.T) {
	c := NewViewCache[int](0)
	calls := 0
	for i := 0; i < 3; i++ {
		_, _ = c.GetOrBuild("k", func() (int, error) { calls++; return calls, nil })
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, cached(c))
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want Scope
		ok   bool
	}{
		{"", ScopeAll, true},
		{"all", ScopeAll, true},
		{"items", ScopeItems, true},
		{"artists", ScopeArtists, true},
		{"orders", ScopeOrders, true},
		{"stores", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseScope(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNewRun(t *testing.T) {
	var events []Event
	run := NewRun(func(e Event) { events = append(events, e) })

	assert.NotEmpty(t, run.ID)
	assert.Zero(t, run.Watermark.Nanosecond())
	run.Notify(Event{Scope: ScopeItems, Page: 1, TotalPages: 2})
	assert.Len(t, events, 1)

	var nilRun *Run
	assert.NotPanics(t, func() { nilRun.Notify(Event{}) })
}
