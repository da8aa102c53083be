package manifest

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SingleComputationUnderConcurrency(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)

	var executions atomic.Int32
	release := make(chan struct{})
	compute := func() (*Manifest, error) {
		executions.Add(1)
		<-release
		return sampleManifest(), nil
	}

	const callers = 32
	results := make([]*Manifest, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			m, err := cache.GetOrCompute("k", compute)
			assert.NoError(t, err)
			results[i] = m
		}(i)
	}

	// Let every caller reach the cache before the slow computation finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), executions.Load())
	for _, m := range results {
		assert.Same(t, results[0], m)
	}
	assert.Equal(t, int64(1), cache.Stats().Computations)

	// Later callers hit the stored manifest.
	m, err := cache.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Same(t, results[0], m)
	assert.Equal(t, int32(1), executions.Load())
	assert.GreaterOrEqual(t, cache.Stats().Hits, int64(1))
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = cache.GetOrCompute("k", func() (*Manifest, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	m, err := cache.GetOrCompute("k", func() (*Manifest, error) { return sampleManifest(), nil })
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, int64(2), cache.Stats().Computations)
}

func TestCache_LRUEviction(t *testing.T) {
	cache, err := NewCache(2)
	require.NoError(t, err)

	var computed []string
	get := func(key string) {
		_, err := cache.GetOrCompute(key, func() (*Manifest, error) {
			computed = append(computed, key)
			return sampleManifest(), nil
		})
		require.NoError(t, err)
	}

	get("a")
	get("b")
	get("a") // a becomes most recently used
	get("c") // evicts b
	get("a")
	get("b")

	assert.Equal(t, []string{"a", "b", "c", "b"}, computed)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_Purge(t *testing.T) {
	for _, capacity := range []int{0, 8} {
		cache, err := NewCache(capacity)
		require.NoError(t, err)

		_, err = cache.GetOrCompute("k", func() (*Manifest, error) { return sampleManifest(), nil })
		require.NoError(t, err)
		assert.Equal(t, 1, cache.Len())

		cache.Purge()
		assert.Equal(t, 0, cache.Len())
	}
}
