package facts

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetComputesOnce(t *testing.T) {
	c := New()
	var calls int

	for i := 0; i < 3; i++ {
		v, err := c.Get("machine-id", TTLNever, func() (any, error) {
			calls++
			return "abc-123", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "abc-123", v)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestGetExpiry(t *testing.T) {
	c := New()
	clock := time.Now()
	c.now = func() time.Time { return clock }

	var calls int
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	v, err := c.Get("disk", 15*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Inside the window the stored value is served.
	clock = clock.Add(10 * time.Second)
	v, err = c.Get("disk", 15*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Past the window the fact is recomputed.
	clock = clock.Add(10 * time.Second)
	v, err = c.Get("disk", 15*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetNeverExpires(t *testing.T) {
	c := New()
	clock := time.Now()
	c.now = func() time.Time { return clock }

	var calls int
	compute := func() (any, error) {
		calls++
		return "stable", nil
	}

	_, err := c.Get("cpu", TTLNever, compute)
	require.NoError(t, err)

	clock = clock.Add(1000 * time.Hour)
	_, err = c.Get("cpu", TTLNever, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestGetErrorNotCached(t *testing.T) {
	c := New()
	boom := errors.New("probe failed")
	var calls int

	_, err := c.Get("flaky", TTLNever, func() (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "ok", nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len(), "failed compute should store nothing")

	v, err := c.Get("flaky", TTLNever, func() (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestInvalidate(t *testing.T) {
	c := New()
	var calls int
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _ = c.Get("k", TTLNever, compute)
	c.Invalidate("k")
	v, err := c.Get("k", TTLNever, compute)

	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestConcurrentGetComputesOnce(t *testing.T) {
	c := New()
	var calls atomic.Int32
	const goroutines = 32

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			v, err := c.Get("shared", TTLNever, func() (any, error) {
				calls.Add(1)
				time.Sleep(5 * time.Millisecond)
				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestTypedGet(t *testing.T) {
	c := New()

	got, err := Get(c, "cores", TTLNever, func() (int, error) {
		return 8, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	// Two facts sharing one key with different types is caller error.
	_, err = Get(c, "cores", TTLNever, func() (string, error) {
		return "eight", nil
	})
	assert.Error(t, err)
}
