// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	applied []string
}

func (r *recorder) apply(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, v)
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.applied...)
}

func TestStartFetchesImmediately(t *testing.T) {
	rec := &recorder{}
	p := New("test", time.Hour, func(ctx context.Context) (string, error) {
		return "first", nil
	}, rec.apply)

	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool { return len(rec.values()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"first"}, rec.values())
	assert.True(t, p.Enabled())
	assert.Equal(t, uint64(1), p.LastApplied())
}

func TestRepeatsOnInterval(t *testing.T) {
	var calls atomic.Int32
	rec := &recorder{}
	p := New("test", 10*time.Millisecond, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "tick", nil
	}, rec.apply)

	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestStopHaltsFetches(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 5*time.Millisecond, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "tick", nil
	}, func(string) {})

	p.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, time.Millisecond)

	p.Stop()
	assert.False(t, p.Enabled())

	// let anything already dispatched drain
	time.Sleep(20 * time.Millisecond)
	after := calls.Load()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no fetch may start after Stop")
}

func TestStopTwiceIsSafe(t *testing.T) {
	p := New("test", time.Hour, func(ctx context.Context) (string, error) { return "", nil }, func(string) {})
	p.Stop()
	p.Start()
	p.Stop()
	p.Stop()
	assert.False(t, p.Enabled())
}

func TestStaleResultDiscarded(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	release := make(chan struct{})
	var calls atomic.Int32
	rec := &recorder{}

	p := New("wg", 10*time.Millisecond, func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			<-release
			return "old", nil
		}
		return "new", nil
	}, rec.apply, WithMetrics(metrics))

	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool { return len(rec.values()) > 0 }, 2*time.Second, 5*time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.Discarded.WithLabelValues("wg")) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.NotContains(t, rec.values(), "old")
}

func TestLateResultAfterStopDropped(t *testing.T) {
	release := make(chan struct{})
	returned := make(chan struct{})
	rec := &recorder{}

	p := New("test", time.Hour, func(ctx context.Context) (string, error) {
		<-release
		defer close(returned)
		return "late", nil
	}, rec.apply)

	p.Start()
	// give the loop a moment to issue the first fetch
	time.Sleep(10 * time.Millisecond)
	p.Stop()
	close(release)

	<-returned
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, rec.values())
	assert.Equal(t, uint64(0), p.LastApplied())
}

func TestPollAppliesWhileStopped(t *testing.T) {
	rec := &recorder{}
	p := New("test", time.Hour, func(ctx context.Context) (string, error) {
		return "manual", nil
	}, rec.apply)

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []string{"manual"}, rec.values())
	assert.Equal(t, uint64(1), p.LastApplied())
	assert.False(t, p.Enabled())
}

func TestPollReturnsFetchError(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	rec := &recorder{}
	p := New("sys", time.Hour, func(ctx context.Context) (string, error) {
		return "", errors.New("backend down")
	}, rec.apply, WithMetrics(metrics))

	assert.EqualError(t, p.Poll(context.Background()), "backend down")
	assert.Empty(t, rec.values())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Failures.WithLabelValues("sys")))
}

func TestSlowTimerFetchDoesNotOverwritePoll(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	release := make(chan struct{})
	returned := make(chan struct{})
	var calls atomic.Int32
	rec := &recorder{}

	p := New("wg", time.Hour, func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			<-release
			defer close(returned)
			return "old", nil
		}
		return "new", nil
	}, rec.apply, WithMetrics(metrics))

	p.Start()
	defer p.Stop()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Poll(context.Background()))
	close(release)
	<-returned

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.Discarded.WithLabelValues("wg")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"new"}, rec.values())
	assert.Equal(t, uint64(2), p.LastApplied())
}

func TestRestartReplacesTimer(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 30*time.Millisecond, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "tick", nil
	}, func(string) {})

	p.Start()
	p.Start()
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	// one live loop issues about four fetches in that window, two loops about eight
	assert.LessOrEqual(t, calls.Load(), int32(6))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestFailureKeepsLastApplied(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	var calls atomic.Int32
	rec := &recorder{}
	p := New("sys", 10*time.Millisecond, func(ctx context.Context) (string, error) {
		n := calls.Add(1)
		if n == 1 {
			return "ok", nil
		}
		return "", errors.New("backend down")
	}, rec.apply, WithMetrics(metrics))

	p.Start()
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.Failures.WithLabelValues("sys")) >= 2
	}, 2*time.Second, 5*time.Millisecond)
	p.Stop()

	assert.Equal(t, []string{"ok"}, rec.values())
	assert.Equal(t, uint64(1), p.LastApplied())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Applied.WithLabelValues("sys")))
}

func TestTimeoutBoundsFetch(t *testing.T) {
	done := make(chan error, 1)
	p := New("test", time.Hour, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		done <- ctx.Err()
		return "", ctx.Err()
	}, func(string) {}, WithTimeout(10*time.Millisecond))

	p.Start()
	defer p.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("fetch was not cancelled by its timeout")
	}
}
