package limiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/limiter"
	"github.com/stretchr/testify/require"
)

func TestRecordTooManyRequests_UsesRetryAfterWhenPresent(t *testing.T) {
	rl := limiter.NewConcurrentRateLimiter()
	rl.SetBaseDelay(0)
	rl.SetJitter(0)
	rl.MarkLastFetchAsNow("example.com")

	retryAfter := 3 * time.Second
	rl.RecordTooManyRequests("example.com", &retryAfter)

	timing := rl.HostTimings()["example.com"]
	require.Equal(t, retryAfter, timing.BackOffDelay())
}

func TestRecordTooManyRequests_DoublesAndClampsToMax(t *testing.T) {
	rl := limiter.NewConcurrentRateLimiter()
	rl.MarkLastFetchAsNow("example.com")

	for i := 0; i < 20; i++ {
		rl.RecordTooManyRequests("example.com", nil)
	}

	timing := rl.HostTimings()["example.com"]
	require.LessOrEqual(t, timing.BackOffDelay(), 60*time.Second)
}

func TestRecordSuccess_RecoversDelayAfterThreshold(t *testing.T) {
	rl := limiter.NewConcurrentRateLimiter()
	rl.MarkLastFetchAsNow("example.com")

	retryAfter := 10 * time.Second
	rl.RecordTooManyRequests("example.com", &retryAfter)
	before := rl.HostTimings()["example.com"].BackOffDelay()
	require.Equal(t, retryAfter, before)

	for i := 0; i < 10; i++ {
		rl.RecordSuccess("example.com")
	}

	after := rl.HostTimings()["example.com"].BackOffDelay()
	require.Less(t, after, before)
}

func TestAcquire_RespectsPerHostConcurrency(t *testing.T) {
	rl := limiter.NewConcurrentRateLimiter()
	rl.SetBaseDelay(0)
	rl.SetPerHostConcurrency(2)

	var inFlight int32
	var maxObserved int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, ok := rl.Acquire(context.Background(), "example.com")
			if !ok {
				return
			}
			defer release()

			current := atomic.AddInt32(&inFlight, 1)
			for {
				observed := atomic.LoadInt32(&maxObserved)
				if current <= observed || atomic.CompareAndSwapInt32(&maxObserved, observed, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}

	wg.Wait()
	require.LessOrEqual(t, int(maxObserved), 2)
}

func TestAcquire_ObservesCancellationAtEntry(t *testing.T) {
	rl := limiter.NewConcurrentRateLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := rl.Acquire(ctx, "example.com")
	require.False(t, ok)
}
