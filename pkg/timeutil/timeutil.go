package timeutil

import (
	"math"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
)

// durationPtr is a helper function to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration in the given slice.
// Returns 0 for an empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range durations {
		if d > max {
			max = d
		}
	}
	return max
}

// ExponentialBackoffDelay computes base*multiplier^(attempt-1), clamped to
// MaxDuration, plus a uniform jitter in [0, jitter).
func ExponentialBackoffDelay(
	attempt int,
	jitter time.Duration,
	rng rand.Rand,
	backoff BackoffParam,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	exponent := float64(attempt - 1)
	delay := float64(backoff.InitialDuration()) * math.Pow(backoff.Multiplier(), exponent)
	if max := float64(backoff.MaxDuration()); backoff.MaxDuration() > 0 && delay > max {
		delay = max
	}

	result := time.Duration(delay)
	if jitter > 0 {
		result += ComputeJitter(jitter, rng)
	}
	return result
}

// ComputeJitter returns a uniform random duration in [0, max). Non-positive
// max always returns 0.
func ComputeJitter(max time.Duration, rng rand.Rand) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}

// Sleeper abstracts time.Sleep so callers can be tested without wall-clock waits.
type Sleeper interface {
	Sleep(d time.Duration)
}

// clockSleeper adapts a benbjohnson/clock.Clock to Sleeper. Production code
// gets NewRealSleeper backed by the real clock; tests can build one around
// clock.NewMock() and advance it manually instead of blocking on
// time.Sleep for the durations ExponentialBackoffDelay computes.
type clockSleeper struct {
	clock clock.Clock
}

func (c clockSleeper) Sleep(d time.Duration) {
	c.clock.Sleep(d)
}

// NewRealSleeper returns a Sleeper backed by the real wall clock.
func NewRealSleeper() Sleeper {
	return clockSleeper{clock: clock.New()}
}

// NewSleeperFromClock adapts an arbitrary clock.Clock (typically
// clock.NewMock() in tests) to Sleeper.
func NewSleeperFromClock(c clock.Clock) Sleeper {
	return clockSleeper{clock: c}
}

// NoopSleeper never actually sleeps; useful for deterministic tests that
// still want to exercise the sleep call site.
type NoopSleeper struct {
	Slept []time.Duration
}

func (n *NoopSleeper) Sleep(d time.Duration) {
	n.Slept = append(n.Slept, d)
}
