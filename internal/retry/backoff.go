package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// ExponentialBackoff grows the delay by multiplier on every retry, capped at
// maxDelay, and spreads it by +/- jitter to keep concurrent clients apart.
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	maxAttempts  int     // -1 = unlimited, 0 = no retries
	jitter       float64 // 0.1 means +/- 10%
	random       func() float64
}

// BackoffOption configures an ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.maxDelay = d }
}

// WithMultiplier sets the growth factor between retries.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithJitter sets the jitter factor in [0, 1].
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithJitterFunc replaces the random source, which must return values in [0, 1).
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.random = f }
}

// NewExponentialBackoff creates a strategy allowing maxAttempts retries.
//
//	backoff := retry.NewExponentialBackoff(5,
//	    retry.WithInitialDelay(200*time.Millisecond),
//	    retry.WithJitter(0.2),
//	)
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: fscache.DefaultRetryInitialDelay,
		maxDelay:     fscache.DefaultRetryMaxDelay,
		multiplier:   2.0,
		maxAttempts:  maxAttempts,
		jitter:       0.1,
		random:       rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns the wait before retry number attempt (zero-based).
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt))
	if delay > float64(b.maxDelay) {
		delay = float64(b.maxDelay)
	}

	if b.jitter > 0 {
		// Map [0,1) to [-1,1).
		offset := (b.random() - 0.5) * 2.0
		delay *= 1.0 + b.jitter*offset
	}

	return time.Duration(delay)
}

// MaxAttempts returns the number of retries allowed after the first attempt.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}

func (b *ExponentialBackoff) InitialDelay() time.Duration { return b.initialDelay }
func (b *ExponentialBackoff) MaxDelay() time.Duration     { return b.maxDelay }
func (b *ExponentialBackoff) Multiplier() float64         { return b.multiplier }
func (b *ExponentialBackoff) Jitter() float64             { return b.jitter }

var _ fscache.BackoffStrategy = (*ExponentialBackoff)(nil)
