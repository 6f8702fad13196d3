package retry

import (
	"context"
	"time"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// Executor re-runs an operation while it fails with transient errors,
// waiting between attempts as the backoff strategy dictates.
//
// Execute is safe for concurrent use. WithOnRetry returns a configured copy
// and leaves the receiver untouched.
type Executor struct {
	classifier fscache.ErrorClassifier
	strategy   fscache.BackoffStrategy
	logger     fscache.Logger
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a retry executor. A nil logger disables retry logging.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier fscache.ErrorClassifier, strategy fscache.BackoffStrategy, logger fscache.Logger) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
		logger:     logger,
	}
}

// NewDefaultExecutor retries PostgreSQL operations with the fscache defaults.
func NewDefaultExecutor(logger fscache.Logger) *Executor {
	return NewExecutor(
		NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(fscache.DefaultRetryMaxAttempts,
			WithInitialDelay(fscache.DefaultRetryInitialDelay),
			WithMaxDelay(fscache.DefaultRetryMaxDelay),
		),
		logger,
	)
}

// WithOnRetry returns a copy of the executor that calls callback before each retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails fatally, or the retries are
// exhausted, and returns the last error. A negative MaxAttempts retries forever.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	maxAttempts := e.strategy.MaxAttempts()

	lastErr := operation(ctx)
	for attempt := 0; lastErr != nil && e.classifier.IsTransient(lastErr); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.logger != nil {
			e.logger.Verbose("transient failure, retrying in %v (retry %d): %v", delay, attempt+1, lastErr)
		}
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
	}
	return lastErr
}

// Value runs operation through e and returns the value of the successful attempt.
func Value[T any](ctx context.Context, e *Executor, operation func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := e.Execute(ctx, func(ctx context.Context) error {
		v, err := operation(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
