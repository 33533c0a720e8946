package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a transient backend failure such as a timeout or a
// dropped connection.
var ErrNetwork = errors.New("cache: network error")

// retryAttempts bounds RetryWithBackoff. retryBaseDelay is the first wait;
// each later wait doubles it.
var (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// RetryableError marks Err as worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, fails with an error not
// marked Retryable, or runs out of attempts. Waits honour ctx.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	err := fn()
	for attempt := 1; attempt < retryAttempts && IsRetryable(err); attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
