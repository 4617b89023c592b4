package helpers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"price-quoter/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type QuoterError struct {
	Message string
	Cause   error
}

func (e *QuoterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *QuoterError) Unwrap() error {
	return e.Cause
}

// Distinct error kinds for errors.As checks
type ConfigurationError struct{ QuoterError }
type TransportError struct{ QuoterError }
type StorageError struct{ QuoterError }
type ValidationError struct{ QuoterError }

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{QuoterError{Message: msg, Cause: cause}}
}

func NewTransportError(msg string, cause error) error {
	return &TransportError{QuoterError{Message: msg, Cause: cause}}
}

func NewStorageError(msg string, cause error) error {
	return &StorageError{QuoterError{Message: msg, Cause: cause}}
}

func NewValidationError(msg string, cause error) error {
	return &ValidationError{QuoterError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn up to maxRetries+1 times, doubling baseDelay after
// each failure. It stops early when ctx is done.
func RetryWithBackoff[T any](ctx context.Context, log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}

		lastErr = err
		if attempt == maxRetries {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries+1, operation, err, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, &QuoterError{Message: fmt.Sprintf("%s failed after %d attempts", operation, maxRetries+1), Cause: lastErr}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler logs and counts errors. It is safe for concurrent use.
type ErrorHandler struct {
	Logger *logger.Logger

	errorCount atomic.Int64
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

// ErrorCount returns how many errors Handle has seen.
func (e *ErrorHandler) ErrorCount() int64 {
	return e.errorCount.Load()
}

// -----------------------------------------------------------------------------

// Handle logs err with its context and counts it. Nil errors are ignored.
func (e *ErrorHandler) Handle(err error, context string) {
	if err != nil {
		e.errorCount.Add(1)
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
