package helpers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"price-quoter/src/logger"
)

func TestRetryWithBackoffEventuallySucceeds(t *testing.T) {
	calls := 0
	got, err := RetryWithBackoff(context.Background(), logger.NewNop(), "dial", 3, time.Millisecond, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("refused")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestRetryWithBackoffGivesUp(t *testing.T) {
	cause := errors.New("refused")
	calls := 0
	_, err := RetryWithBackoff(context.Background(), nil, "dial", 2, time.Millisecond, func(ctx context.Context) (int, error) {
		calls++
		return 0, cause
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap the last cause", err)
	}
	var qe *QuoterError
	if !errors.As(err, &qe) {
		t.Errorf("error %T is not a QuoterError", err)
	}
}

func TestRetryWithBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RetryWithBackoff(ctx, nil, "dial", 5, time.Hour, func(ctx context.Context) (int, error) {
		return 0, errors.New("refused")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTypedErrors(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save quote", cause)

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("storage error must unwrap to its cause")
	}
	if err.Error() != "save quote: disk full" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestErrorHandlerCountsConcurrently(t *testing.T) {
	h := NewErrorHandler(logger.NewNop())
	h.Handle(nil, "noop")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Handle(errors.New("boom"), "re-subscribe")
		}()
	}
	wg.Wait()

	if got := h.ErrorCount(); got != 20 {
		t.Errorf("ErrorCount = %d, want 20", got)
	}
}

func TestConfigurationError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewConfigurationError("failed to read config", cause)

	var ce *ConfigurationError
	if !errors.As(err, &ce) || !errors.Is(err, cause) {
		t.Fatalf("unexpected error chain %T: %v", err, err)
	}
}
