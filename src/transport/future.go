package transport

import (
	"context"
	"sync"

	"price-quoter/src/models"
)

// ResponseFuture is completed exactly once with the answer to a Call.
type ResponseFuture struct {
	ch   chan struct{} // Closed when response is ready
	resp *models.MResponse
	err  error
	once sync.Once
}

func newResponseFuture() *ResponseFuture {
	return &ResponseFuture{ch: make(chan struct{})}
}

// setResponse completes the future; later calls are ignored.
func (f *ResponseFuture) setResponse(resp *models.MResponse, err error) {
	f.once.Do(func() {
		f.resp = resp
		f.err = err
		close(f.ch)
	})
}

// Done returns a channel closed when the response is ready.
func (f *ResponseFuture) Done() <-chan struct{} {
	return f.ch
}

// Wait blocks until the future is completed or ctx is done.
func (f *ResponseFuture) Wait(ctx context.Context) (*models.MResponse, error) {
	select {
	case <-f.ch:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
