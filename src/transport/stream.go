package transport

import (
	"sync"

	"price-quoter/src/models"
)

const streamBuffer = 32

// Stream carries every response to one subscribed request.
type Stream struct {
	reqID   int64
	msgType string
	owner   *WebsocketTransport

	mu     sync.Mutex
	ch     chan *models.MResponse
	closed bool
}

func newStream(reqID int64, msgType string, owner *WebsocketTransport) *Stream {
	return &Stream{
		reqID:   reqID,
		msgType: msgType,
		owner:   owner,
		ch:      make(chan *models.MResponse, streamBuffer),
	}
}

func (s *Stream) ReqID() int64 { return s.reqID }

func (s *Stream) C() <-chan *models.MResponse { return s.ch }

// Close detaches the stream from the transport and closes its channel.
// The server side subscription is left to ForgetAll.
func (s *Stream) Close() {
	if s.owner != nil {
		s.owner.removeStream(s.reqID)
	}
	s.closeLocal()
}

// deliver never blocks the read loop: when the consumer lags, the oldest
// buffered frame is dropped in favour of the newest quote.
func (s *Stream) deliver(resp *models.MResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- resp:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- resp
	}
	return true
}

func (s *Stream) closeLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
