package interfaces

import (
	"context"

	"price-quoter/src/models"
)

// -----------------------------------------------------------------------------
// IRequest is any outbound message the transport can correlate.
// -----------------------------------------------------------------------------

type IRequest interface {
	// SetReqID stamps the correlation id before the frame is written.
	SetReqID(id int64)

	// MsgType is the msg_type the server answers with.
	MsgType() string
}

// -----------------------------------------------------------------------------
// IStream delivers every frame answering one subscribed request.
// -----------------------------------------------------------------------------

type IStream interface {
	ReqID() int64

	// C is closed when the stream is forgotten or the socket drops.
	C() <-chan *models.MResponse

	Close()
}

// -----------------------------------------------------------------------------
// ITransport is the persistent socket to the pricing server.
// -----------------------------------------------------------------------------

type ITransport interface {

	// -----------------------------------------------------------------------------

	// Subscribe sends req and returns the stream of its responses.
	Subscribe(ctx context.Context, req IRequest) (IStream, error)

	// -----------------------------------------------------------------------------

	// Call sends req and waits for its single response.
	Call(ctx context.Context, req IRequest) (*models.MResponse, error)

	// -----------------------------------------------------------------------------

	// ForgetAll asks the server to drop every stream of msgType and closes
	// the matching local streams. Best effort: the server reply is not awaited.
	ForgetAll(ctx context.Context, msgType string) error

	// -----------------------------------------------------------------------------

	// Connected reports whether the socket is currently usable.
	Connected() bool

	// -----------------------------------------------------------------------------

	Close() error
}
