package transport

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"price-quoter/src/helpers"
	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"

	"github.com/bwmarrin/snowflake"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 1024 * 1024 // trading_times payloads are large
	retryBaseDelay = time.Second

	// req_id must survive JSON number handling on the server side.
	reqIDMask = 1<<53 - 1
)

// -----------------------------------------------------------------------------
// WebsocketTransport
// -----------------------------------------------------------------------------

// WebsocketTransport is a persistent socket to the pricing API. Requests are
// correlated with their responses through req_id.
type WebsocketTransport struct {
	Config *models.MConfig
	Logger *logger.Logger

	node   *snowflake.Node
	dialer *websocket.Dialer

	connMu    sync.RWMutex
	conn      *websocket.Conn
	dropped   chan struct{}
	writeMu   sync.Mutex
	connected atomic.Bool

	mu       sync.Mutex
	pending  map[int64]*ResponseFuture
	streams  map[int64]*Stream
	watchers []func(connected bool)

	done      chan struct{}
	closeOnce sync.Once
}

var _ interfaces.ITransport = (*WebsocketTransport)(nil)

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewWebsocketTransport(cfg *models.MConfig, log *logger.Logger) (*WebsocketTransport, error) {
	node, err := snowflake.NewNode(cfg.Socket.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create request id node: %w", err)
	}

	return &WebsocketTransport{
		Config: cfg,
		Logger: log,
		node:   node,
		dialer: &websocket.Dialer{
			HandshakeTimeout: time.Duration(cfg.Socket.DialTimeoutSeconds) * time.Second,
		},
		pending: make(map[int64]*ResponseFuture),
		streams: make(map[int64]*Stream),
		done:    make(chan struct{}),
	}, nil
}

// -----------------------------------------------------------------------------

// Dial creates the transport and opens the first connection, retrying with
// backoff up to the configured number of retries.
func Dial(ctx context.Context, cfg *models.MConfig, log *logger.Logger) (*WebsocketTransport, error) {
	t, err := NewWebsocketTransport(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := t.connect(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// -----------------------------------------------------------------------------

// endpoint adds app_id and language to the configured URL when missing.
func (t *WebsocketTransport) endpoint() (string, error) {
	u, err := url.Parse(t.Config.Socket.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("app_id") == "" && t.Config.Socket.AppID != "" {
		q.Set("app_id", t.Config.Socket.AppID)
	}
	if q.Get("l") == "" && t.Config.Socket.Language != "" {
		q.Set("l", t.Config.Socket.Language)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) connect(ctx context.Context) error {
	endpoint, err := t.endpoint()
	if err != nil {
		return helpers.NewTransportError("invalid socket url", err)
	}

	conn, err := helpers.RetryWithBackoff(ctx, t.Logger, "socket dial", t.Config.Socket.MaxRetries, retryBaseDelay,
		func(ctx context.Context) (*websocket.Conn, error) {
			conn, _, err := t.dialer.DialContext(ctx, endpoint, nil)
			return conn, err
		})
	if err != nil {
		return helpers.NewTransportError("failed to connect to "+t.Config.Socket.URL, err)
	}

	conn.SetReadLimit(maxMessageSize)
	dropped := make(chan struct{})

	t.connMu.Lock()
	t.conn = conn
	t.dropped = dropped
	t.connMu.Unlock()
	t.connected.Store(true)

	go t.readPump(conn, dropped)
	go t.pingPump(conn, dropped)

	t.Logger.Info("Connected to %s", t.Config.Socket.URL)
	t.notify(true)
	return nil
}

// -----------------------------------------------------------------------------

// Run keeps the socket alive, redialing after every drop until ctx is done
// or the transport is closed.
func (t *WebsocketTransport) Run(ctx context.Context) {
	for {
		t.connMu.RLock()
		dropped := t.dropped
		t.connMu.RUnlock()

		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-dropped:
		}

		t.Logger.Warning("Socket dropped, reconnecting...")
		if err := t.connect(ctx); err != nil {
			t.Logger.Error("Reconnect failed: %v", err)
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Pumps
// -----------------------------------------------------------------------------

func (t *WebsocketTransport) readPump(conn *websocket.Conn, dropped chan struct{}) {
	pongWait := 2 * t.pingInterval()
	defer func() {
		conn.Close()
		t.connected.Store(false)
		t.failAll(helpers.NewTransportError("socket closed", nil))
		close(dropped)
		t.notify(false)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.Logger.Warning("Socket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var resp models.MResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			t.Logger.Warning("Dropping undecodable frame: %v", err)
			continue
		}
		t.dispatch(&resp)
	}
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) pingPump(conn *websocket.Conn, dropped chan struct{}) {
	ticker := time.NewTicker(t.pingInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.write(&models.MPingRequest{Ping: 1}); err != nil {
				t.Logger.Warning("Ping failed: %v", err)
				conn.Close()
				return
			}
		case <-dropped:
			return
		case <-t.done:
			return
		}
	}
}

func (t *WebsocketTransport) pingInterval() time.Duration {
	if t.Config.Socket.PingIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(t.Config.Socket.PingIntervalSeconds) * time.Second
}

// -----------------------------------------------------------------------------
// Routing
// -----------------------------------------------------------------------------

func (t *WebsocketTransport) dispatch(resp *models.MResponse) {
	if resp.ReqID == 0 {
		t.Logger.Debug("Ignoring uncorrelated %s frame", resp.MsgType)
		return
	}

	t.mu.Lock()
	future, isCall := t.pending[resp.ReqID]
	if isCall {
		delete(t.pending, resp.ReqID)
	}
	stream, isStream := t.streams[resp.ReqID]
	t.mu.Unlock()

	switch {
	case isCall:
		future.setResponse(resp, nil)
	case isStream:
		stream.deliver(resp)
	default:
		t.Logger.Debug("No listener for %s frame req_id=%d", resp.MsgType, resp.ReqID)
	}
}

// failAll completes pending calls with err and closes every stream.
func (t *WebsocketTransport) failAll(err error) {
	t.mu.Lock()
	pending := t.pending
	streams := t.streams
	t.pending = make(map[int64]*ResponseFuture)
	t.streams = make(map[int64]*Stream)
	t.mu.Unlock()

	for _, f := range pending {
		f.setResponse(nil, err)
	}
	for _, s := range streams {
		s.closeLocal()
	}
}

// nextReqID keeps the low 53 bits of a snowflake id. The truncated ids wrap
// after roughly six days, far beyond any subscription's lifetime.
func (t *WebsocketTransport) nextReqID() int64 {
	return t.node.Generate().Int64() & reqIDMask
}

func (t *WebsocketTransport) removeStream(reqID int64) {
	t.mu.Lock()
	delete(t.streams, reqID)
	t.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) write(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	t.connMu.RLock()
	conn := t.conn
	t.connMu.RUnlock()
	if conn == nil || !t.connected.Load() {
		return helpers.NewTransportError("socket not connected", nil)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return helpers.NewTransportError("socket write failed", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// ITransport
// -----------------------------------------------------------------------------

func (t *WebsocketTransport) Subscribe(ctx context.Context, req interfaces.IRequest) (interfaces.IStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := t.nextReqID()
	req.SetReqID(id)
	s := newStream(id, req.MsgType(), t)

	t.mu.Lock()
	t.streams[id] = s
	t.mu.Unlock()

	if err := t.write(req); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) Call(ctx context.Context, req interfaces.IRequest) (*models.MResponse, error) {
	id := t.nextReqID()
	req.SetReqID(id)
	f := newResponseFuture()

	t.mu.Lock()
	t.pending[id] = f
	t.mu.Unlock()

	if err := t.write(req); err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, err
	}

	resp, err := f.Wait(ctx)
	if err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}
	return resp, err
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) ForgetAll(ctx context.Context, msgType string) error {
	var closing []*Stream
	t.mu.Lock()
	for id, s := range t.streams {
		if s.msgType == msgType {
			closing = append(closing, s)
			delete(t.streams, id)
		}
	}
	t.mu.Unlock()

	for _, s := range closing {
		s.closeLocal()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	req := &models.MForgetAllRequest{ForgetAll: msgType}
	req.SetReqID(t.nextReqID())
	return t.write(req)
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) Connected() bool {
	return t.connected.Load()
}

// OnStateChange registers fn to be called after every connect and drop.
func (t *WebsocketTransport) OnStateChange(fn func(connected bool)) {
	t.mu.Lock()
	t.watchers = append(t.watchers, fn)
	t.mu.Unlock()
}

func (t *WebsocketTransport) notify(connected bool) {
	t.mu.Lock()
	watchers := append([]func(bool){}, t.watchers...)
	t.mu.Unlock()
	for _, fn := range watchers {
		fn(connected)
	}
}

// -----------------------------------------------------------------------------

func (t *WebsocketTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)

		t.connMu.RLock()
		conn := t.conn
		t.connMu.RUnlock()
		if conn == nil {
			return
		}

		t.writeMu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.writeMu.Unlock()
		conn.Close()
	})
	return nil
}
