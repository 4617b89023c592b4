package server

import (
	"sync"
	"time"

	"price-quoter/src/models"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait       = 2 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxCommandSize  = 4 * 1024
	clientQueueSize = 64
)

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// Client is one browser watching the board.
type Client struct {
	hub  *APIServer
	conn *websocket.Conn
	send chan *models.MBoardState

	mu    sync.RWMutex
	slots []string // empty means every slot
}

func (c *Client) setSlots(slots []string) {
	c.mu.Lock()
	c.slots = append([]string(nil), slots...)
	c.mu.Unlock()
}

// filter narrows a snapshot to the client's slots.
func (c *Client) filter(state *models.MBoardState) *models.MBoardState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filterSlots(state, c.slots)
}

// -----------------------------------------------------------------------------
// readPump reads subscribe commands until the browser goes away
// -----------------------------------------------------------------------------

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
		c.hub.Logger.Debug("Board client disconnected")
	}()

	c.conn.SetReadLimit(maxCommandSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, command, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("Board client read failed: %v", err)
			}
			return
		}
		c.hub.HandleClientMessage(c, command)
	}
}

// -----------------------------------------------------------------------------
// writePump pushes board snapshots, newest first
// -----------------------------------------------------------------------------

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case state, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			state, ok = latest(state, c.send)
			if err := c.writeState(state); err != nil {
				c.hub.Logger.Info("Board client write failed: %v", err)
				return
			}
			if !ok {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeState(state *models.MBoardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// latest drains queued snapshots and returns the newest one. An INITIAL
// snapshot is never skipped. ok is false once the queue is closed.
func latest(state *models.MBoardState, queue <-chan *models.MBoardState) (*models.MBoardState, bool) {
	for state.Type != "INITIAL" {
		select {
		case next, ok := <-queue:
			if !ok {
				return state, false
			}
			state = next
		default:
			return state, true
		}
	}
	return state, true
}
