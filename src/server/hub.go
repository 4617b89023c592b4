package server

import (
	"net/http"

	"price-quoter/src/models"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Board hub
// -----------------------------------------------------------------------------

// handleWebsockets owns the client set. Every board change reaches each client
// filtered to the slots it subscribed to.
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			initial := *s.latestState
			s.stateMutex.Unlock()

			initial.Type = "INITIAL"
			client.send <- &initial

		case client := <-s.unregister:
			s.stateMutex.Lock()
			s.dropLocked(client)
			s.stateMutex.Unlock()

		case message := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestState = message
			for client := range s.clients {
				select {
				case client.send <- client.filter(message):
				default:
					s.Logger.Warning("Board client lagging, disconnecting")
					s.dropLocked(client)
				}
			}
			s.stateMutex.Unlock()

		case <-s.quit:
			s.stateMutex.Lock()
			for client := range s.clients {
				s.dropLocked(client)
			}
			s.stateMutex.Unlock()
			return
		}
	}
}

// dropLocked forgets client and closes its queue. Callers hold stateMutex.
func (s *APIServer) dropLocked(client *Client) {
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.send)
}

// -----------------------------------------------------------------------------

// Broadcast queues a board snapshot for every client. It never blocks: when
// the queue is full the snapshot is dropped, the next one supersedes it.
func (s *APIServer) Broadcast(state models.MBoardState) {
	select {
	case s.broadcast <- &state:
	default:
		s.Logger.Warning("Broadcast queue full, dropping board update")
	}
}

// -----------------------------------------------------------------------------
// Upgrade
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan *models.MBoardState, clientQueueSize),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage processes a subscribe command: the client narrows the
// slots it receives and reports its viewport width.
func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	client.setSlots(cmd.Slots)
	if cmd.ViewportWidth > 0 {
		s.deps.Board.SetViewportWidth(cmd.ViewportWidth)
	}

	snapshot := s.deps.Board.Snapshot("INITIAL")
	response := client.filter(&snapshot)

	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	select {
	case client.send <- response:
	default:
		// Client buffer full; the hub prunes it on the next broadcast
	}
}
