package server

import (
	"context"
	"net/http"
	"time"

	"portfolio-viewer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *PortfolioServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.setConnections(len(s.clients))
			// Send initial state on connect
			client.send <- s.newMessage(models.MessageInitial, s.Portfolio.State())

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.setConnections(len(s.clients))
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, disconnect to prevent Hub blocking
					s.Logger.Warning("Dropping slow websocket client %s", client.id)
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.setConnections(len(s.clients))

		case d := <-s.direct:
			if _, ok := s.clients[d.client]; ok {
				select {
				case d.client.send <- d.message:
				default:
				}
			}

		case <-s.quit:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.setConnections(0)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// forwardViews turns state machine transitions into hub broadcasts.
func (s *PortfolioServer) forwardViews(views <-chan models.PortfolioView, cancel func()) {
	defer cancel()

	// The subscription always starts with the current view, which the hub
	// already sends as INITIAL on register.
	select {
	case <-views:
	case <-s.quit:
		return
	}

	for {
		select {
		case view, ok := <-views:
			if !ok {
				return
			}
			message := s.newMessage(models.MessageUpdate, view)
			s.stateMutex.Lock()
			s.latestUpdate = message.Timestamp
			s.stateMutex.Unlock()

			select {
			case s.broadcast <- message:
			case <-s.quit:
				return
			}
		case <-s.quit:
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Helper Methods
// -----------------------------------------------------------------------------

func (s *PortfolioServer) newMessage(kind string, view models.PortfolioView) *models.MViewMessage {
	return &models.MViewMessage{
		Type:      kind,
		View:      view,
		Timestamp: time.Now().UnixMilli(),
	}
}

// -----------------------------------------------------------------------------

type directMessage struct {
	client  *Client
	message *models.MViewMessage
}

func (s *PortfolioServer) broadcastTo(client *Client, message *models.MViewMessage) {
	select {
	case s.direct <- directMessage{client: client, message: message}:
	case <-s.quit:
	}
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) setConnections(n int) {
	s.stateMutex.Lock()
	s.connections = n
	s.stateMutex.Unlock()
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MViewMessage, 64),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}
	s.Logger.Debug("Client %s connected from %s", client.id, c.ClientIP())

	go client.serve()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *PortfolioServer) HandleClientCommand(client *Client, cmd models.MClientCommand) {
	switch cmd.Command {
	case "load":
		// Views reach the client through the broadcast
		s.Portfolio.Load(context.Background())

	case "search":
		if s.Portfolio.Search(cmd.Query) {
			return
		}
		reply := s.newMessage(models.MessageError, s.Portfolio.State())
		reply.Error = "portfolio is not loaded"
		client.reply(reply)

	default:
		s.Logger.Debug("Ignoring unknown command %q from client %s", cmd.Command, client.id)
	}
}
