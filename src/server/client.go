package server

import (
	"errors"
	"time"

	"portfolio-viewer/src/models"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout    = 2 * time.Second
	idleTimeout     = 60 * time.Second
	keepalivePeriod = idleTimeout * 9 / 10
	maxCommandSize  = 4 * 1024
)

// Client is one websocket connection. Only the hub loop sends on or closes
// send; deliver is the only writer of conn.
type Client struct {
	id   string
	hub  *PortfolioServer
	conn *websocket.Conn
	send chan *models.MViewMessage
}

// -----------------------------------------------------------------------------

// reply routes a direct answer through the hub loop.
func (c *Client) reply(message *models.MViewMessage) {
	c.hub.broadcastTo(c, message)
}

// -----------------------------------------------------------------------------

// serve runs the connection until either side goes away.
func (c *Client) serve() {
	go c.deliver()
	c.listen()

	select {
	case c.hub.unregister <- c:
	case <-c.hub.quit:
	}
	c.conn.Close()
	c.hub.Logger.Debug("Client %s disconnected", c.id)
}

// -----------------------------------------------------------------------------

// listen decodes commands until the connection fails or stays silent
// longer than idleTimeout. Pongs extend the deadline.
func (c *Client) listen() {
	extend := func() error {
		return c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	}
	c.conn.SetReadLimit(maxCommandSize)
	extend()
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		var cmd models.MClientCommand
		err := c.conn.ReadJSON(&cmd)
		if err == nil {
			c.hub.HandleClientCommand(c, cmd)
			continue
		}

		var closeErr *websocket.CloseError
		switch {
		case errors.As(err, &closeErr):
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.Logger.Info("Client %s closed with %d", c.id, closeErr.Code)
			}
		case errors.Is(err, websocket.ErrReadLimit):
			c.hub.Logger.Info("Client %s sent an oversized command", c.id)
		default:
			// Includes commands that are not valid JSON
			c.hub.Logger.Debug("Client %s read failed: %v", c.id, err)
		}
		return
	}
}

// -----------------------------------------------------------------------------

// deliver writes queued views and keepalive pings. A closed send channel
// means the hub dropped this client.
func (c *Client) deliver() {
	keepalive := time.NewTicker(keepalivePeriod)
	defer keepalive.Stop()
	defer c.conn.Close()

	for {
		var err error
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed the stream"))
				return
			}
			err = c.conn.WriteJSON(message)
		case <-keepalive.C:
			err = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
		}
		if err != nil {
			c.hub.Logger.Info("Write to client %s failed: %v", c.id, err)
			return
		}
	}
}
