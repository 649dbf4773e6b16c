package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"arena/domain/entities"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

// Client is one live WebSocket connection bound to a minted player
// identity for the lifetime of the connection.
type Client struct {
	server *Server
	conn   *websocket.Conn
	player *entities.Player
	send   chan []byte
}

func newClient(server *Server, conn *websocket.Conn, player *entities.Player) *Client {
	return &Client{
		server: server,
		conn:   conn,
		player: player,
		send:   make(chan []byte, sendBufferSize),
	}
}

// PlayerID returns the identity bound to this connection
func (c *Client) PlayerID() uuid.UUID {
	return c.player.ID
}

// enqueue hands a frame to the write pump without blocking. A full
// buffer means a slow or dead client; the frame is dropped, delivery
// is best-effort.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.WithField("playerID", c.player.ID).Warn("send buffer full, dropping frame")
	}
}

// readPump reads inbound frames and dispatches them until the
// connection dies, then purges the client from the directory.
func (c *Client) readPump() {
	defer func() {
		c.server.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("playerID", c.player.ID).Debug("connection closed unexpectedly")
			}
			return
		}
		c.server.handleMessage(c, data)
	}
}

// writePump writes queued frames and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
