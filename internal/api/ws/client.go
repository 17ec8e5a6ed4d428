package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	snapshotv1 "github.com/muhammadchandra19/market-sim/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// commands are single words; anything longer is garbage
	maxMessageSize = 512

	sendBufferSize = 16
)

// Client is one connected observer. Snapshots are queued on a bounded
// buffer drained by the write pump, so a slow connection never blocks the
// simulation.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Send implements snapshotv1.Receiver. A client that cannot accept the
// snapshot is dropped.
func (c *Client) Send(snap snapshotv1.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		c.hub.logger.Error(err, logger.Field{Key: "action", Value: "marshal_snapshot"})
		return
	}
	if !c.enqueue(payload) {
		c.hub.drop(c, "send buffer full")
	}
}

// enqueue offers a payload without blocking. It reports false when the
// client is closed or its buffer is full.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.conn.Close()
}

// readPump forwards inbound text frames to the command sink. Unknown
// commands are the sink's problem; a read error means the observer is gone.
func (c *Client) readPump() {
	defer c.hub.drop(c, "connection closed")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.hub.sink.HandleCommand(strings.TrimSpace(string(message)))
	}
}

// writePump drains the send buffer onto the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.drop(c, "write pump stopped")
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
