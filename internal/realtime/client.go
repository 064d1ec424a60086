package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is the transport handle one dashboard session runs on. The registry
// never owns the connection; the transport layer that accepted it does.
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
}

// Client serializes writes to a single connection. Both the HTTP mutation
// path and the polling loop may broadcast to the same session concurrently,
// and websocket connections allow only one writer at a time.
type Client struct {
	mu   sync.Mutex
	conn Conn
}

func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(data)
}

func (c *Client) Close() {
	_ = c.conn.Close()
}

// WSConn adapts a gorilla websocket connection to the Conn interface.
type WSConn struct {
	conn *websocket.Conn
}

func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

func (w *WSConn) WriteMessage(data []byte) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *WSConn) Close() error {
	return w.conn.Close()
}
