package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be less than pongWait
	maxMessageSize = 4096

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client owns one websocket connection: a read pump feeding the session
// and a write pump draining the send buffer.
type Client struct {
	conn    *websocket.Conn
	send    chan *ServerFrame
	session *Session
	log     *logger.Logger

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, d *Dispatcher, log *logger.Logger) *Client {
	c := &Client{
		conn: conn,
		send: make(chan *ServerFrame, sendBufferSize),
		log:  log,
	}
	c.session = d.NewSession(c)
	return c
}

// Send queues a frame without blocking. Returns false when the buffer is
// full or the connection is shutting down; for pushes that means the frame
// is dropped. The closed check has to be under the mutex: a sender holding
// a stale registry lookup can race the disconnect path, and sending on a
// closed channel would panic.
func (c *Client) Send(f *ServerFrame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// closeSend marks the client closed and releases the write pump. Safe to
// call once; Send calls after this point report the frame undeliverable.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump() {
	defer func() {
		c.session.Disconnect(context.Background())
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		// Keep the presence TTL alive without blocking the read loop.
		go c.session.RefreshPresence(context.Background())
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		reply := c.session.Handle(context.Background(), data)
		if !c.Send(reply) {
			c.log.Warn("send buffer full, dropping reply",
				zap.String("action", reply.Action),
				zap.String("user_id", c.session.UserID()))
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			json.NewEncoder(w).Encode(frame)

			// Flush anything else already queued.
			n := len(c.send)
			for range n {
				json.NewEncoder(w).Encode(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// ServeWS upgrades the request and starts the connection's pumps. The
// session authenticates in-band, so the endpoint itself is open.
func ServeWS(d *Dispatcher, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := newClient(conn, d, log)
		go client.writePump()
		go client.readPump()
	}
}
