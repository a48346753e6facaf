package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsSendBuffer   = 64
)

// Frame is one websocket message: the channel an update was published on
// plus its payload.
type Frame struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

// Hub fans published updates out to connected websocket clients. A client
// whose send buffer is full is dropped rather than blocking the rest.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan Frame
	closed  bool
}

// NewHub returns a Hub instance.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan Frame),
	}
}

// Broadcast queues a frame for every connected client. It matches the
// notify.Subscriber signature so the hub can subscribe to all channels.
func (h *Hub) Broadcast(channel string, payload any) {
	frame := Frame{Channel: channel, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- frame:
		default:
			h.logger.Warn("slow websocket client dropped", zap.String("channel", channel))
			delete(h.clients, conn)
			close(send)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn, send := range h.clients {
		delete(h.clients, conn)
		close(send)
		_ = conn.Close()
	}
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	send := make(chan Frame, wsSendBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writeLoop(conn, send)
	h.readLoop(conn, send)
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan Frame) {
	for frame := range send {
		raw, err := sonnet.Marshal(frame)
		if err != nil {
			h.logger.Error("frame not encoded", zap.Error(err))
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			break
		}
	}
	_ = conn.Close()
}

// readLoop discards inbound messages; it exists to notice the close
// handshake and network errors.
func (h *Hub) readLoop(conn *websocket.Conn, send chan Frame) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
	_ = conn.Close()
}
