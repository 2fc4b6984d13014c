package httpapi

import (
	"context"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 512
	wsSendBuffer     = 8
	hubBroadcastSize = 32
)

// Hub fans TV states out to websocket subscribers. New subscribers receive the most
// recent state immediately.
type Hub struct {
	clients    map[*wsClient]struct{}
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	logger     *logging.Logger

	mu     sync.RWMutex
	latest []byte
	count  int
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		clients:    make(map[*wsClient]struct{}),
		broadcast:  make(chan []byte, hubBroadcastSize),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		logger:     logger.Named("tv_hub"),
	}
}

// Run owns the subscriber set until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount(len(h.clients))
			if latest := h.Latest(); latest != nil {
				select {
				case client.send <- latest:
				default:
				}
			}
			h.logger.Debug("tv subscriber registered", "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
			h.logger.Debug("tv subscriber unregistered", "clients", len(h.clients))
		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					h.logger.Warn("tv subscriber too slow, disconnecting")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *wsClient) {
	delete(h.clients, client)
	close(client.send)
	h.setCount(len(h.clients))
}

// Publish encodes the state and queues it for every subscriber. It never blocks: when
// the queue is full the state is still kept as the latest one.
func (h *Hub) Publish(state usecase.TVState) {
	payload, err := sonic.Marshal(tvStateToDTO(context.Background(), state))
	if err != nil {
		h.logger.Error("encode tv state failed", "error", err)
		return
	}

	h.mu.Lock()
	h.latest = payload
	h.mu.Unlock()

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("tv broadcast queue full, state dropped", "status", state.Status)
	}
}

// Latest returns the most recently published payload, or nil.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Clients is the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// attach registers the connection and starts its pumps. It returns false when the hub
// has stopped.
func (h *Hub) attach(ctx context.Context, conn *websocket.Conn) bool {
	client := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, wsSendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}

	go client.writePump()
	go client.readPump()
	return true
}

// readPump only watches for the peer going away; the feed is one-way.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(wsMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("tv subscriber read failed", "error", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
