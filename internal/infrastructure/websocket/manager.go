package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one live-feed connection. A user may hold several.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

type directMessage struct {
	client  *Client
	message []byte
}

// Manager fans report events out to every connected client. Only the manager
// loop sends on or closes a client's Send channel.
type Manager struct {
	clients    map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
	direct     chan directMessage
	done       chan struct{}
	mutex      sync.RWMutex
	logger     logger.Logger
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{
		clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBufferSize),
		direct:     make(chan directMessage, sendBufferSize),
		done:       make(chan struct{}),
		logger:     log.With("component", "websocket"),
	}
}

// Start runs the manager loop until ctx is cancelled, then closes every
// client.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client] = struct{}{}
				m.mutex.Unlock()
				m.logger.Debug("Client registered", "userID", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				m.logger.Debug("Client unregistered", "userID", client.UserID)

			case message := <-m.broadcast:
				m.mutex.Lock()
				for client := range m.clients {
					select {
					case client.Send <- message:
					default:
						// Slow consumer; drop it rather than stall the feed.
						close(client.Send)
						delete(m.clients, client)
					}
				}
				m.mutex.Unlock()

			case d := <-m.direct:
				m.mutex.RLock()
				if _, ok := m.clients[d.client]; ok {
					select {
					case d.client.Send <- d.message:
					default:
					}
				}
				m.mutex.RUnlock()

			case <-ctx.Done():
				m.mutex.Lock()
				for client := range m.clients {
					close(client.Send)
					delete(m.clients, client)
				}
				m.mutex.Unlock()
				close(m.done)
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		close(client.Send)
	}
}

// Publish queues event for every client. It never blocks; events are dropped
// when the broadcast queue is full.
func (m *Manager) Publish(event entity.ReportEvent) {
	message, err := encodeMessage(string(event.Type), event, event.Timestamp)
	if err != nil {
		m.logger.Error("Failed to encode report event", "type", event.Type, "error", err)
		return
	}

	select {
	case m.broadcast <- message:
	default:
		m.logger.Warn("Broadcast queue full, dropping event", "type", event.Type, "reportID", event.ReportID)
	}
}

func (m *Manager) ClientCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// Serve registers conn for userID and starts its pumps.
func (m *Manager) Serve(conn *websocket.Conn, userID string) {
	client := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
	select {
	case m.Register <- client:
	case <-m.done:
		conn.Close()
		return
	}

	go client.WritePump(m.logger)
	go client.ReadPump(m)
}

// ReadPump handles client pings until the connection drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("Unexpected websocket close", "userID", c.UserID, "error", err)
			}
			return
		}

		if reply := handleClientMessage(message); reply != nil {
			select {
			case m.direct <- directMessage{client: c, message: reply}:
			case <-m.done:
				return
			}
		}
	}
}

// WritePump drains Send onto the connection and keeps it alive with pings.
func (c *Client) WritePump(log logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("Websocket write failed", "userID", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
