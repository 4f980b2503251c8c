// Package websocket pushes live admin activity to connected dashboards.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"zawamu/auth"
	"zawamu/models"
	"zawamu/observability"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 512
	sendBuffer = 256
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Manager struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done, then closes every connection.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			n := len(m.clients)
			m.mu.Unlock()
			observability.LiveClients.Set(float64(n))
			log.Debug().Str("user", client.userID).Int("clients", n).Msg("activity client registered")

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
			}
			n := len(m.clients)
			m.mu.Unlock()
			observability.LiveClients.Set(float64(n))
			log.Debug().Str("user", client.userID).Int("clients", n).Msg("activity client unregistered")

		case message := <-m.broadcast:
			m.mu.Lock()
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(m.clients, client)
				}
			}
			m.mu.Unlock()

		case <-ctx.Done():
			m.mu.Lock()
			for client := range m.clients {
				close(client.send)
				delete(m.clients, client)
			}
			m.mu.Unlock()
			observability.LiveClients.Set(0)
			return
		}
	}
}

// Publish queues an activity event for every connected client. It never
// blocks the caller; events are dropped when the queue is full.
func (m *Manager) Publish(a models.Activity) {
	msg, err := json.Marshal(envelope{Type: "activity", Payload: a})
	if err != nil {
		log.Error().Err(err).Msg("marshal activity event")
		return
	}
	select {
	case m.broadcast <- msg:
	default:
		log.Warn().Str("action", a.Action).Msg("activity queue full, event dropped")
	}
}

func (m *Manager) ConnectedClients() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades admin connections authenticated by a ?token= query
// parameter, since browsers cannot set headers on a websocket handshake.
func Handler(m *Manager, tokens TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			conn:    conn,
			userID:  claims.UserID,
			send:    make(chan []byte, sendBuffer),
			manager: m,
		}
		select {
		case m.register <- client:
		case <-m.done:
			conn.Close()
			return
		}

		welcome, _ := json.Marshal(envelope{
			Type:    "connected",
			Payload: map[string]any{"userId": claims.UserID, "time": time.Now().Unix()},
		})
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, welcome); err != nil {
			m.drop(client)
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

func (m *Manager) drop(c *Client) {
	select {
	case m.unregister <- c:
	case <-m.done:
	}
}

// readPump only services control frames; the feed is one-way and anything
// the client sends is discarded.
func (c *Client) readPump() {
	defer func() {
		c.manager.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user", c.userID).Msg("websocket read error")
			}
			return
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
