package api

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/amterp/flagmaker/internal/editor"
	"github.com/amterp/flagmaker/internal/id"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/gorilla/websocket"
)

// Message types pushed to the page.
const (
	MessageState          = "state"
	MessageConfigReloaded = "config_reloaded"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// A live picker drag can queue many states before a slow tab catches up.
	sendBuffer = 256

	// Pages never send anything but control frames.
	maxReadSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts connections from the page the server itself serves.
// Requests without an Origin header come from non-browser clients.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// WebSocketHub manages WebSocket connections and pushes session state to them,
// so every open page shows the flag the server holds.
type WebSocketHub struct {
	mu       sync.RWMutex
	clients  map[*WebSocketClient]bool
	snapshot func() editor.State
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	id   string
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewWebSocketHub creates a new WebSocket hub. snapshot supplies the state
// sent to each client on connect; it may be nil.
func NewWebSocketHub(snapshot func() editor.State) *WebSocketHub {
	return &WebSocketHub{
		clients:  make(map[*WebSocketClient]bool),
		snapshot: snapshot,
	}
}

// OnStateChange broadcasts a new session state. Registered with
// editor.Controller.Subscribe.
func (h *WebSocketHub) OnStateChange(state editor.State) {
	h.publish(MessageState, state)
}

// OnConfigReload tells clients the templates or palette changed.
func (h *WebSocketHub) OnConfigReload(templates []model.Template) {
	h.publish(MessageConfigReloaded, map[string]any{
		"templates": templates,
	})
}

func (h *WebSocketHub) publish(msgType string, payload any) {
	data, err := json.Marshal(WebSocketMessage{Type: msgType, Data: payload})
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", msgType, err)
		return
	}

	h.broadcast(data)
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend queues data for one client. A client whose queue is full has
// stopped reading and is dropped. The recover covers a send racing with
// removeClient closing the channel.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() { _ = recover() }()

	select {
	case client.send <- data:
	default:
		log.Printf("WebSocket client %s is not keeping up, dropping it", client.id)
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and sends the client the current state.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		id:   id.Generate(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.addClient(client)
	go client.writePump()
	go client.readPump()
	log.Printf("WebSocket client %s connected", client.id)

	if h.snapshot == nil {
		return
	}
	// States carry a sequence number, so a page that already got a newer
	// broadcast ignores this one.
	welcome := WebSocketMessage{Type: MessageState, Data: h.snapshot()}
	if data, err := json.Marshal(welcome); err == nil {
		h.trySend(client, data)
	}
}

// readPump only watches for pongs and disconnects. When it exits the client
// is removed, which closes send and lets writePump close the connection.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.removeClient(c)
		log.Printf("WebSocket client %s disconnected", c.id)
	}()

	c.conn.SetReadLimit(maxReadSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket client %s read error: %v", c.id, err)
			}
			return
		}
	}
}

// writePump delivers queued messages in order, one JSON document per frame,
// and keeps the connection alive with pings.
func (c *WebSocketClient) writePump() {
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

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
