package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Process-wide hub. Initialized once at server startup and torn down on
// shutdown; nil when real-time delivery was never configured, in which
// case every broadcast is a silent no-op.
var defaultHub *Hub

// Init creates the process-wide hub.
func Init() *Hub {
	if defaultHub == nil {
		defaultHub = NewHub()
	}
	return defaultHub
}

// Shutdown disconnects every client and discards the hub.
func Shutdown() {
	if defaultHub == nil {
		return
	}
	defaultHub.mu.Lock()
	for conn := range defaultHub.admins {
		conn.Close()
	}
	for _, conns := range defaultHub.orders {
		for conn := range conns {
			conn.Close()
		}
	}
	defaultHub.admins = make(map[*websocket.Conn]struct{})
	defaultHub.orders = make(map[string]map[*websocket.Conn]struct{})
	defaultHub.mu.Unlock()
	defaultHub = nil
}

// BroadcastToAdmins emits an event on the admin channel of the
// process-wide hub.
func BroadcastToAdmins(event string, data interface{}) {
	if defaultHub != nil {
		defaultHub.BroadcastToAdmins(event, data)
	}
}

// BroadcastToOrder emits an event on one order's customer channel of the
// process-wide hub.
func BroadcastToOrder(orderNumber, event string, data interface{}) {
	if defaultHub != nil {
		defaultHub.BroadcastToOrder(orderNumber, event, data)
	}
}

// Client join messages. Group membership is established only by an
// explicit join after connecting; a session that never joins receives
// nothing.
const (
	joinAdmin    = "join-admin"
	joinCustomer = "join-customer"
)

type clientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServeClient runs the read loop for one connection, handling join
// messages until the peer disconnects.
func (h *Hub) ServeClient(conn *websocket.Conn) {
	defer h.Unregister(conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case joinAdmin:
			h.JoinAdmins(conn)
		case joinCustomer:
			var orderNumber string
			if err := json.Unmarshal(msg.Data, &orderNumber); err != nil {
				continue
			}
			h.JoinOrder(conn, orderNumber)
		}
	}
}
