package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/freshpress/juicebar-app/utils"
)

// Events on the admin broadcast channel.
const (
	EventNewOrder      = "new-order"
	EventOrderUpdated  = "order-updated"
	EventRefreshOrders = "refresh-orders"
)

// Event on a per-order customer channel.
const (
	EventStatusChanged = "status-changed"
)

// A stuck client must never delay the request that triggered the event.
const writeWait = 5 * time.Second

// Envelope is the wire format of every outbound event. Timestamp is
// stamped by the server at emit time.
type Envelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub tracks the admin broadcast group and the per-order tracking groups.
// Delivery is at-most-once and fire-and-forget: a failed write drops the
// client, and events with no subscribers are discarded.
type Hub struct {
	mu     sync.Mutex
	admins map[*websocket.Conn]struct{}
	orders map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		admins: make(map[*websocket.Conn]struct{}),
		orders: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// JoinAdmins subscribes the connection to the shared admin group.
func (h *Hub) JoinAdmins(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.admins[conn] = struct{}{}
}

// JoinOrder subscribes the connection to the tracking group of one order.
func (h *Hub) JoinOrder(conn *websocket.Conn, orderNumber string) {
	if orderNumber == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.orders[orderNumber]; !ok {
		h.orders[orderNumber] = make(map[*websocket.Conn]struct{})
	}
	h.orders[orderNumber][conn] = struct{}{}
}

// Unregister removes the connection from every group and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(conn)
}

func (h *Hub) dropLocked(conn *websocket.Conn) {
	delete(h.admins, conn)
	for orderNumber, conns := range h.orders {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.orders, orderNumber)
		}
	}
	conn.Close()
}

// BroadcastToAdmins sends an event to every connected admin session.
func (h *Hub) BroadcastToAdmins(event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(h.admins, event, data)
}

// BroadcastToOrder sends an event to the sessions tracking one order.
func (h *Hub) BroadcastToOrder(orderNumber, event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(h.orders[orderNumber], event, data)
}

func (h *Hub) sendLocked(conns map[*websocket.Conn]struct{}, event string, data interface{}) {
	if len(conns) == 0 {
		return
	}

	payload, err := json.Marshal(Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("ws: failed to marshal %s event: %v", event, err)
		}
		return
	}

	var dead []*websocket.Conn
	for conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		h.dropLocked(conn)
	}
}

// CountAdmins reports the size of the admin group.
func (h *Hub) CountAdmins() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.admins)
}
