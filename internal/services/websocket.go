package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tucktruck/tucktruck-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role models.Role
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	mu   sync.Mutex
	subs map[uint]bool // booking ids this client follows
}

// Subscribe registers interest in a booking's updates.
func (c *Client) Subscribe(bookingID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[bookingID] = true
}

// Unsubscribe removes interest in a booking's updates.
func (c *Client) Unsubscribe(bookingID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, bookingID)
}

func (c *Client) subscribed(bookingID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs[bookingID]
}

// Hub maintains the set of active clients and fans out booking events and
// location samples. Samples reach each subscriber in the order they were
// handed to the hub, which is the order they were persisted.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d (%s) connected", client.ID, client.Role)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)
		}
	}
}

func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		// Client's send channel is full, skip
		log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			h.send(client, message)
		}
	}
}

// BroadcastToRole sends a message to all users with a specific role
func (h *Hub) BroadcastToRole(role models.Role, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.Role == role {
			h.send(client, message)
		}
	}
}

// BroadcastToBooking sends a message to every client subscribed to a booking
func (h *Hub) BroadcastToBooking(bookingID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.subscribed(bookingID) {
			h.send(client, message)
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type subscribeRequest struct {
	BookingID uint `json:"bookingId"`
}

func marshalMessage(msgType string, data interface{}) ([]byte, bool) {
	payload, err := json.Marshal(WebSocketMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msgType, err)
		return nil, false
	}
	return payload, true
}

// BookingCreated alerts online drivers and admins that a new booking is
// waiting for assignment.
func (h *Hub) BookingCreated(booking models.Booking) {
	payload, ok := marshalMessage("new_booking_request", booking)
	if !ok {
		return
	}
	h.BroadcastToRole(models.RoleDriver, payload)
	h.BroadcastToRole(models.RoleAdmin, payload)
}

// BookingUpdated pushes a status change to the customer, the assigned
// driver and admins.
func (h *Hub) BookingUpdated(booking models.Booking) {
	payload, ok := marshalMessage("booking_status_update", booking)
	if !ok {
		return
	}
	h.BroadcastToUser(booking.CustomerID, payload)
	if booking.DriverID != nil {
		h.BroadcastToUser(*booking.DriverID, payload)
	}
	h.BroadcastToRole(models.RoleAdmin, payload)
}

// PublishLocation pushes a persisted location sample to the booking's
// subscribers.
func (h *Hub) PublishLocation(_ context.Context, sample models.Location) {
	payload, ok := marshalMessage("driver_location_update", sample)
	if !ok {
		return
	}
	h.BroadcastToBooking(sample.BookingID, payload)
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role models.Role) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
		subs: make(map[uint]bool),
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}

		switch wsMessage.Type {
		case "subscribe_booking":
			if req, ok := decodeSubscribe(wsMessage.Data); ok {
				c.Subscribe(req.BookingID)
			}
		case "unsubscribe_booking":
			if req, ok := decodeSubscribe(wsMessage.Data); ok {
				c.Unsubscribe(req.BookingID)
			}
		}
	}
}

func decodeSubscribe(data interface{}) (subscribeRequest, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return subscribeRequest{}, false
	}
	var req subscribeRequest
	if err := json.Unmarshal(raw, &req); err != nil || req.BookingID == 0 {
		return subscribeRequest{}, false
	}
	return req, true
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
