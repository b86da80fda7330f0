package websocket

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	clientBuffer    = 16
	broadcastBuffer = 64
)

// Client is one authenticated connection. The connection's writer drains Send.
type Client struct {
	UserID uuid.UUID
	send   chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{UserID: userID, send: make(chan []byte, clientBuffer)}
}

func (c *Client) Send() <-chan []byte {
	return c.send
}

type envelope struct {
	payload    []byte
	recipients []uuid.UUID
}

// Hub routes booking events to every open connection of the participants.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	quit       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, broadcastBuffer),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			log.Infof("Client registered: %s", client.UserID)
		case client := <-h.unregister:
			h.drop(client)
			log.Infof("Client unregistered: %s", client.UserID)
		case msg := <-h.broadcast:
			for _, userID := range msg.recipients {
				h.sendToUser(userID, msg.payload)
			}
		case <-h.quit:
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]struct{})
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

// Register hands client to the hub. After Stop the client is closed straight away so its
// writer exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Publish queues payload for the given users without blocking the caller. Events are
// dropped when the hub is backed up.
func (h *Hub) Publish(payload any, recipients ...uuid.UUID) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("hub encode event: %v", err)
		return
	}

	seen := make(map[uuid.UUID]bool, len(recipients))
	unique := make([]uuid.UUID, 0, len(recipients))
	for _, id := range recipients {
		if id != uuid.Nil && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	select {
	case h.broadcast <- envelope{payload: encoded, recipients: unique}:
	default:
		log.Warnf("⚠️ Event hub is full, dropping event for %d recipient(s)", len(unique))
	}
}

func (h *Hub) sendToUser(userID uuid.UUID, payload []byte) {
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
}
