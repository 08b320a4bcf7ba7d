package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/security"
	"github.com/gorilla/websocket"
)

// Client represents a single connected chat participant: a storefront
// visitor scoped to their session, or a support agent watching all
// conversations.
type Client struct {
	Conn      *websocket.Conn
	SessionID string // conversation the client belongs to; empty for agents
	IsAgent   bool
	Send      chan []byte
}

// inboundMessage pairs a wire message with its sender.
type inboundMessage struct {
	client *Client
	data   []byte
}

// wireMessage is the JSON frame exchanged with clients.
type wireMessage struct {
	Type      string `json:"type"` // "message" or "identify"
	SessionID string `json:"sessionId,omitempty"`
	Name      string `json:"name,omitempty"`
	Body      string `json:"body,omitempty"`
}

// Hub relays messages between visitors and agents and records them in
// the history store. Delivery is non-blocking: a client whose send
// buffer is full misses the frame rather than stalling the hub.
type Hub struct {
	visitors   map[string]map[*Client]bool
	agents     map[*Client]bool
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage
	history    *HistoryStore
	logger     *logging.ChanneledLogger
}

// NewHub creates a hub backed by the given history store.
func NewHub(history *HistoryStore, logger *logging.ChanneledLogger) *Hub {
	return &Hub{
		visitors:   make(map[string]map[*Client]bool),
		agents:     make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundMessage, 64),
		history:    history,
		logger:     logger,
	}
}

// Run starts the hub's main loop and blocks until the context is
// cancelled. This should be run as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.inbound:
			h.dispatch(msg)

		case <-ctx.Done():
			h.logger.Chat().Info("Chat hub stopped")
			return
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for unregistration.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Receive queues a raw frame from a client for dispatch.
func (h *Hub) Receive(client *Client, data []byte) {
	h.inbound <- inboundMessage{client: client, data: data}
}

func (h *Hub) add(client *Client) {
	if client.IsAgent {
		h.agents[client] = true
		h.logger.Chat().Info("Agent connected", "agentCount", len(h.agents))
		return
	}

	if _, ok := h.visitors[client.SessionID]; !ok {
		h.visitors[client.SessionID] = make(map[*Client]bool)
	}
	h.visitors[client.SessionID][client] = true
	h.logger.Chat().Info("Visitor connected", "conversations", len(h.visitors))

	// Replay the transcript so a reconnecting widget catches up.
	if conv, found := h.history.Get(client.SessionID); found {
		for _, msg := range conv.Messages {
			h.send(client, msg)
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client.IsAgent {
		if _, ok := h.agents[client]; ok {
			delete(h.agents, client)
			close(client.Send)
		}
		return
	}

	if clients, ok := h.visitors[client.SessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.Send)
			if len(clients) == 0 {
				delete(h.visitors, client.SessionID)
			}
		}
	}
}

func (h *Hub) dispatch(in inboundMessage) {
	var frame wireMessage
	if err := json.Unmarshal(in.data, &frame); err != nil {
		h.logger.Chat().Warn("Dropping malformed chat frame", "error", err.Error())
		return
	}

	switch frame.Type {
	case "identify":
		if !in.client.IsAgent && frame.Name != "" {
			h.history.SetVisitorName(in.client.SessionID, frame.Name)
		}

	case "message":
		sessionID := in.client.SessionID
		sender := SenderVisitor
		if in.client.IsAgent {
			sessionID = frame.SessionID
			sender = SenderAgent
		}
		if sessionID == "" || frame.Body == "" {
			return
		}

		msg := Message{
			ID:             security.GenerateULID(),
			ConversationID: sessionID,
			Sender:         sender,
			Body:           frame.Body,
			SentAt:         time.Now().UTC(),
		}
		h.history.Append(msg)
		h.relay(msg)
	}
}

// relay delivers a message to the conversation's visitor clients and to
// every connected agent.
func (h *Hub) relay(msg Message) {
	for client := range h.visitors[msg.ConversationID] {
		h.send(client, msg)
	}
	for client := range h.agents {
		h.send(client, msg)
	}
}

func (h *Hub) send(client *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
		// Slow consumer: drop the frame instead of stalling the hub.
	}
}
