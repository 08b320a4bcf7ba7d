// Package chat provides the live-chat support hub backing the
// storefront chat widget and the admin support console.
package chat

import (
	"sync"
	"time"
)

// Sender identifies which side of a conversation produced a message.
type Sender string

const (
	SenderVisitor Sender = "visitor"
	SenderAgent   Sender = "agent"
)

// Message is one chat message within a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sentAt"`
}

// Conversation is the in-memory transcript for one visitor session.
type Conversation struct {
	SessionID    string    `json:"sessionId"`
	VisitorName  string    `json:"visitorName"`
	Messages     []Message `json:"messages"`
	LastActivity time.Time `json:"lastActivity"`
}

// HistoryStore keeps conversation transcripts in memory with TTL
// eviction. Transcripts are support context, not records: losing them on
// restart is acceptable.
type HistoryStore struct {
	conversations map[string]*Conversation
	maxMessages   int
	mu            sync.RWMutex
}

// NewHistoryStore creates a history store capping each transcript at
// maxMessages.
func NewHistoryStore(maxMessages int) *HistoryStore {
	return &HistoryStore{
		conversations: make(map[string]*Conversation),
		maxMessages:   maxMessages,
	}
}

// Append records a message under its conversation, creating the
// conversation on first contact. Oldest messages roll off past the cap.
func (hs *HistoryStore) Append(msg Message) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	conv, exists := hs.conversations[msg.ConversationID]
	if !exists {
		conv = &Conversation{
			SessionID: msg.ConversationID,
			Messages:  []Message{},
		}
		hs.conversations[msg.ConversationID] = conv
	}

	conv.Messages = append(conv.Messages, msg)
	if len(conv.Messages) > hs.maxMessages {
		conv.Messages = conv.Messages[len(conv.Messages)-hs.maxMessages:]
	}
	conv.LastActivity = msg.SentAt
}

// SetVisitorName attaches a display name to a conversation.
func (hs *HistoryStore) SetVisitorName(sessionID, name string) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if conv, exists := hs.conversations[sessionID]; exists {
		conv.VisitorName = name
	}
}

// Get returns a copy of the transcript for a session.
func (hs *HistoryStore) Get(sessionID string) (*Conversation, bool) {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	conv, exists := hs.conversations[sessionID]
	if !exists {
		return nil, false
	}

	messages := make([]Message, len(conv.Messages))
	copy(messages, conv.Messages)
	return &Conversation{
		SessionID:    conv.SessionID,
		VisitorName:  conv.VisitorName,
		Messages:     messages,
		LastActivity: conv.LastActivity,
	}, true
}

// List returns copies of all conversations in arbitrary order; sorting
// is left to the caller.
func (hs *HistoryStore) List() []*Conversation {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	result := make([]*Conversation, 0, len(hs.conversations))
	for _, conv := range hs.conversations {
		messages := make([]Message, len(conv.Messages))
		copy(messages, conv.Messages)
		result = append(result, &Conversation{
			SessionID:    conv.SessionID,
			VisitorName:  conv.VisitorName,
			Messages:     messages,
			LastActivity: conv.LastActivity,
		})
	}
	return result
}

// Count returns the number of retained conversations.
func (hs *HistoryStore) Count() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return len(hs.conversations)
}

// CleanupExpired evicts conversations idle for longer than ttl and
// returns the number evicted.
func (hs *HistoryStore) CleanupExpired(ttl time.Duration) int {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)
	evicted := 0
	for sessionID, conv := range hs.conversations {
		if conv.LastActivity.Before(cutoff) {
			delete(hs.conversations, sessionID)
			evicted++
		}
	}
	return evicted
}
