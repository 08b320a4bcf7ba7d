package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCreatesConversation(t *testing.T) {
	hs := NewHistoryStore(10)

	hs.Append(Message{ID: "m1", ConversationID: "sess-1", Sender: SenderVisitor, Body: "hi", SentAt: time.Now()})
	hs.Append(Message{ID: "m2", ConversationID: "sess-1", Sender: SenderAgent, Body: "hello", SentAt: time.Now()})

	conv, ok := hs.Get("sess-1")
	require.True(t, ok)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, 1, hs.Count())
}

func TestAppendCapsMessageCount(t *testing.T) {
	hs := NewHistoryStore(3)

	for i := 0; i < 5; i++ {
		hs.Append(Message{ID: fmt.Sprintf("m%d", i), ConversationID: "sess-1", Sender: SenderVisitor, Body: "msg", SentAt: time.Now()})
	}

	conv, ok := hs.Get("sess-1")
	require.True(t, ok)
	require.Len(t, conv.Messages, 3)
	// Oldest messages are dropped first.
	assert.Equal(t, "m2", conv.Messages[0].ID)
	assert.Equal(t, "m4", conv.Messages[2].ID)
}

func TestGetReturnsCopies(t *testing.T) {
	hs := NewHistoryStore(10)
	hs.Append(Message{ID: "m1", ConversationID: "sess-1", Sender: SenderVisitor, Body: "original", SentAt: time.Now()})

	conv, ok := hs.Get("sess-1")
	require.True(t, ok)
	conv.Messages[0].Body = "tampered"

	fresh, ok := hs.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, "original", fresh.Messages[0].Body)
}

func TestSetVisitorName(t *testing.T) {
	hs := NewHistoryStore(10)
	hs.Append(Message{ID: "m1", ConversationID: "sess-1", Sender: SenderVisitor, Body: "hi", SentAt: time.Now()})

	hs.SetVisitorName("sess-1", "Leila")

	conv, ok := hs.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, "Leila", conv.VisitorName)
}

func TestCleanupExpiredConversations(t *testing.T) {
	hs := NewHistoryStore(10)
	hs.Append(Message{ID: "m1", ConversationID: "sess-old", Sender: SenderVisitor, Body: "hi", SentAt: time.Now()})

	assert.Zero(t, hs.CleanupExpired(time.Hour))

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, hs.CleanupExpired(0))
	assert.Zero(t, hs.Count())
}
