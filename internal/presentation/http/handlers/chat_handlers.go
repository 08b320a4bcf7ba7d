package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/messaging/chat"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/middleware"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
	maxFrameSize   = 4096
)

// ChatHandlers owns the websocket endpoints for the support chat and
// the admin view over stored conversations.
type ChatHandlers struct {
	hub      *chat.Hub
	history  *chat.HistoryStore
	logger   *logging.ChanneledLogger
	upgrader websocket.Upgrader
}

// NewChatHandlers creates chat handlers with injected dependencies
func NewChatHandlers(hub *chat.Hub, history *chat.HistoryStore, logger *logging.ChanneledLogger) *ChatHandlers {
	return &ChatHandlers{
		hub:     hub,
		history: history,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == config.StorefrontURL
			},
		},
	}
}

// HandleVisitorWS handles GET /ws/chat - storefront visitor connection
func (h *ChatHandlers) HandleVisitorWS(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Session ID is required"})
		return
	}
	h.serveWS(c, sessionID, false)
}

// HandleAgentWS handles GET /ws/chat/agent - support agent connection.
// Admin auth is enforced by route middleware.
func (h *ChatHandlers) HandleAgentWS(c *gin.Context) {
	h.serveWS(c, "", true)
}

func (h *ChatHandlers) serveWS(c *gin.Context, sessionID string, isAgent bool) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Chat().Error("Websocket upgrade failed", "error", err)
		return
	}

	client := &chat.Client{
		Conn:      conn,
		SessionID: sessionID,
		IsAgent:   isAgent,
		Send:      make(chan []byte, config.ChatSendBufferSize),
	}
	h.hub.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *ChatHandlers) readPump(client *chat.Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxFrameSize)
	client.Conn.SetReadDeadline(time.Now().Add(chatPongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(chatPongWait))
		return nil
	})

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Chat().Debug("Websocket closed unexpectedly", "error", err)
			}
			return
		}
		h.hub.Receive(client, data)
	}
}

func (h *ChatHandlers) writePump(client *chat.Client) {
	ticker := time.NewTicker(chatPingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// GetConversations handles GET /api/v1/admin/chat/conversations
func (h *ChatHandlers) GetConversations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"conversations": h.history.List(),
		"count":         h.history.Count(),
	}})
}

// GetConversation handles GET /api/v1/admin/chat/conversations/:sessionId
func (h *ChatHandlers) GetConversation(c *gin.Context) {
	sessionID := c.Param("sessionId")
	conversation, exists := h.history.Get(sessionID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": conversation})
}
