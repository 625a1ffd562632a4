package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/realtime"
	"teamhub/internal/services"
)

type ChatHandler struct {
	service *services.ChatService
	hub     *realtime.Hub
}

func NewChatHandler(service *services.ChatService, hub *realtime.Hub) *ChatHandler {
	return &ChatHandler{service: service, hub: hub}
}

// POST /chat/rooms
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	caller := getCaller(c)
	var req struct {
		Name           string  `json:"name"`
		IsGroup        bool    `json:"is_group"`
		ParticipantIDs []int64 `json:"participant_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[chat][createRoom][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), caller.ID, req.Name, req.IsGroup, req.ParticipantIDs)
	if err != nil {
		respondError(c, "[chat][createRoom]", err)
		return
	}
	log.Printf("[chat][createRoom][ok] id=%d group=%v by=%d", room.ID, req.IsGroup, caller.ID)
	c.JSON(http.StatusCreated, room)
}

// GET /chat/rooms — most recently active first.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	caller := getCaller(c)
	rooms, err := h.service.ListRooms(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, "[chat][listRooms]", err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /chat/rooms/:id — fetching the room marks it read for the caller.
// Messages come back in chronological order; ?before=<messageID> pages
// older history.
func (h *ChatHandler) GetRoom(c *gin.Context) {
	caller := getCaller(c)
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	before := int64(queryInt(c, "before", 0))
	limit := queryInt(c, "limit", 0)

	view, err := h.service.FetchRoom(c.Request.Context(), caller.ID, roomID, limit, before)
	if err != nil {
		respondError(c, "[chat][getRoom]", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /chat/rooms/:id/messages
func (h *ChatHandler) PostMessage(c *gin.Context) {
	caller := getCaller(c)
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.service.PostMessage(c.Request.Context(), caller.ID, roomID, req.Content)
	if err != nil {
		respondError(c, "[chat][postMessage]", err)
		return
	}
	log.Printf("[chat][postMessage][ok] room=%d msg=%d by=%d", roomID, msg.ID, caller.ID)
	c.JSON(http.StatusCreated, msg)
}

// GET /chat/stream — push-only WebSocket; the server sends events, client
// frames are consumed only to answer pings.
func (h *ChatHandler) Stream(c *gin.Context) {
	caller := getCaller(c)

	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Printf("[chat][stream][err] upgrade: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
		return
	}
	h.hub.Register(caller.ID, conn)
	log.Printf("[chat][stream][ok] user=%d connected", caller.ID)

	defer func() {
		h.hub.Unregister(caller.ID, conn)
		_ = conn.Close()
		log.Printf("[chat][stream] user=%d disconnected", caller.ID)
	}()
	_ = conn.ServeControl()
}
