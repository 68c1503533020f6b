package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/drooschuck/funwithflag/internal/quiz"
	"github.com/drooschuck/funwithflag/internal/ws"
)

type WSHandler struct {
	controller *quiz.Controller
	hub        *ws.Hub
}

func NewWSHandler(controller *quiz.Controller, hub *ws.Hub) *WSHandler {
	return &WSHandler{controller: controller, hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      Subscribe to session updates
// @Description  Upgrade to a WebSocket and receive a state snapshot frame on every session change
// @Tags         websocket
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Router       /api/v1/sessions/{id}/ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.controller.Get(sessionID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(sessionID, conn)
	defer h.hub.RemoveConnection(sessionID, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
