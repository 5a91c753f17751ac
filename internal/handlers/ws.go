package handlers

import (
	"log"
	"net/http"

	"github.com/vovavang1094/kinokviz-bot/internal/game"
	"github.com/vovavang1094/kinokviz-bot/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	games *game.Registry
	hub   *ws.Hub
}

func NewWSHandler(games *game.Registry, hub *ws.Hub) *WSHandler {
	return &WSHandler{games: games, hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket subscribes a client to a game's event stream. The
// connection is read-drained only; clients act through the HTTP API.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	code := game.NormalizeCode(c.Param("code"))
	if _, err := h.games.Info(code); err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(code, conn)
	defer h.hub.RemoveConnection(code, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
