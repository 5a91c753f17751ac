package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is what the transport broadcasts to connected clients after a core
// operation; the game core itself never writes to a socket.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventPlayerJoined     = "player_joined"
	EventPlayerLeft       = "player_left"
	EventGameStarted      = "game_started"
	EventAnswerReceived   = "answer_received"
	EventQuestionAdvanced = "question_advanced"
	EventGameFinished     = "game_finished"
	EventGameEnded        = "game_ended"
)

// Hub tracks websocket connections per game code.
type Hub struct {
	mu    sync.RWMutex
	games map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		games: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.games[code] == nil {
		h.games[code] = make(map[*websocket.Conn]bool)
	}
	h.games[code][conn] = true
	log.Printf("ws: client connected to game %s (total: %d)", code, len(h.games[code]))
}

func (h *Hub) RemoveConnection(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.games[code]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.games, code)
		}
		log.Printf("ws: client disconnected from game %s", code)
	}
}

func (h *Hub) Broadcast(code string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.games[code]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}

// CloseGame tells clients the game is gone and drops their connections.
func (h *Hub) CloseGame(code string) {
	h.Broadcast(code, Event{Type: EventGameEnded, Data: map[string]string{"code": code}})

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.games[code] {
		conn.Close()
	}
	delete(h.games, code)
}
