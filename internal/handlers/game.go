package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/vovavang1094/kinokviz-bot/internal/game"
	"github.com/vovavang1094/kinokviz-bot/internal/services"
	"github.com/vovavang1094/kinokviz-bot/internal/ws"

	"github.com/gin-gonic/gin"
)

// GameHandler is thin glue: it converts HTTP requests into registry
// operations, renders the structured outcomes and broadcasts events over the
// hub. All game rules live in the registry.
type GameHandler struct {
	games   *game.Registry
	hub     *ws.Hub
	history *services.HistoryService
}

func NewGameHandler(games *game.Registry, hub *ws.Hub, history *services.HistoryService) *GameHandler {
	return &GameHandler{games: games, hub: hub, history: history}
}

type CreateGameRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required,min=1,max=100"`
}

type JoinGameRequest struct {
	Code     string `json:"code" binding:"required"`
	UserID   int64  `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required,min=1,max=100"`
}

type StartGameRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

type SubmitAnswerRequest struct {
	UserID   int64 `json:"user_id" binding:"required"`
	Question *int  `json:"question" binding:"required"`
	Answer   *int  `json:"answer" binding:"required"`
}

type LeaveGameRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	info, err := h.games.CreateGame(req.UserID, req.Username)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, info)
}

func (h *GameHandler) JoinGame(c *gin.Context) {
	var req JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	info, err := h.games.JoinGame(req.Code, req.UserID, req.Username)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(info.Code, ws.Event{
		Type: ws.EventPlayerJoined,
		Data: gin.H{"name": req.Username, "player_count": info.PlayerCount},
	})

	c.JSON(http.StatusOK, info)
}

func (h *GameHandler) StartGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	info, err := h.games.StartGame(c.Param("code"), req.UserID)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(info.Code, ws.Event{Type: ws.EventGameStarted, Data: info})

	c.JSON(http.StatusOK, info)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	info, err := h.games.Info(c.Param("code"))
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetCurrentQuestion returns the question players should be answering,
// without the correct index.
func (h *GameHandler) GetCurrentQuestion(c *gin.Context) {
	info, err := h.games.Info(c.Param("code"))
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	q, ok := h.games.Question(info.CurrentQuestion)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no current question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":   info.CurrentQuestion,
		"text":    q.Text,
		"options": q.Options,
		"total":   info.TotalQuestions,
	})
}

func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	code := game.NormalizeCode(c.Param("code"))
	result, err := h.games.SubmitAnswer(code, req.UserID, *req.Question, *req.Answer)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(code, ws.Event{
		Type: ws.EventAnswerReceived,
		Data: gin.H{
			"answered_count": result.AnsweredCount,
			"total_players":  result.TotalPlayers,
			"all_answered":   result.AllAnswered,
		},
	})

	c.JSON(http.StatusOK, result)
}

// WaitForPlayers suspends the request until everyone answered or the timeout
// elapses. A timeout is a normal outcome, not an error.
func (h *GameHandler) WaitForPlayers(c *gin.Context) {
	var timeout time.Duration
	if raw := c.Query("timeout"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid timeout"})
			return
		}
		timeout = time.Duration(secs) * time.Second
	}

	result, err := h.games.AwaitBarrier(c.Request.Context(), c.Param("code"), timeout)
	if err != nil {
		if c.Request.Context().Err() != nil {
			// Client went away; nothing to render.
			return
		}
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) NextQuestion(c *gin.Context) {
	code := game.NormalizeCode(c.Param("code"))

	result, err := h.games.AdvanceQuestion(code)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	if result.Finished {
		h.hub.Broadcast(code, ws.Event{Type: ws.EventGameFinished, Data: result})
		h.recordFinished(code)
	} else {
		h.hub.Broadcast(code, ws.Event{Type: ws.EventQuestionAdvanced, Data: result})
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) GetResults(c *gin.Context) {
	results, err := h.games.Results(c.Param("code"))
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *GameHandler) EndGame(c *gin.Context) {
	code := c.Param("code")
	if err := h.games.EndGame(code); err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.CloseGame(game.NormalizeCode(code))
	c.JSON(http.StatusOK, MessageResponse{Message: "game ended"})
}

func (h *GameHandler) LeaveGame(c *gin.Context) {
	var req LeaveGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.games.LeaveGame(req.UserID)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	if result.GameEnded {
		h.hub.CloseGame(result.Code)
	} else {
		h.hub.Broadcast(result.Code, ws.Event{
			Type: ws.EventPlayerLeft,
			Data: gin.H{"name": result.PlayerName, "all_answered": result.AllAnswered},
		})
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) GetPlayerHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "history is not configured"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid player id"})
		return
	}

	entries, err := h.history.PlayerHistory(userID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Cleanup sweeps expired games on demand. Gated by the API-key middleware.
func (h *GameHandler) Cleanup(c *gin.Context) {
	removed := h.games.Sweep()
	c.JSON(http.StatusOK, gin.H{
		"removed":   removed,
		"remaining": h.games.GameCount(),
	})
}

func (h *GameHandler) recordFinished(code string) {
	if h.history == nil {
		return
	}
	results, err := h.games.Results(code)
	if err != nil {
		return
	}
	if err := h.history.RecordGame(game.NormalizeCode(code), h.games.TotalQuestions(), results); err != nil {
		log.Printf("history: %v", err)
	}
}
