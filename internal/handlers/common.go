package handlers

import (
	"errors"
	"net/http"

	"github.com/vovavang1094/kinokviz-bot/internal/game"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// statusForError maps core sentinel errors to HTTP statuses so clients can
// tell "not found" from "conflict" from "bad request".
func statusForError(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrNotInGame):
		return http.StatusNotFound
	case errors.Is(err, game.ErrAlreadyInGame),
		errors.Is(err, game.ErrGameStarted),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrDuplicateAnswer),
		errors.Is(err, game.ErrCodeSpace):
		return http.StatusConflict
	case errors.Is(err, game.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, game.ErrRegistryClosed):
		return http.StatusServiceUnavailable
	default:
		// ErrNotStarted, ErrStaleQuestion, ErrNotEnoughPlayers, ErrInvalidChoice
		return http.StatusBadRequest
	}
}
