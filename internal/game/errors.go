package game

import "errors"

// Sentinel errors returned by Registry operations. The transport layer maps
// these to user-facing messages; none of them are retried internally.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrAlreadyInGame    = errors.New("user is already in a game")
	ErrGameStarted      = errors.New("game already started")
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("user is not in a game")
	ErrNotCreator       = errors.New("only the creator can start the game")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotStarted       = errors.New("game not started")
	ErrStaleQuestion    = errors.New("answer references a past question")
	ErrDuplicateAnswer  = errors.New("already answered this question")
	ErrInvalidChoice    = errors.New("invalid answer choice")
	ErrCodeSpace        = errors.New("could not allocate a unique game code")
	ErrRegistryClosed   = errors.New("registry is shut down")
)
