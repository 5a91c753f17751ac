package models

import "time"

// AnswerRecord is one submitted answer in a player's per-game answer log.
// Append-only; purged in full when the player leaves.
type AnswerRecord struct {
	Question   int       `json:"question"`
	Answer     string    `json:"answer"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}
