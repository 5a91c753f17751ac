package game

import "time"

type PlayerInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Answered bool   `json:"answered"`
}

type GameInfo struct {
	Code            string       `json:"code"`
	CreatorID       int64        `json:"creator_id"`
	CreatorName     string       `json:"creator"`
	Players         []PlayerInfo `json:"players"`
	PlayerCount     int          `json:"player_count"`
	Status          string       `json:"status"`
	CurrentQuestion int          `json:"current_question"`
	TotalQuestions  int          `json:"total_questions"`
	AnsweredCount   int          `json:"answered_count"`
	CreatedAt       time.Time    `json:"created_at"`
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
	AllAnswered   bool   `json:"all_answered"`
	AnsweredCount int    `json:"answered_count"`
	TotalPlayers  int    `json:"total_players"`
}

type WaitResult struct {
	AllAnswered bool `json:"all_answered"`
	TimedOut    bool `json:"timed_out"`
}

type AdvanceResult struct {
	CurrentQuestion int  `json:"current_question"`
	Finished        bool `json:"finished"`
}

type PlayerResult struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Total  int    `json:"total"`
}

// LeaveResult tells the transport what happened so it can notify the right
// people; the core itself never sends anything.
type LeaveResult struct {
	Code        string `json:"code"`
	CreatorID   int64  `json:"creator_id"`
	PlayerName  string `json:"player_name"`
	GameEnded   bool   `json:"game_ended"`
	AllAnswered bool   `json:"all_answered"`
}
