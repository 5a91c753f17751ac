package game

import (
	"sort"
	"time"

	"github.com/vovavang1094/kinokviz-bot/internal/models"
)

const (
	GameStatusLobby    = "lobby"
	GameStatusActive   = "active"
	GameStatusFinished = "finished"
)

type player struct {
	id       int64
	name     string
	joinedAt time.Time
}

// session holds the state of one running game. It is owned by the Registry
// and is only ever touched while the registry mutex is held; the barrier is
// the one piece waiters interact with outside the lock.
type session struct {
	code        string
	creatorID   int64
	creatorName string
	createdAt   time.Time

	players   []*player // insertion order, drives tie-breaking in results
	scores    map[int64]int
	answers   map[int64][]models.AnswerRecord
	current   int
	status    string
	answered  map[int64]struct{}
	barrier   *barrier
	questions []models.Question
}

func newSession(code string, creatorID int64, creatorName string, questions []models.Question, now time.Time) *session {
	s := &session{
		code:        code,
		creatorID:   creatorID,
		creatorName: creatorName,
		createdAt:   now,
		scores:      make(map[int64]int),
		answers:     make(map[int64][]models.AnswerRecord),
		status:      GameStatusLobby,
		answered:    make(map[int64]struct{}),
		barrier:     newBarrier(),
		questions:   questions,
	}
	s.addPlayer(creatorID, creatorName, now)
	return s
}

func (s *session) addPlayer(id int64, name string, now time.Time) {
	s.players = append(s.players, &player{id: id, name: name, joinedAt: now})
	s.scores[id] = 0
	s.answers[id] = nil
}

// removePlayer purges every trace of the player. Returns false if the player
// was not in the roster.
func (s *session) removePlayer(id int64) bool {
	for i, p := range s.players {
		if p.id == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			delete(s.scores, id)
			delete(s.answers, id)
			delete(s.answered, id)
			return true
		}
	}
	return false
}

func (s *session) hasPlayer(id int64) bool {
	for _, p := range s.players {
		if p.id == id {
			return true
		}
	}
	return false
}

func (s *session) playerCount() int { return len(s.players) }

// allAnswered reports whether every remaining player answered the current
// question. Re-checked after each submit and each leave, since a leave can
// shrink the denominator and complete the set.
func (s *session) allAnswered() bool {
	return len(s.players) > 0 && len(s.answered) == len(s.players)
}

// recordAnswer appends the answer and bumps the score for a correct one.
func (s *session) recordAnswer(id int64, question int, choice int, correct bool, now time.Time) {
	s.answers[id] = append(s.answers[id], models.AnswerRecord{
		Question:   question,
		Answer:     s.questions[question].Options[choice],
		Correct:    correct,
		AnsweredAt: now,
	})
	if correct {
		s.scores[id]++
	}
	s.answered[id] = struct{}{}
}

// advance moves to the next question, clearing the answered-set and re-arming
// the barrier. Reaching the end of the bank finishes the game.
func (s *session) advance() {
	s.current++
	s.answered = make(map[int64]struct{})
	s.barrier.reset()
	if s.current >= len(s.questions) {
		s.status = GameStatusFinished
	}
}

func (s *session) info() *GameInfo {
	info := &GameInfo{
		Code:            s.code,
		CreatorID:       s.creatorID,
		CreatorName:     s.creatorName,
		Status:          s.status,
		CurrentQuestion: s.current,
		TotalQuestions:  len(s.questions),
		PlayerCount:     len(s.players),
		AnsweredCount:   len(s.answered),
		CreatedAt:       s.createdAt,
	}
	for _, p := range s.players {
		_, answered := s.answered[p.id]
		info.Players = append(info.Players, PlayerInfo{
			ID:       p.id,
			Name:     p.name,
			Score:    s.scores[p.id],
			Answered: answered,
		})
	}
	return info
}

// results projects the leaderboard: score descending, ties kept in join
// order (stable sort over the insertion-ordered roster).
func (s *session) results() []PlayerResult {
	out := make([]PlayerResult, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, PlayerResult{
			UserID: p.id,
			Name:   p.name,
			Score:  s.scores[p.id],
			Total:  len(s.questions),
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}
