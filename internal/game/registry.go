package game

import (
	"context"
	"sync"
	"time"

	"github.com/vovavang1094/kinokviz-bot/internal/models"
)

type Config struct {
	MaxPlayers    int
	MinPlayers    int
	AnswerTimeout time.Duration
	GameTTL       time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers:    6,
		MinPlayers:    2,
		AnswerTimeout: 30 * time.Second,
		GameTTL:       2 * time.Hour,
	}
}

// Registry owns every live game session: it indexes sessions by code, maps
// each user to at most one active game and serializes all mutations behind a
// single mutex. AwaitBarrier is the only operation that blocks the caller for
// longer than lock acquisition; the wait itself happens outside the lock.
type Registry struct {
	mu        sync.Mutex
	cfg       Config
	questions []models.Question
	games     map[string]*session
	userGames map[int64]string
	usedCodes map[string]struct{}
	codes     *codeGenerator
	closed    bool

	now func() time.Time
}

func New(cfg Config, questions []models.Question) *Registry {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	if cfg.MinPlayers <= 0 {
		cfg.MinPlayers = DefaultConfig().MinPlayers
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = DefaultConfig().AnswerTimeout
	}
	if cfg.GameTTL <= 0 {
		cfg.GameTTL = DefaultConfig().GameTTL
	}
	return &Registry{
		cfg:       cfg,
		questions: questions,
		games:     make(map[string]*session),
		userGames: make(map[int64]string),
		usedCodes: make(map[string]struct{}),
		codes:     newCodeGenerator(),
		now:       time.Now,
	}
}

// CreateGame registers a new session with the creator as its sole player.
// Expired sessions are swept opportunistically on every create.
func (r *Registry) CreateGame(creatorID int64, creatorName string) (*GameInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}

	r.sweepLocked(r.cfg.GameTTL)

	if _, ok := r.userGames[creatorID]; ok {
		return nil, ErrAlreadyInGame
	}

	code, err := r.codes.generate(func(c string) bool {
		if _, live := r.games[c]; live {
			return true
		}
		_, used := r.usedCodes[c]
		return used
	})
	if err != nil {
		return nil, err
	}

	s := newSession(code, creatorID, creatorName, r.questions, r.now())
	r.games[code] = s
	r.usedCodes[code] = struct{}{}
	r.userGames[creatorID] = code
	return s.info(), nil
}

// JoinGame adds a user to a lobby. Cross-session exclusivity lives here: a
// user can be in at most one live game across the whole registry.
func (r *Registry) JoinGame(code string, userID int64, name string) (*GameInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}

	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		return nil, ErrGameNotFound
	}
	if _, inGame := r.userGames[userID]; inGame {
		return nil, ErrAlreadyInGame
	}
	if s.status != GameStatusLobby {
		return nil, ErrGameStarted
	}
	if s.playerCount() >= r.cfg.MaxPlayers {
		return nil, ErrGameFull
	}

	s.addPlayer(userID, name, r.now())
	r.userGames[userID] = s.code
	return s.info(), nil
}

// StartGame moves the session from lobby to the question loop. Only the
// creator may start, and only with enough players.
func (r *Registry) StartGame(code string, userID int64) (*GameInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}

	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		return nil, ErrGameNotFound
	}
	if s.creatorID != userID {
		return nil, ErrNotCreator
	}
	if s.status != GameStatusLobby {
		return nil, ErrGameStarted
	}
	if s.playerCount() < r.cfg.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	s.status = GameStatusActive
	return s.info(), nil
}

// SubmitAnswer checks the submission against the current question, records
// it and, when it completes the roster, releases the barrier so waiters wake
// immediately instead of running out the timeout.
func (r *Registry) SubmitAnswer(code string, userID int64, questionIndex, choice int) (*AnswerResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}

	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		return nil, ErrGameNotFound
	}
	if s.status != GameStatusActive {
		return nil, ErrNotStarted
	}
	if !s.hasPlayer(userID) {
		return nil, ErrNotInGame
	}
	if questionIndex != s.current {
		return nil, ErrStaleQuestion
	}
	if _, dup := s.answered[userID]; dup {
		return nil, ErrDuplicateAnswer
	}

	q := s.questions[questionIndex]
	if choice < 0 || choice >= len(q.Options) {
		return nil, ErrInvalidChoice
	}

	correct := choice == q.Correct
	s.recordAnswer(userID, questionIndex, choice, correct, r.now())

	all := s.allAnswered()
	if all {
		s.barrier.release()
	}

	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: q.Options[q.Correct],
		Score:         s.scores[userID],
		AllAnswered:   all,
		AnsweredCount: len(s.answered),
		TotalPlayers:  s.playerCount(),
	}, nil
}

// AwaitBarrier blocks until every player answered the current question or the
// timeout elapses. A timeout is not an error: the caller proceeds with a
// partial answered-set. Pass timeout <= 0 for the configured default.
func (r *Registry) AwaitBarrier(ctx context.Context, code string, timeout time.Duration) (*WaitResult, error) {
	if timeout <= 0 {
		timeout = r.cfg.AnswerTimeout
	}

	r.mu.Lock()
	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		r.mu.Unlock()
		return nil, ErrGameNotFound
	}
	if s.allAnswered() {
		r.mu.Unlock()
		return &WaitResult{AllAnswered: true}, nil
	}
	b := s.barrier
	r.mu.Unlock()

	timedOut, err := b.wait(ctx, timeout)
	if err != nil {
		return nil, err
	}

	// Re-check actual state: the game may have been left or ended while we
	// were parked, and a leave can complete the set without a submit.
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok = r.games[NormalizeCode(code)]
	all := ok && s.allAnswered()
	return &WaitResult{AllAnswered: all, TimedOut: timedOut && !all}, nil
}

// AdvanceQuestion moves the session to the next question, clearing the
// answered-set and re-arming the barrier; reaching the end of the question
// list finishes the game.
func (r *Registry) AdvanceQuestion(code string) (*AdvanceResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}

	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		return nil, ErrGameNotFound
	}
	if s.status != GameStatusActive {
		return nil, ErrNotStarted
	}

	s.advance()
	return &AdvanceResult{
		CurrentQuestion: s.current,
		Finished:        s.status == GameStatusFinished,
	}, nil
}

// LeaveGame removes the user from whichever game they are in. Leaving can
// complete the answered-set for the remaining players, so the barrier is
// re-checked; an emptied roster ends the game.
func (r *Registry) LeaveGame(userID int64) (*LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.userGames[userID]
	if !ok {
		return nil, ErrNotInGame
	}
	s := r.games[code]

	var name string
	for _, p := range s.players {
		if p.id == userID {
			name = p.name
			break
		}
	}
	s.removePlayer(userID)
	delete(r.userGames, userID)

	res := &LeaveResult{Code: code, CreatorID: s.creatorID, PlayerName: name}

	if s.playerCount() == 0 {
		r.endLocked(code)
		res.GameEnded = true
		return res, nil
	}
	if s.status == GameStatusActive && s.allAnswered() {
		s.barrier.release()
		res.AllAnswered = true
	}
	return res, nil
}

// Results returns the leaderboard, score descending with ties in join order.
func (r *Registry) Results(code string) ([]PlayerResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s.results(), nil
}

// Info returns a read-only snapshot of the session.
func (r *Registry) Info(code string) (*GameInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.games[NormalizeCode(code)]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s.info(), nil
}

// EndGame removes the session, clears the reverse index for all its players
// and frees the code for reuse.
func (r *Registry) EndGame(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = NormalizeCode(code)
	if _, ok := r.games[code]; !ok {
		return ErrGameNotFound
	}
	r.endLocked(code)
	return nil
}

func (r *Registry) endLocked(code string) {
	s := r.games[code]
	for _, p := range s.players {
		delete(r.userGames, p.id)
	}
	s.barrier.release()
	delete(r.games, code)
	delete(r.usedCodes, code)
}

// Sweep removes every session older than the configured TTL, regardless of
// phase, and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.cfg.GameTTL)
}

func (r *Registry) sweepLocked(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)
	var expired []string
	for code, s := range r.games {
		if s.createdAt.Before(cutoff) {
			expired = append(expired, code)
		}
	}
	for _, code := range expired {
		r.endLocked(code)
	}
	return len(expired)
}

// CurrentGameCode reports which game the user is in, if any.
func (r *Registry) CurrentGameCode(userID int64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.userGames[userID]
	return code, ok
}

// Question exposes a question bank entry so the transport can render it.
func (r *Registry) Question(index int) (models.Question, bool) {
	if index < 0 || index >= len(r.questions) {
		return models.Question{}, false
	}
	return r.questions[index], true
}

func (r *Registry) TotalQuestions() int { return len(r.questions) }

func (r *Registry) MaxPlayers() int { return r.cfg.MaxPlayers }

func (r *Registry) GameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// Close drains the registry: every live game is ended (waking its waiters)
// and further mutations are rejected. The hosting process owns the call.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for code := range r.games {
		r.endLocked(code)
	}
}
