package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vovavang1094/kinokviz-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			Text:    fmt.Sprintf("question %d", i),
			Options: []string{"right", "wrong", "also wrong"},
			Correct: 0,
		}
	}
	return qs
}

func testRegistry(t *testing.T, questions int) *Registry {
	t.Helper()
	return New(DefaultConfig(), testQuestions(questions))
}

// startTwo creates a game with players 1 and 2 and starts it.
func startTwo(t *testing.T, r *Registry) string {
	t.Helper()
	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	_, err = r.JoinGame(info.Code, 2, "bob")
	require.NoError(t, err)
	_, err = r.StartGame(info.Code, 1)
	require.NoError(t, err)
	return info.Code
}

func TestCreateGameCodesDistinct(t *testing.T) {
	r := testRegistry(t, 3)

	seen := make(map[string]struct{})
	for i := int64(1); i <= 50; i++ {
		info, err := r.CreateGame(i, fmt.Sprintf("user%d", i))
		require.NoError(t, err)
		_, dup := seen[info.Code]
		require.False(t, dup, "duplicate live code %s", info.Code)
		seen[info.Code] = struct{}{}
	}
}

func TestCreateGameCreatorIsSolePlayer(t *testing.T) {
	r := testRegistry(t, 3)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, info.PlayerCount)
	assert.Equal(t, "alice", info.Players[0].Name)
	assert.Equal(t, GameStatusLobby, info.Status)

	code, ok := r.CurrentGameCode(1)
	assert.True(t, ok)
	assert.Equal(t, info.Code, code)
}

func TestCreateGameWhileInGame(t *testing.T) {
	r := testRegistry(t, 3)

	_, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	_, err = r.CreateGame(1, "alice")
	assert.ErrorIs(t, err, ErrAlreadyInGame)
}

func TestJoinGameCaseInsensitive(t *testing.T) {
	r := testRegistry(t, 3)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	lower := " " + toLower(info.Code) + " "
	joined, err := r.JoinGame(lower, 2, "bob")
	require.NoError(t, err)
	assert.Equal(t, info.Code, joined.Code)
}

func toLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func TestJoinGameFailures(t *testing.T) {
	r := testRegistry(t, 3)

	_, err := r.JoinGame("NOSUCH", 2, "bob")
	assert.ErrorIs(t, err, ErrGameNotFound)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	// Cross-session exclusivity: creator of another game cannot join.
	_, err = r.CreateGame(9, "zoe")
	require.NoError(t, err)
	_, err = r.JoinGame(info.Code, 9, "zoe")
	assert.ErrorIs(t, err, ErrAlreadyInGame)

	// Started games reject joins.
	_, err = r.JoinGame(info.Code, 2, "bob")
	require.NoError(t, err)
	_, err = r.StartGame(info.Code, 1)
	require.NoError(t, err)
	_, err = r.JoinGame(info.Code, 3, "carol")
	assert.ErrorIs(t, err, ErrGameStarted)
}

func TestJoinGameCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPlayers = 3
	r := New(cfg, testQuestions(3))

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	_, err = r.JoinGame(info.Code, 2, "bob")
	require.NoError(t, err)
	_, err = r.JoinGame(info.Code, 3, "carol")
	require.NoError(t, err)

	_, err = r.JoinGame(info.Code, 4, "dave")
	assert.ErrorIs(t, err, ErrGameFull)

	// The rejected join must not have touched the roster.
	after, err := r.Info(info.Code)
	require.NoError(t, err)
	assert.Equal(t, 3, after.PlayerCount)
	_, ok := r.CurrentGameCode(4)
	assert.False(t, ok)
}

func TestStartGameRules(t *testing.T) {
	r := testRegistry(t, 3)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	_, err = r.StartGame(info.Code, 1)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = r.JoinGame(info.Code, 2, "bob")
	require.NoError(t, err)

	_, err = r.StartGame(info.Code, 2)
	assert.ErrorIs(t, err, ErrNotCreator)

	started, err := r.StartGame(info.Code, 1)
	require.NoError(t, err)
	assert.Equal(t, GameStatusActive, started.Status)

	_, err = r.StartGame(info.Code, 1)
	assert.ErrorIs(t, err, ErrGameStarted)
}

func TestSubmitAnswerBeforeStart(t *testing.T) {
	r := testRegistry(t, 3)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	_, err = r.SubmitAnswer(info.Code, 1, 0, 0)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSubmitAnswerStaleQuestion(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 1, 0)
	assert.ErrorIs(t, err, ErrStaleQuestion)
}

func TestSubmitAnswerDuplicate(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	first, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	assert.True(t, first.Correct)
	assert.Equal(t, 1, first.Score)

	_, err = r.SubmitAnswer(code, 1, 0, 1)
	assert.ErrorIs(t, err, ErrDuplicateAnswer)

	// Score changed exactly once.
	info, err := r.Info(code)
	require.NoError(t, err)
	for _, p := range info.Players {
		if p.ID == 1 {
			assert.Equal(t, 1, p.Score)
		}
	}
}

func TestSubmitAnswerInvalidChoice(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 0, 99)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, err = r.SubmitAnswer(code, 1, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestSubmitAnswerScoring(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	right, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	assert.True(t, right.Correct)
	assert.Equal(t, "right", right.CorrectAnswer)
	assert.Equal(t, 1, right.Score)

	wrong, err := r.SubmitAnswer(code, 2, 0, 1)
	require.NoError(t, err)
	assert.False(t, wrong.Correct)
	assert.Equal(t, "right", wrong.CorrectAnswer)
	assert.Equal(t, 0, wrong.Score)
}

func TestLastSubmitReportsAllAnswered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPlayers = 4
	r := New(cfg, testQuestions(3))

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	code := info.Code
	_, err = r.JoinGame(code, 2, "bob")
	require.NoError(t, err)
	_, err = r.JoinGame(code, 3, "carol")
	require.NoError(t, err)
	_, err = r.StartGame(code, 1)
	require.NoError(t, err)

	for _, id := range []int64{1, 2} {
		res, err := r.SubmitAnswer(code, id, 0, 0)
		require.NoError(t, err)
		assert.False(t, res.AllAnswered, "player %d cannot complete the set", id)
	}

	last, err := r.SubmitAnswer(code, 3, 0, 0)
	require.NoError(t, err)
	assert.True(t, last.AllAnswered)
	assert.Equal(t, 3, last.AnsweredCount)
	assert.Equal(t, 3, last.TotalPlayers)
}

func TestConcurrentSubmitsSingleCompletion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPlayers = 6
	r := New(cfg, testQuestions(1))

	info, err := r.CreateGame(1, "p1")
	require.NoError(t, err)
	code := info.Code
	for id := int64(2); id <= 6; id++ {
		_, err = r.JoinGame(code, id, fmt.Sprintf("p%d", id))
		require.NoError(t, err)
	}
	_, err = r.StartGame(code, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	completions := make(chan bool, 6)
	for id := int64(1); id <= 6; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			res, err := r.SubmitAnswer(code, id, 0, 0)
			require.NoError(t, err)
			completions <- res.AllAnswered
		}(id)
	}
	wg.Wait()
	close(completions)

	// Exactly one submission observes the completed roster.
	count := 0
	for all := range completions {
		if all {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAwaitBarrierReleasedBySubmissions(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	const waiters = 3
	done := make(chan *WaitResult, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			res, err := r.AwaitBarrier(context.Background(), code, 10*time.Second)
			require.NoError(t, err)
			done <- res
		}()
	}

	time.Sleep(20 * time.Millisecond)
	_, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 2, 0, 1)
	require.NoError(t, err)

	for i := 0; i < waiters; i++ {
		select {
		case res := <-done:
			assert.True(t, res.AllAnswered)
			assert.False(t, res.TimedOut)
		case <-time.After(time.Second):
			t.Fatal("waiter not released after all answers came in")
		}
	}
}

func TestAwaitBarrierImmediateWhenComplete(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 2, 0, 0)
	require.NoError(t, err)

	start := time.Now()
	res, err := r.AwaitBarrier(context.Background(), code, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, res.AllAnswered)
	assert.False(t, res.TimedOut)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitBarrierTimeout(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)

	start := time.Now()
	res, err := r.AwaitBarrier(context.Background(), code, 60*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
	assert.True(t, res.TimedOut)
	assert.False(t, res.AllAnswered)
}

func TestAwaitBarrierUnknownGame(t *testing.T) {
	r := testRegistry(t, 3)
	_, err := r.AwaitBarrier(context.Background(), "NOSUCH", time.Second)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestAdvanceClearsAnsweredSet(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 2, 0, 0)
	require.NoError(t, err)

	adv, err := r.AdvanceQuestion(code)
	require.NoError(t, err)
	assert.Equal(t, 1, adv.CurrentQuestion)
	assert.False(t, adv.Finished)

	// The same players can answer the next question.
	res, err := r.SubmitAnswer(code, 1, 1, 0)
	require.NoError(t, err)
	assert.False(t, res.AllAnswered)
	assert.Equal(t, 1, res.AnsweredCount)
}

func TestAdvanceRearmsBarrier(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 2, 0, 0)
	require.NoError(t, err)

	_, err = r.AdvanceQuestion(code)
	require.NoError(t, err)

	// A wait on the new question must block again, not see the stale signal.
	res, err := r.AwaitBarrier(context.Background(), code, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.False(t, res.AllAnswered)
}

func TestAdvancePastLastQuestionFinishes(t *testing.T) {
	r := testRegistry(t, 2)
	code := startTwo(t, r)

	adv, err := r.AdvanceQuestion(code)
	require.NoError(t, err)
	assert.False(t, adv.Finished)

	adv, err = r.AdvanceQuestion(code)
	require.NoError(t, err)
	assert.True(t, adv.Finished)

	info, err := r.Info(code)
	require.NoError(t, err)
	assert.Equal(t, GameStatusFinished, info.Status)
}

func TestResultsSortedWithStableTies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPlayers = 4
	r := New(cfg, testQuestions(1))

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	code := info.Code
	_, err = r.JoinGame(code, 2, "bob")
	require.NoError(t, err)
	_, err = r.JoinGame(code, 3, "carol")
	require.NoError(t, err)
	_, err = r.StartGame(code, 1)
	require.NoError(t, err)

	// bob scores, alice and carol tie at zero.
	_, err = r.SubmitAnswer(code, 1, 0, 1)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 2, 0, 0)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 3, 0, 2)
	require.NoError(t, err)

	_, err = r.AdvanceQuestion(code)
	require.NoError(t, err)

	results, err := r.Results(code)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "bob", results[0].Name)
	// Tie between alice and carol keeps join order.
	assert.Equal(t, "alice", results[1].Name)
	assert.Equal(t, "carol", results[2].Name)
	assert.Equal(t, 1, results[0].Total)
}

func TestLeaveReleasesBarrier(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)

	done := make(chan *WaitResult, 1)
	go func() {
		res, err := r.AwaitBarrier(context.Background(), code, 10*time.Second)
		require.NoError(t, err)
		done <- res
	}()
	time.Sleep(20 * time.Millisecond)

	// Bob leaves without answering; alice is now the whole roster and has
	// answered, so the barrier must release immediately.
	leave, err := r.LeaveGame(2)
	require.NoError(t, err)
	assert.True(t, leave.AllAnswered)

	select {
	case res := <-done:
		assert.True(t, res.AllAnswered)
		assert.False(t, res.TimedOut)
	case <-time.After(time.Second):
		t.Fatal("barrier not released by leave")
	}
}

func TestLeaveLastPlayerEndsGame(t *testing.T) {
	r := testRegistry(t, 3)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	res, err := r.LeaveGame(1)
	require.NoError(t, err)
	assert.True(t, res.GameEnded)

	_, err = r.Info(info.Code)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, ok := r.CurrentGameCode(1)
	assert.False(t, ok)
}

func TestLeavePurgesPlayerState(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	_, err := r.SubmitAnswer(code, 2, 0, 0)
	require.NoError(t, err)

	_, err = r.LeaveGame(2)
	require.NoError(t, err)

	info, err := r.Info(code)
	require.NoError(t, err)
	assert.Equal(t, 1, info.PlayerCount)
	assert.Equal(t, 0, info.AnsweredCount, "answered-set must not keep the leaver")

	// The leaver can join elsewhere right away.
	other, err := r.CreateGame(2, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, code, other.Code)
}

func TestLeaveNotInGame(t *testing.T) {
	r := testRegistry(t, 3)
	_, err := r.LeaveGame(404)
	assert.ErrorIs(t, err, ErrNotInGame)
}

func TestEndGameFreesCodeAndPlayers(t *testing.T) {
	r := testRegistry(t, 3)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	_, err = r.JoinGame(info.Code, 2, "bob")
	require.NoError(t, err)

	require.NoError(t, r.EndGame(info.Code))
	assert.ErrorIs(t, r.EndGame(info.Code), ErrGameNotFound)

	_, ok := r.CurrentGameCode(1)
	assert.False(t, ok)
	_, ok = r.CurrentGameCode(2)
	assert.False(t, ok)

	// Both users are free again.
	_, err = r.CreateGame(1, "alice")
	require.NoError(t, err)
	_, err = r.CreateGame(2, "bob")
	require.NoError(t, err)
}

func TestEndGameReleasesWaiters(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.AwaitBarrier(context.Background(), code, 10*time.Second)
		require.NoError(t, err)
	}()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, r.EndGame(code))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ending the game left a waiter parked")
	}
}

func TestSweepRemovesExpiredGames(t *testing.T) {
	r := testRegistry(t, 3)

	current := time.Now()
	r.now = func() time.Time { return current }

	old, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	current = current.Add(time.Hour)
	fresh, err := r.CreateGame(2, "bob")
	require.NoError(t, err)

	current = current.Add(90 * time.Minute) // old is 2.5h, fresh is 1.5h
	removed := r.Sweep()
	assert.Equal(t, 1, removed)

	_, err = r.Info(old.Code)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = r.Info(fresh.Code)
	assert.NoError(t, err)
}

func TestCreateGameSweepsOpportunistically(t *testing.T) {
	r := testRegistry(t, 3)

	current := time.Now()
	r.now = func() time.Time { return current }

	old, err := r.CreateGame(1, "alice")
	require.NoError(t, err)

	current = current.Add(3 * time.Hour)
	_, err = r.CreateGame(2, "bob")
	require.NoError(t, err)

	_, err = r.Info(old.Code)
	assert.ErrorIs(t, err, ErrGameNotFound)

	// The expired game's creator was freed by the sweep and can create again.
	_, err = r.CreateGame(1, "alice")
	require.NoError(t, err)
}

func TestRegistryClose(t *testing.T) {
	r := testRegistry(t, 3)
	code := startTwo(t, r)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.AwaitBarrier(context.Background(), code, 10*time.Second)
	}()
	time.Sleep(20 * time.Millisecond)

	r.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close left a waiter parked")
	}

	_, err := r.CreateGame(99, "late")
	assert.ErrorIs(t, err, ErrRegistryClosed)
	assert.Equal(t, 0, r.GameCount())
}

// Full play-through: alice answers correctly throughout, bob does not, and
// the final leaderboard reflects it.
func TestFullGameScenario(t *testing.T) {
	r := testRegistry(t, 2)

	info, err := r.CreateGame(1, "alice")
	require.NoError(t, err)
	code := info.Code

	_, err = r.JoinGame(code, 2, "bob")
	require.NoError(t, err)
	started, err := r.StartGame(code, 1)
	require.NoError(t, err)
	require.Equal(t, 2, started.PlayerCount)

	// Q0: alice right, bob wrong; bob's submission completes the roster.
	resA, err := r.SubmitAnswer(code, 1, 0, 0)
	require.NoError(t, err)
	assert.True(t, resA.Correct)
	assert.False(t, resA.AllAnswered)

	resB, err := r.SubmitAnswer(code, 2, 0, 1)
	require.NoError(t, err)
	assert.False(t, resB.Correct)
	assert.True(t, resB.AllAnswered)

	adv, err := r.AdvanceQuestion(code)
	require.NoError(t, err)
	require.False(t, adv.Finished)

	// Q1: both right.
	_, err = r.SubmitAnswer(code, 1, 1, 0)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(code, 2, 1, 0)
	require.NoError(t, err)

	adv, err = r.AdvanceQuestion(code)
	require.NoError(t, err)
	require.True(t, adv.Finished)

	results, err := r.Results(code)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", results[0].Name)
	assert.Equal(t, 2, results[0].Score)
	assert.Equal(t, "bob", results[1].Name)
	assert.Equal(t, 1, results[1].Score)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}
