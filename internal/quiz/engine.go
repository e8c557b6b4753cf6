package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/errors"
	"github.com/victornm/flagquiz/internal/event"
)

const defaultAdvanceDelay = 2 * time.Second

// Timer is a pending auto-advance that can be stopped.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. Injectable so tests can fire the
// auto-advance deterministically.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Config struct {
	// GameID tags published events so subscribers can tell games apart.
	GameID string
	// EventBus receives round/guess lifecycle events. Optional.
	EventBus *event.Bus
	// Catalog is the read-only country dataset. Must hold at least as
	// many entries as the starting difficulty's option count.
	Catalog []domain.Country
	// Difficulty the game starts at. Defaults to easy.
	Difficulty domain.Difficulty
	// Rand supplies uniform randomness for shuffling. Seed it for
	// deterministic tests. Defaults to a time-seeded source.
	Rand *rand.Rand
	// AdvanceDelay is how long an answered round stays on screen before
	// the next one starts. Defaults to 2s.
	AdvanceDelay time.Duration
	// AfterFunc defaults to time.AfterFunc.
	AfterFunc AfterFunc
}

// Engine owns the state of one single-player game: score, the live
// round, and the answered gate. All operations are safe for concurrent
// use; the pending auto-advance timer fires on its own goroutine.
type Engine struct {
	gameID  string
	eb      *event.Bus
	catalog []domain.Country
	delay   time.Duration
	after   AfterFunc

	mu         sync.Mutex
	rnd        *rand.Rand
	score      int
	difficulty domain.Difficulty
	round      *domain.Round
	answered   bool
	lastGuess  string
	lastResult *domain.GuessResult

	timer Timer
	// roundSeq invalidates timers scheduled against superseded rounds.
	roundSeq uint64
}

// NewEngine creates an engine and starts its first round.
func NewEngine(c Config) (*Engine, error) {
	if c.Difficulty == "" {
		c.Difficulty = domain.DifficultyEasy
	}
	if !c.Difficulty.Valid() {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown difficulty: %q", c.Difficulty))
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.AdvanceDelay <= 0 {
		c.AdvanceDelay = defaultAdvanceDelay
	}
	if c.AfterFunc == nil {
		c.AfterFunc = stdAfterFunc
	}

	e := &Engine{
		gameID:     c.GameID,
		eb:         c.EventBus,
		catalog:    c.Catalog,
		delay:      c.AdvanceDelay,
		after:      c.AfterFunc,
		rnd:        c.Rand,
		difficulty: c.Difficulty,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.startRoundLocked(); err != nil {
		return nil, err
	}

	return e, nil
}

// StartRound discards the live round and generates a new one at the
// current difficulty. Score is untouched.
func (e *Engine) StartRound() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startRoundLocked()
}

// startRoundLocked replaces the live round atomically: any pending
// auto-advance is superseded before the new round becomes visible.
func (e *Engine) startRoundLocked() error {
	n := e.difficulty.OptionsCount()
	if len(e.catalog) < n {
		return errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("catalog has %d countries, difficulty %q needs %d", len(e.catalog), e.difficulty, n))
	}

	// Shuffle the full catalog and pop the last element as the target.
	// The remainder is itself uniformly shuffled, so taking distractors
	// from its front is uniform sampling without replacement.
	deck := make([]domain.Country, len(e.catalog))
	copy(deck, e.catalog)
	Shuffle(e.rnd, deck)

	target := deck[len(deck)-1]
	options := make([]domain.Country, 0, n)
	options = append(options, deck[:n-1]...)
	options = append(options, target)
	// Re-shuffle so the target's position among the options is unbiased.
	Shuffle(e.rnd, options)

	e.cancelTimerLocked()
	e.roundSeq++
	e.round = &domain.Round{Target: target, Options: options}
	e.answered = false
	e.lastGuess = ""
	e.lastResult = nil

	e.publish(domain.EventRoundStarted{
		GameID:     e.gameID,
		Difficulty: e.difficulty,
		Options:    n,
	})

	return nil
}

// SubmitGuess evaluates a guess against the live round. A guess that is
// not among the options is simply incorrect. Once the round is
// answered, further guesses are ignored and the recorded result of the
// first guess is returned unchanged.
func (e *Engine) SubmitGuess(name string) domain.GuessResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.answered {
		return *e.lastResult
	}

	e.answered = true
	e.lastGuess = name

	result := domain.GuessResult{Target: e.round.Target.Name}
	if name == e.round.Target.Name {
		e.score++
		result.Outcome = domain.OutcomeCorrect
		result.Feedback = domain.Feedback{
			Message: "Correct!",
			Kind:    domain.FeedbackSuccess,
		}
	} else {
		result.Outcome = domain.OutcomeIncorrect
		result.Feedback = domain.Feedback{
			Message: fmt.Sprintf("Wrong! It was %s", e.round.Target.Name),
			Kind:    domain.FeedbackError,
		}
	}
	result.Score = e.score
	e.lastResult = &result

	e.scheduleAdvanceLocked()

	e.publish(domain.EventGuessSubmitted{
		GameID: e.gameID,
		Guess:  name,
		Result: result,
	})

	return result
}

// scheduleAdvanceLocked arms the auto-advance for the answered round.
// The sequence check makes a stale timer a no-op: by the time it fires,
// any operation that started a newer round has bumped roundSeq.
func (e *Engine) scheduleAdvanceLocked() {
	seq := e.roundSeq
	e.timer = e.after(e.delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if seq != e.roundSeq {
			return
		}
		if err := e.startRoundLocked(); err != nil {
			// Cannot happen once the engine constructed: the catalog
			// and difficulty that produced the last round are unchanged.
			panic(err)
		}
	})
}

func (e *Engine) cancelTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// SetDifficulty switches difficulty, forfeits the score, and starts a
// new round sized for the new difficulty.
func (e *Engine) SetDifficulty(d domain.Difficulty) error {
	if !d.Valid() {
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown difficulty: %q", d))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prevDifficulty, prevScore := e.difficulty, e.score
	e.difficulty = d
	e.score = 0
	if err := e.startRoundLocked(); err != nil {
		// A failed switch must not forfeit anything.
		e.difficulty = prevDifficulty
		e.score = prevScore
		return err
	}

	e.publish(domain.EventScoreReset{GameID: e.gameID, Difficulty: d})
	return nil
}

// Reset forfeits the score and starts a new round at the current difficulty.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.score = 0
	if err := e.startRoundLocked(); err != nil {
		return err
	}

	e.publish(domain.EventScoreReset{GameID: e.gameID, Difficulty: e.difficulty})
	return nil
}

// Close stops any pending auto-advance. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
	e.roundSeq++
}

func (e *Engine) publish(ev event.Event) {
	if e.eb == nil {
		return
	}
	e.eb.Publish(context.Background(), ev)
}
