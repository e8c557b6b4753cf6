package quiz

import "github.com/victornm/flagquiz/internal/domain"

// State is a point-in-time copy of the engine's state for the
// presentation layer. Mutating it has no effect on the engine.
type State struct {
	Score      int
	Difficulty domain.Difficulty
	Round      domain.Round
	Answered   bool
	LastGuess  string
	LastResult *domain.GuessResult
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		Score:      e.score,
		Difficulty: e.difficulty,
		Answered:   e.answered,
		LastGuess:  e.lastGuess,
	}

	if e.round != nil {
		s.Round = domain.Round{
			Target:  e.round.Target,
			Options: append([]domain.Country(nil), e.round.Options...),
		}
	}
	if e.lastResult != nil {
		result := *e.lastResult
		s.LastResult = &result
	}

	return s
}
