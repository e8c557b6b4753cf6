package domain

const (
	EventNameRoundStarted   = "round.started"
	EventNameGuessSubmitted = "guess.submitted"
	EventNameScoreReset     = "score.reset"
)

type EventRoundStarted struct {
	GameID     string
	Difficulty Difficulty
	Options    int
}

func (EventRoundStarted) Name() string { return EventNameRoundStarted }

type EventGuessSubmitted struct {
	GameID string
	Guess  string
	Result GuessResult
}

func (EventGuessSubmitted) Name() string { return EventNameGuessSubmitted }

type EventScoreReset struct {
	GameID     string
	Difficulty Difficulty
}

func (EventScoreReset) Name() string { return EventNameScoreReset }
