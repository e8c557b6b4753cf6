package api

import (
	"context"

	"github.com/victornm/flagquiz/internal/domain"
)

type (
	RoundStarted struct {
		Difficulty string `json:"difficulty"`
		Options    int    `json:"options"`
	}

	GuessSubmitted struct {
		Guess         string `json:"guess"`
		Outcome       string `json:"outcome"`
		CorrectAnswer string `json:"correct_answer"`
		Score         int    `json:"score"`
	}

	ScoreReset struct {
		Difficulty string `json:"difficulty"`
	}
)

func (a *API) publishRoundStarted(_ context.Context, e domain.EventRoundStarted) error {
	a.notifier.publish(e.GameID, Notification{
		Event: e.Name(),
		Data: RoundStarted{
			Difficulty: string(e.Difficulty),
			Options:    e.Options,
		},
	})
	return nil
}

func (a *API) publishGuessSubmitted(_ context.Context, e domain.EventGuessSubmitted) error {
	a.notifier.publish(e.GameID, Notification{
		Event: e.Name(),
		Data: GuessSubmitted{
			Guess:         e.Guess,
			Outcome:       string(e.Result.Outcome),
			CorrectAnswer: e.Result.Target,
			Score:         e.Result.Score,
		},
	})
	return nil
}

func (a *API) publishScoreReset(_ context.Context, e domain.EventScoreReset) error {
	a.notifier.publish(e.GameID, Notification{
		Event: e.Name(),
		Data: ScoreReset{
			Difficulty: string(e.Difficulty),
		},
	})
	return nil
}
