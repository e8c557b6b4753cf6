package event_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/event"
)

func TestBus_PublishSubscribe(t *testing.T) {
	type (
		inputs struct {
			published   []event.Event
			subscribers []subscriber
		}

		outputs struct {
			received map[string][]event.Event
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"a single subscriber should receive only the event it subscribed to": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						domain.EventRoundStarted{GameID: "g1", Difficulty: domain.DifficultyEasy, Options: 3},
						domain.EventScoreReset{GameID: "g1", Difficulty: domain.DifficultyEasy},
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameRoundStarted},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{
					domain.EventRoundStarted{GameID: "g1", Difficulty: domain.DifficultyEasy, Options: 3},
				}, out.received["s1"])
			},
		},

		"a single subscriber should receive every dispatched event, payload intact": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						domain.EventGuessSubmitted{GameID: "g1", Guess: "France", Result: domain.GuessResult{Outcome: domain.OutcomeCorrect, Score: 1}},
						domain.EventGuessSubmitted{GameID: "g1", Guess: "Chile", Result: domain.GuessResult{Outcome: domain.OutcomeIncorrect, Score: 1}},
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameGuessSubmitted},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				require.Len(t, out.received["s1"], 2)
				guesses := make([]string, 0, 2)
				for _, e := range out.received["s1"] {
					guesses = append(guesses, e.(domain.EventGuessSubmitted).Guess)
				}
				assert.ElementsMatch(t, []string{"France", "Chile"}, guesses)
			},
		},

		"an event should be dispatched to all subscribers": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						domain.EventRoundStarted{GameID: "g1", Options: 5},
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameRoundStarted},
						},
						{
							name:        "s2",
							subscribeTo: []string{domain.EventNameRoundStarted},
						},
						{
							name:        "s3",
							subscribeTo: []string{domain.EventNameRoundStarted},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				want := []event.Event{domain.EventRoundStarted{GameID: "g1", Options: 5}}
				assert.ElementsMatch(t, want, out.received["s1"])
				assert.ElementsMatch(t, want, out.received["s2"])
				assert.ElementsMatch(t, want, out.received["s3"])
			},
		},

		"multiple events should be routed to the right subscribers": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						domain.EventRoundStarted{GameID: "g1", Options: 3},
						domain.EventGuessSubmitted{GameID: "g1", Guess: "Kenya"},
						domain.EventRoundStarted{GameID: "g2", Options: 7},
						domain.EventScoreReset{GameID: "g1"},
					},
					subscribers: []subscriber{
						{
							name:        "rounds",
							subscribeTo: []string{domain.EventNameRoundStarted},
						},
						{
							name:        "activity",
							subscribeTo: []string{domain.EventNameRoundStarted, domain.EventNameGuessSubmitted},
						},
						{
							name:        "resets",
							subscribeTo: []string{domain.EventNameScoreReset, domain.EventNameGuessSubmitted},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Len(t, out.received["rounds"], 2)
				assert.Len(t, out.received["activity"], 3)
				assert.Len(t, out.received["resets"], 2)
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			mu := sync.Mutex{}
			out := outputs{received: make(map[string][]event.Event)}

			b := event.NewBus()
			for _, s := range in.subscribers {
				for _, e := range s.subscribeTo {
					b.Subscribe(e, func(ctx context.Context, e event.Event) error {
						mu.Lock()
						out.received[s.name] = append(out.received[s.name], e)
						mu.Unlock()
						return nil
					})
				}
			}

			for _, e := range in.published {
				b.Publish(context.Background(), e)
			}
			b.Stop()

			tt.assert(t, out)
		})
	}
}

// A failing handler must not starve the others subscribed to the same event.
func TestBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	b := event.NewBus()

	var (
		mu       sync.Mutex
		received int
	)
	b.Subscribe(domain.EventNameRoundStarted, func(context.Context, event.Event) error {
		return errors.New("boom")
	})
	b.Subscribe(domain.EventNameRoundStarted, func(context.Context, event.Event) error {
		mu.Lock()
		received++
		mu.Unlock()
		return nil
	})

	b.Publish(context.Background(), domain.EventRoundStarted{GameID: "g1", Options: 3})
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, received)
}

type subscriber struct {
	name        string
	subscribeTo []string
}
