package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/event"
)

// MonitorQuiz registers quiz counters and feeds them from the event bus.
func MonitorQuiz(eb *event.Bus, reg prometheus.Registerer) {
	rounds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flagquiz_rounds_started_total",
		Help: "Rounds started, partitioned by difficulty.",
	}, []string{"difficulty"})

	guesses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flagquiz_guesses_total",
		Help: "Guesses submitted, partitioned by outcome.",
	}, []string{"outcome"})

	resets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flagquiz_score_resets_total",
		Help: "Score resets from game resets and difficulty changes.",
	})

	reg.MustRegister(rounds, guesses, resets)

	eb.Subscribe(domain.EventNameRoundStarted, func(_ context.Context, e event.Event) error {
		rounds.WithLabelValues(string(e.(domain.EventRoundStarted).Difficulty)).Inc()
		return nil
	})

	eb.Subscribe(domain.EventNameGuessSubmitted, func(_ context.Context, e event.Event) error {
		guesses.WithLabelValues(string(e.(domain.EventGuessSubmitted).Result.Outcome)).Inc()
		return nil
	})

	eb.Subscribe(domain.EventNameScoreReset, func(_ context.Context, _ event.Event) error {
		resets.Inc()
		return nil
	})
}

// MonitorGames exposes the live game count as a gauge.
func MonitorGames(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flagquiz_games_active",
		Help: "Live game sessions.",
	}, func() float64 {
		return float64(count())
	}))
}
