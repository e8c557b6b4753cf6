package quiz

import (
	"math/rand"

	"github.com/victornm/flagquiz/internal/domain"
)

// Shuffle permutes xs in place with a uniform Fisher-Yates shuffle
// driven by rnd.
func Shuffle(rnd *rand.Rand, xs []domain.Country) {
	rnd.Shuffle(len(xs), func(i, j int) {
		xs[i], xs[j] = xs[j], xs[i]
	})
}
