package compute

import (
	"math/rand"

	"github.com/kantoku/kantoku/internal/models"
)

// ShuffleCards returns a Fisher-Yates shuffled copy of cards. The input
// slice is never mutated.
func ShuffleCards(cards []models.Card, rng *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
