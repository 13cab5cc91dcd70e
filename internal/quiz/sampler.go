package quiz

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/kantoku/kantoku/internal/models"
)

// Weights for deck selection. An unattempted card sits in the middle; an
// attempted card's weight is the inverse of its accuracy, floored so even a
// perfect card can still be drawn.
const (
	unattemptedWeight  = 0.5
	minAttemptedWeight = 0.1
)

// Sampler builds quiz decks from the pool of mastered cards, biased toward
// the cards the learner keeps getting wrong.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler with a time-seeded source.
func NewSampler() *Sampler {
	return NewSamplerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSamplerWithSource creates a sampler with the given source. Tests use a
// fixed seed.
func NewSamplerWithSource(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

type weightedCard struct {
	card   models.Card
	weight float64
}

// BuildDeck selects size cards from pool by weighted sampling without
// replacement: draw a uniform value across the remaining total weight, walk
// the weight-sorted list until the draw lands inside a card's band, take that
// card out and shrink the total. The result has no duplicates, and size is
// capped at the pool length.
func (s *Sampler) BuildDeck(pool []models.Card, stats map[string]models.CardStat, size int) []models.Card {
	if size > len(pool) {
		size = len(pool)
	}
	if size <= 0 {
		return nil
	}

	weighted := make([]weightedCard, len(pool))
	total := 0.0
	for i, c := range pool {
		w := weightFor(stats[c.Word])
		weighted[i] = weightedCard{card: c, weight: w}
		total += w
	}
	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].weight > weighted[j].weight
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	deck := make([]models.Card, 0, size)
	for len(deck) < size {
		draw := s.rng.Float64() * total
		acc := 0.0
		picked := -1
		for i, wc := range weighted {
			acc += wc.weight
			if draw < acc {
				picked = i
				break
			}
		}
		if picked < 0 {
			picked = len(weighted) - 1 // float rounding at the top edge
		}
		deck = append(deck, weighted[picked].card)
		total -= weighted[picked].weight
		weighted = append(weighted[:picked], weighted[picked+1:]...)
	}
	return deck
}

func weightFor(stat models.CardStat) float64 {
	if stat.TotalAttempts == 0 {
		return unattemptedWeight
	}
	return 1 - stat.Accuracy/100 + minAttemptedWeight
}
