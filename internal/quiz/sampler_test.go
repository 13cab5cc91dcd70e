package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoku/kantoku/internal/models"
)

func statWithAccuracy(word string, accuracy float64) models.CardStat {
	return models.CardStat{Word: word, TotalAttempts: 10, Accuracy: accuracy}
}

func TestWeightFor(t *testing.T) {
	assert.Equal(t, 0.5, weightFor(models.CardStat{}), "unattempted cards get the middle weight")
	assert.InDelta(t, 0.1, weightFor(statWithAccuracy("a", 100)), 1e-9, "perfect cards keep a floor weight")
	assert.InDelta(t, 1.1, weightFor(statWithAccuracy("a", 0)), 1e-9, "never-correct cards weigh the most")
	assert.InDelta(t, 0.6, weightFor(statWithAccuracy("a", 50)), 1e-9)
}

func TestBuildDeck_FullPoolIsExactSetForAnySeed(t *testing.T) {
	pool := []models.Card{
		{ID: 1, Word: "A", Answer: "a"},
		{ID: 2, Word: "B", Answer: "b"},
		{ID: 3, Word: "C", Answer: "c"},
	}
	stats := map[string]models.CardStat{
		"A": statWithAccuracy("A", 100),
		"B": statWithAccuracy("B", 0),
		// C unattempted
	}

	for seed := int64(0); seed < 50; seed++ {
		s := NewSamplerWithSource(rand.NewSource(seed))
		deck := s.BuildDeck(pool, stats, 3)

		require.Len(t, deck, 3, "seed %d", seed)
		got := map[int]int{}
		for _, c := range deck {
			got[c.ID]++
		}
		for _, id := range []int{1, 2, 3} {
			assert.Equal(t, 1, got[id], "seed %d: card %d must appear exactly once", seed, id)
		}
	}
}

func TestBuildDeck_SizeCappedAtPool(t *testing.T) {
	pool := []models.Card{{ID: 1, Word: "A"}, {ID: 2, Word: "B"}}
	s := NewSamplerWithSource(rand.NewSource(1))

	deck := s.BuildDeck(pool, nil, 10)
	assert.Len(t, deck, 2)

	assert.Nil(t, s.BuildDeck(pool, nil, 0))
	assert.Nil(t, s.BuildDeck(nil, nil, 3))
}

func TestBuildDeck_FavorsWeakCards(t *testing.T) {
	pool := []models.Card{
		{ID: 1, Word: "strong"},
		{ID: 2, Word: "weak"},
	}
	stats := map[string]models.CardStat{
		"strong": statWithAccuracy("strong", 100), // weight 0.1
		"weak":   statWithAccuracy("weak", 0),     // weight 1.1
	}

	s := NewSamplerWithSource(rand.NewSource(7))
	weakFirst := 0
	const rounds = 1000
	for i := 0; i < rounds; i++ {
		deck := s.BuildDeck(pool, stats, 1)
		require.Len(t, deck, 1)
		if deck[0].Word == "weak" {
			weakFirst++
		}
	}
	// Expected pick rate is 1.1/1.2 ≈ 92%; leave generous slack.
	assert.Greater(t, weakFirst, rounds*8/10,
		"weak card should dominate single-card draws, got %d/%d", weakFirst, rounds)
}

func TestAnswerOptions_ContainsCorrectAndThreeDistractors(t *testing.T) {
	pool := []models.Card{
		{ID: 1, Answer: "a"}, {ID: 2, Answer: "b"}, {ID: 3, Answer: "c"},
		{ID: 4, Answer: "d"}, {ID: 5, Answer: "e"},
	}
	s := NewSamplerWithSource(rand.NewSource(3))

	options := s.AnswerOptions("a", pool)
	require.Len(t, options, 4)
	assert.Contains(t, options, "a")
	for _, opt := range options {
		if opt != "a" {
			assert.NotEqual(t, "a", opt)
		}
	}
}

func TestAnswerOptions_PadsScarceDistractors(t *testing.T) {
	pool := []models.Card{{ID: 1, Answer: "a"}, {ID: 2, Answer: "b"}}
	s := NewSamplerWithSource(rand.NewSource(3))

	options := s.AnswerOptions("a", pool)
	require.Len(t, options, 4, "the single distractor is duplicated up to three")
	assert.Contains(t, options, "a")
	assert.Contains(t, options, "b")
}

func TestAnswerOptions_NoDistractorsAtAll(t *testing.T) {
	pool := []models.Card{{ID: 1, Answer: "a"}}
	s := NewSamplerWithSource(rand.NewSource(3))

	assert.Equal(t, []string{"a"}, s.AnswerOptions("a", pool))
}
