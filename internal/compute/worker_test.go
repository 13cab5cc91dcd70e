package compute_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoku/kantoku/internal/compute"
	"github.com/kantoku/kantoku/internal/models"
)

func sampleCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{ID: i + 1, Word: string(rune('a' + i)), Tags: []string{"JLPT N5"}}
	}
	return cards
}

func TestShuffleCards_PreservesElements(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cards := sampleCards(20)

	shuffled := compute.ShuffleCards(cards, rng)

	require.Len(t, shuffled, len(cards))
	assert.ElementsMatch(t, cards, shuffled, "shuffle must not add or drop cards")
	assert.Equal(t, 1, cards[0].ID, "input slice must not be mutated")
}

func TestWorker_FallbackMatchesOffloaded(t *testing.T) {
	ctx := context.Background()

	stopped := compute.NewWorker("position-worker")
	inline, err := stopped.CardPositions(ctx, 2, 800, 120, true)
	require.NoError(t, err)

	running := compute.NewWorker("position-worker")
	running.Start(ctx)
	defer running.Stop()

	offloaded, err := running.CardPositions(ctx, 2, 800, 120, true)
	require.NoError(t, err)

	assert.Equal(t, inline, offloaded, "offloaded path must not alter the result")
}

func TestWorker_CheckAnswer(t *testing.T) {
	ctx := context.Background()
	w := compute.NewWorker("card-worker")
	w.Start(ctx)
	defer w.Stop()

	ok, err := w.CheckAnswer(ctx, "みず ", "みず")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = w.CheckAnswer(ctx, "ひ", "みず")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorker_ShuffleWithoutStart(t *testing.T) {
	w := compute.NewWorker("card-worker")

	shuffled, err := w.Shuffle(context.Background(), sampleCards(10))
	require.NoError(t, err)
	assert.Len(t, shuffled, 10)
}

func TestWorker_ConcurrentCallsResolveCorrectly(t *testing.T) {
	ctx := context.Background()
	w := compute.NewWorker("card-worker")
	w.Start(ctx)
	defer w.Stop()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			input := string(rune('a' + i))
			ok, err := w.CheckAnswer(ctx, input, input)
			assert.NoError(t, err)
			assert.True(t, ok, "each caller must receive its own response")
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	close(done)
}

func TestWorker_StopUnblocksPendingCallersViaContext(t *testing.T) {
	w := compute.NewWorker("card-worker")
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	w.Stop()
	cancel()

	// Worker is stopped, so calls take the inline fallback and still succeed.
	ok, err := w.CheckAnswer(context.Background(), "x", "x")
	require.NoError(t, err)
	assert.True(t, ok)
}
