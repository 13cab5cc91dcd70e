package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoku/kantoku/internal/compute"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/progress"
	"github.com/kantoku/kantoku/internal/scheduler"
	"github.com/kantoku/kantoku/internal/testutil"
)

type identityShuffler struct{}

func (identityShuffler) Shuffle(_ context.Context, cards []models.Card) ([]models.Card, error) {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	return out, nil
}

const tag = "JLPT N5"

func newScheduler(t *testing.T, cardCount int) (*scheduler.Scheduler, *progress.Ledger) {
	t.Helper()
	cards := make([]models.Card, cardCount)
	for i := range cards {
		cards[i] = models.Card{ID: i + 1, Word: "w", Meaning: "m", Answer: "a", Tags: []string{tag}}
	}

	ledger := progress.NewLedger(testutil.NewTestKV(t), identityShuffler{})
	require.NoError(t, ledger.Init(context.Background(), cards, []string{tag}))

	return scheduler.New(ledger, compute.NewWorker("positions"), 2, 800), ledger
}

func TestScheduler_AdvanceMovesForward(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	st, err := s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, 3, st.DeckSize, "nothing was answered, so nothing left the deck")
	assert.False(t, st.Complete)
}

func TestScheduler_AdvanceWrapsToFirstUnseen(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	var st scheduler.State
	var err error
	for i := 0; i < 3; i++ {
		st, err = s.Advance(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, st.Index, "advancing past the last card wraps to the top")
}

func TestScheduler_AnsweredCardLeavesDeck(t *testing.T) {
	ctx := context.Background()
	s, ledger := newScheduler(t, 3)

	require.NoError(t, ledger.MarkAnswered(ctx, tag, 1))

	st, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.DeckSize, "an answered card is out of the deck")
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, 2, st.Cards[0].ID)
	assert.Equal(t, 1, st.AnsweredCount)
	assert.Equal(t, 3, st.TotalCount, "the full queue length is unchanged")
}

func TestScheduler_CategoryComplete(t *testing.T) {
	ctx := context.Background()
	s, ledger := newScheduler(t, 2)

	require.NoError(t, ledger.MarkAnswered(ctx, tag, 1))
	require.NoError(t, ledger.MarkAnswered(ctx, tag, 2))

	st, err := s.State(ctx)
	require.NoError(t, err)
	assert.True(t, st.Complete)
	assert.Equal(t, 0, st.DeckSize)
	assert.Empty(t, st.Cards)

	// Navigation on an empty deck is a quiet no-op, not an error.
	st, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, st.Complete)
}

func TestScheduler_RetreatStopsAtTop(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	st, err := s.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index, "cannot retreat past the first card")

	_, err = s.Advance(ctx)
	require.NoError(t, err)
	st, err = s.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index)
}

func TestScheduler_WheelAndKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 5)

	st, err := s.Wheel(ctx, 120)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Index)

	st, err = s.Wheel(ctx, -120)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index)

	st, err = s.HandleKey(ctx, "ArrowDown")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Index)

	st, err = s.HandleKey(ctx, "ArrowUp")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index)

	st, err = s.HandleKey(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index, "unknown keys do nothing")
}

func TestScheduler_ShortSlowDragSpringsBack(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	// 10% of an 800px viewport over a full second: under both thresholds.
	now := time.Now()
	s.DragStart(500, now)
	_, err := s.DragMove(ctx, 420, now.Add(time.Second))
	require.NoError(t, err)
	st, err := s.DragEnd(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, st.Index, "a short slow drag must not navigate")
	assert.False(t, st.Dragging)
	assert.Zero(t, st.DragOffset)
}

func TestScheduler_LongDragNavigatesRegardlessOfVelocity(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	// 20% of the viewport, dragged over ten slow seconds.
	now := time.Now()
	s.DragStart(500, now)
	_, err := s.DragMove(ctx, 340, now.Add(10*time.Second))
	require.NoError(t, err)
	st, err := s.DragEnd(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Index, "distance alone classifies the swipe")
}

func TestScheduler_FastFlickNavigates(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	// Only 5% of the viewport, but covered in 20ms: 2 px/ms smoothed down
	// by the EWMA still clears the 0.15 threshold.
	now := time.Now()
	s.DragStart(500, now)
	_, err := s.DragMove(ctx, 460, now.Add(20*time.Millisecond))
	require.NoError(t, err)
	st, err := s.DragEnd(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Index, "velocity alone classifies the swipe")
}

func TestScheduler_DownwardSwipeRetreats(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	_, err := s.Advance(ctx)
	require.NoError(t, err)

	now := time.Now()
	s.DragStart(300, now)
	_, err = s.DragMove(ctx, 500, now.Add(100*time.Millisecond))
	require.NoError(t, err)
	st, err := s.DragEnd(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, st.Index, "dragging down goes back one card")
}

func TestScheduler_DragOffsetFlowsIntoPositions(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	now := time.Now()
	s.DragStart(500, now)
	st, err := s.DragMove(ctx, 400, now.Add(50*time.Millisecond))
	require.NoError(t, err)

	assert.True(t, st.Dragging)
	assert.Equal(t, 100.0, st.DragOffset)
	require.Contains(t, st.Positions, st.Index)
	assert.Equal(t, -100.0, st.Positions[st.Index].Y, "current card tracks the drag")
	assert.Equal(t, 700.0, st.Positions[st.Index+1].Y)
}

func TestScheduler_IndexClampsAfterDeckShrinks(t *testing.T) {
	ctx := context.Background()
	s, ledger := newScheduler(t, 3)

	_, err := s.Advance(ctx)
	require.NoError(t, err)
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	// Concurrent answering removes cards out from under the index.
	require.NoError(t, ledger.MarkAnswered(ctx, tag, 1))
	require.NoError(t, ledger.MarkAnswered(ctx, tag, 2))

	st, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index, "stale index clamps to the top on read")
	assert.Equal(t, 1, st.DeckSize)
}

func TestScheduler_ResetClearsPosition(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 3)

	_, err := s.Advance(ctx)
	require.NoError(t, err)
	s.DragStart(500, time.Now())
	s.Reset()

	st, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index)
	assert.False(t, st.Dragging)
}

func TestScheduler_CurrentCard(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, 2)

	card, ok := s.CurrentCard(ctx)
	require.True(t, ok)
	assert.Equal(t, 1, card.ID)

	_, err := s.Advance(ctx)
	require.NoError(t, err)
	card, ok = s.CurrentCard(ctx)
	require.True(t, ok)
	assert.Equal(t, 2, card.ID)
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name         string
		index, count int
		visible      int
		want         scheduler.Window
	}{
		{"top of deck", 0, 10, 2, scheduler.Window{Start: 0, End: 2}},
		{"mid deck keeps previous card", 5, 10, 2, scheduler.Window{Start: 4, End: 6}},
		{"clamped at tail", 9, 10, 2, scheduler.Window{Start: 8, End: 10}},
		{"deck smaller than window", 0, 1, 2, scheduler.Window{Start: 0, End: 1}},
		{"empty deck", 0, 0, 2, scheduler.Window{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := scheduler.VisibleWindow(tt.index, tt.count, tt.visible)
			assert.Equal(t, tt.want, win)
			if tt.count > 0 {
				assert.True(t, win.Contains(tt.index), "current card is always materialized")
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := scheduler.Window{Start: 2, End: 4}
	assert.False(t, w.Contains(1))
	assert.True(t, w.Contains(2))
	assert.True(t, w.Contains(3))
	assert.False(t, w.Contains(4), "the end index is exclusive")
}
