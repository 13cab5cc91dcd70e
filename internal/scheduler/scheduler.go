package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/kantoku/kantoku/internal/compute"
	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/progress"
)

// Swipe thresholds. A released drag navigates if it travelled more than 15%
// of the viewport height or was moving faster than 0.15 px/ms at release;
// either alone is enough.
const (
	swipeDistanceFraction  = 0.15
	swipeVelocityThreshold = 0.15

	// Velocity smoothing: weight of the instantaneous sample vs the
	// running estimate.
	velocityRecentWeight = 0.7
	velocityPriorWeight  = 0.3
)

// Positioner computes per-card transforms. Satisfied by the compute worker.
type Positioner interface {
	CardPositions(ctx context.Context, currentIndex int, viewportHeight, dragOffset float64, dragging bool) (map[int]compute.CardPosition, error)
}

// Scheduler turns gestures into navigation over the active category's deck:
// the not-yet-seen view of the ledger's queue. It owns the current index and
// transient drag state; all durable progress lives in the ledger.
type Scheduler struct {
	mu           sync.Mutex
	ledger       *progress.Ledger
	positions    Positioner
	log          *logger.Logger
	visibleCards int

	viewportHeight float64
	currentIndex   int
	drag           dragState
}

type dragState struct {
	active   bool
	startY   float64
	lastY    float64
	lastTime time.Time
	offset   float64
	velocity float64
}

// State is a snapshot of the scheduler handed to the presentation layer
// after every event.
type State struct {
	Tag           string                       `json:"tag"`
	Index         int                          `json:"index"`
	DeckSize      int                          `json:"deck_size"`
	AnsweredCount int                          `json:"answered_count"`
	TotalCount    int                          `json:"total_count"`
	Complete      bool                         `json:"complete"`
	Dragging      bool                         `json:"dragging"`
	DragOffset    float64                      `json:"drag_offset"`
	Window        Window                       `json:"window"`
	Cards         []models.Card                `json:"cards"`
	Positions     map[int]compute.CardPosition `json:"positions"`
}

// New creates a scheduler over the given ledger.
func New(ledger *progress.Ledger, positions Positioner, visibleCards int, viewportHeight float64) *Scheduler {
	return &Scheduler{
		ledger:         ledger,
		positions:      positions,
		log:            logger.Default().WithPrefix("scheduler"),
		visibleCards:   visibleCards,
		viewportHeight: viewportHeight,
	}
}

// SetViewport records the viewport height used for position math and swipe
// distance classification.
func (s *Scheduler) SetViewport(height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if height > 0 {
		s.viewportHeight = height
	}
}

// Reset returns the scheduler to the top of the deck and clears any drag in
// progress. Called when the active category changes.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentIndex = 0
	s.drag = dragState{}
}

// State returns the current snapshot without navigating.
func (s *Scheduler) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(ctx)
}

// Advance moves forward one card. Leaving a card that has already been
// answered marks it seen at this moment, not at answer time, so the learner
// can linger on a just-answered card. Past the end of the deck the index
// wraps to the first card still unseen, or 0.
func (s *Scheduler) Advance(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.advanceLocked(ctx); err != nil {
		return State{}, err
	}
	return s.stateLocked(ctx)
}

// Retreat moves back one card. Backward navigation ignores the seen filter,
// so already-reviewed cards can be revisited, but never goes past the top.
func (s *Scheduler) Retreat(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex > 0 {
		s.currentIndex--
	}
	return s.stateLocked(ctx)
}

// Wheel maps a scroll delta to navigation: down is forward, up is backward.
func (s *Scheduler) Wheel(ctx context.Context, delta float64) (State, error) {
	switch {
	case delta > 0:
		return s.Advance(ctx)
	case delta < 0:
		return s.Retreat(ctx)
	}
	return s.State(ctx)
}

// HandleKey maps arrow keys and space to navigation. Unknown keys are
// ignored.
func (s *Scheduler) HandleKey(ctx context.Context, key string) (State, error) {
	switch key {
	case "ArrowDown", "ArrowRight", " ":
		return s.Advance(ctx)
	case "ArrowUp", "ArrowLeft":
		return s.Retreat(ctx)
	}
	return s.State(ctx)
}

// DragStart begins a drag gesture at vertical position y.
func (s *Scheduler) DragStart(y float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = dragState{active: true, startY: y, lastY: y, lastTime: at}
}

// DragMove updates the drag offset and the smoothed velocity estimate.
// Offset is positive when the pointer has moved up, which is the forward
// direction.
func (s *Scheduler) DragMove(ctx context.Context, y float64, at time.Time) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drag.active {
		return s.stateLocked(ctx)
	}

	s.drag.offset = s.drag.startY - y
	if dtMs := float64(at.Sub(s.drag.lastTime)) / float64(time.Millisecond); dtMs > 0 {
		instant := (s.drag.lastY - y) / dtMs
		s.drag.velocity = velocityRecentWeight*instant + velocityPriorWeight*s.drag.velocity
	}
	s.drag.lastY = y
	s.drag.lastTime = at
	return s.stateLocked(ctx)
}

// DragEnd releases the gesture. The drag becomes a swipe when either the
// distance or the velocity threshold is exceeded; otherwise the card springs
// back and nothing navigates.
func (s *Scheduler) DragEnd(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drag.active {
		return s.stateLocked(ctx)
	}

	offset, velocity := s.drag.offset, s.drag.velocity
	s.drag = dragState{}

	distance := abs(offset)
	swipe := distance > swipeDistanceFraction*s.viewportHeight || abs(velocity) > swipeVelocityThreshold
	if !swipe {
		return s.stateLocked(ctx)
	}

	forward := offset > 0 || (offset == 0 && velocity > 0)
	if forward {
		if err := s.advanceLocked(ctx); err != nil {
			return State{}, err
		}
	} else if s.currentIndex > 0 {
		s.currentIndex--
	}
	return s.stateLocked(ctx)
}

func (s *Scheduler) advanceLocked(ctx context.Context) error {
	tag := s.ledger.ActiveTag()
	rec := s.ledger.Get(tag)
	deck := rec.Unseen()
	if len(deck) == 0 {
		return nil
	}

	idx := clampIndex(s.currentIndex, len(deck))
	next := idx + 1
	if next >= len(deck) {
		// Wrap to the first card still unseen, top of the deck if none.
		next = 0
		for i, c := range deck {
			if _, seen := rec.Seen[c.ID]; !seen {
				next = i
				break
			}
		}
		s.currentIndex = next
		return nil
	}

	s.currentIndex = next
	// Leaving an answered card is what removes it from the deck; answering
	// alone leaves it in place so the learner can linger on it.
	leaving := deck[idx]
	if _, answered := rec.Answered[leaving.ID]; answered {
		if err := s.ledger.RecordSeen(ctx, tag, leaving.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) stateLocked(ctx context.Context) (State, error) {
	tag := s.ledger.ActiveTag()
	rec := s.ledger.Get(tag)
	deck := rec.Unseen()

	s.currentIndex = clampIndex(s.currentIndex, len(deck))
	win := VisibleWindow(s.currentIndex, len(deck), s.visibleCards)

	positions, err := s.positions.CardPositions(ctx, s.currentIndex, s.viewportHeight, s.drag.offset, s.drag.active)
	if err != nil {
		return State{}, err
	}

	return State{
		Tag:           tag,
		Index:         s.currentIndex,
		DeckSize:      len(deck),
		AnsweredCount: len(rec.Answered),
		TotalCount:    len(rec.Queue),
		Complete:      len(deck) == 0 && len(rec.Queue) > 0,
		Dragging:      s.drag.active,
		DragOffset:    s.drag.offset,
		Window:        win,
		Cards:         deck[win.Start:win.End],
		Positions:     positions,
	}, nil
}

// CurrentCard returns the card under the cursor, if any.
func (s *Scheduler) CurrentCard(ctx context.Context) (models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ledger.Get(s.ledger.ActiveTag())
	deck := rec.Unseen()
	if len(deck) == 0 {
		return models.Card{}, false
	}
	s.currentIndex = clampIndex(s.currentIndex, len(deck))
	return deck[s.currentIndex], true
}

// clampIndex resets an index that ran past the live deck back to 0. The deck
// shrinks when cards are marked seen; pointing at the top is safer than
// pointing at the neighbor of a card that no longer exists.
func clampIndex(idx, length int) int {
	if idx < 0 || idx >= length {
		return 0
	}
	return idx
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
