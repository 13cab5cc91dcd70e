package compute

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
)

// Worker runs offloadable computations on a dedicated goroutine, mirroring
// the browser worker threads this engine replaces. Requests and responses are
// passed by message only; no state is shared with callers. Every request
// carries a locally generated id and its own reply channel, so overlapping
// calls cannot resolve against the wrong response.
//
// A Worker that was never started computes everything inline with identical
// semantics, which is the fallback path when offloading is unavailable.
type Worker struct {
	name     string
	requests chan request
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  atomic.Bool
	nextID   atomic.Uint64
	log      *logger.Logger

	mu  sync.Mutex // guards rng: shared by the worker loop and the inline fallback
	rng *rand.Rand
}

type request struct {
	id    uint64
	fn    func() any
	reply chan response
}

type response struct {
	id    uint64
	value any
}

// NewWorker creates a worker with the given name for logging.
func NewWorker(name string) *Worker {
	return &Worker{
		name:     name,
		requests: make(chan request, 16),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logger.Default().WithPrefix(name),
	}
}

// Start launches the worker goroutine. Calling Start twice is a no-op.
func (w *Worker) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.log.Debug("worker started")
		for {
			select {
			case <-ctx.Done():
				w.log.Debug("worker shutting down (context cancelled)")
				return
			case req := <-w.requests:
				req.reply <- response{id: req.id, value: req.fn()}
			}
		}
	}()
}

// Stop terminates the worker goroutine. Pending calls are abandoned; their
// callers unblock through their own context.
func (w *Worker) Stop() {
	if !w.started.CompareAndSwap(true, false) {
		return
	}
	w.log.Debug("stopping worker")
	w.cancel()
	w.wg.Wait()
}

// do runs fn on the worker goroutine if it is running, inline otherwise.
func (w *Worker) do(ctx context.Context, fn func() any) (any, error) {
	if !w.started.Load() {
		return fn(), nil
	}

	req := request{id: w.nextID.Add(1), fn: fn, reply: make(chan response, 1)}
	select {
	case w.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		if resp.id != req.id {
			return nil, fmt.Errorf("%s: response %d does not match request %d", w.name, resp.id, req.id)
		}
		return resp.value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CardPositions computes per-card transforms, offloaded when possible.
func (w *Worker) CardPositions(ctx context.Context, currentIndex int, viewportHeight, dragOffset float64, dragging bool) (map[int]CardPosition, error) {
	v, err := w.do(ctx, func() any {
		return CardPositions(currentIndex, viewportHeight, dragOffset, dragging)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int]CardPosition), nil
}

// Shuffle returns a shuffled copy of cards, offloaded when possible.
func (w *Worker) Shuffle(ctx context.Context, cards []models.Card) ([]models.Card, error) {
	v, err := w.do(ctx, func() any {
		w.mu.Lock()
		defer w.mu.Unlock()
		return ShuffleCards(cards, w.rng)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Card), nil
}

// CheckAnswer verifies learner input against the expected answer, offloaded
// when possible.
func (w *Worker) CheckAnswer(ctx context.Context, input, expected string) (bool, error) {
	v, err := w.do(ctx, func() any {
		return CheckAnswer(input, expected)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
