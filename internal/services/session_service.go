package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/kantoku/kantoku/internal/compute"
	"github.com/kantoku/kantoku/internal/dataset"
	"github.com/kantoku/kantoku/internal/errors"
	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/progress"
	"github.com/kantoku/kantoku/internal/scheduler"
)

// AnswerResult is the outcome of verifying learner input against the card
// under the cursor.
type AnswerResult struct {
	Correct bool            `json:"correct"`
	Card    models.Card     `json:"card"`
	State   scheduler.State `json:"state"`
}

// DragPhase identifies which stage of a drag gesture an event carries.
type DragPhase string

const (
	DragPhaseStart DragPhase = "start"
	DragPhaseMove  DragPhase = "move"
	DragPhaseEnd   DragPhase = "end"
)

// SessionService orchestrates the learning session: dataset load, progress
// migration, ledger initialization, and every scheduler event.
type SessionService interface {
	Start(ctx context.Context) error
	Refresh(ctx context.Context) error
	State(ctx context.Context) (scheduler.State, error)
	SelectTag(ctx context.Context, tag string) (scheduler.State, error)
	SetViewport(ctx context.Context, height float64) (scheduler.State, error)
	Advance(ctx context.Context) (scheduler.State, error)
	Retreat(ctx context.Context) (scheduler.State, error)
	Wheel(ctx context.Context, delta float64) (scheduler.State, error)
	Key(ctx context.Context, key string) (scheduler.State, error)
	Drag(ctx context.Context, phase DragPhase, y float64, at time.Time) (scheduler.State, error)
	Answer(ctx context.Context, input string) (AnswerResult, error)
	Cards(ctx context.Context) ([]models.Card, error)
	Tags(ctx context.Context) ([]string, error)
}

type sessionService struct {
	loader      *dataset.Loader
	migrator    *progress.Migrator
	ledger      *progress.Ledger
	sched       *scheduler.Scheduler
	verifier    *compute.Worker
	defaultTags []string

	mu    sync.RWMutex
	cards []models.Card
}

// NewSessionService creates a SessionService. Call Start before serving.
func NewSessionService(
	loader *dataset.Loader,
	migrator *progress.Migrator,
	ledger *progress.Ledger,
	sched *scheduler.Scheduler,
	verifier *compute.Worker,
	defaultTags []string,
) SessionService {
	return &sessionService{
		loader:      loader,
		migrator:    migrator,
		ledger:      ledger,
		sched:       sched,
		verifier:    verifier,
		defaultTags: defaultTags,
	}
}

func (s *sessionService) Start(ctx context.Context) error {
	log := logger.FromContext(ctx)

	result, err := s.loader.Load(ctx)
	if err != nil {
		if !stderrors.Is(err, dataset.ErrDatasetUnavailable) {
			return errors.NewInternalError(err)
		}
		// The loader already substituted a usable fallback set.
		log.Warn("starting on fallback card set: %v", err)
	}

	if err := s.migrator.Run(ctx, result.Cards, result.Prior); err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.ledger.Init(ctx, result.Cards, s.defaultTags); err != nil {
		return errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.cards = result.Cards
	s.mu.Unlock()

	if err := s.ensureQueues(ctx); err != nil {
		return err
	}

	log.Info("session started: %d cards, active tag %q", len(result.Cards), s.ledger.ActiveTag())
	return nil
}

// Refresh forces a dataset re-fetch and folds any new cards into the
// existing queues without disturbing queue order or progress.
func (s *sessionService) Refresh(ctx context.Context) error {
	log := logger.FromContext(ctx)

	result, err := s.loader.Update(ctx)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Changed {
		log.Debug("dataset unchanged, queues left alone")
		return nil
	}

	s.mu.Lock()
	s.cards = result.Cards
	s.mu.Unlock()

	return s.ensureQueues(ctx)
}

func (s *sessionService) ensureQueues(ctx context.Context) error {
	cards := s.snapshot()
	for _, tag := range s.defaultTags {
		if err := s.ledger.EnsureQueue(ctx, tag, models.FilterByTag(cards, tag)); err != nil {
			return errors.NewInternalError(err)
		}
	}
	return nil
}

func (s *sessionService) State(ctx context.Context) (scheduler.State, error) {
	st, err := s.sched.State(ctx)
	if err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	return st, nil
}

func (s *sessionService) SelectTag(ctx context.Context, tag string) (scheduler.State, error) {
	if tag == "" {
		return scheduler.State{}, errors.NewValidationError("tag", "cannot be empty")
	}

	log := logger.FromContext(ctx)
	log.Debug("selecting tag %q", tag)

	cards := models.FilterByTag(s.snapshot(), tag)
	if len(cards) == 0 {
		return scheduler.State{}, errors.NewNotFoundError("tag", tag)
	}

	if err := s.ledger.SetActiveTag(ctx, tag); err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	if err := s.ledger.EnsureQueue(ctx, tag, cards); err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	s.sched.Reset()
	return s.State(ctx)
}

func (s *sessionService) SetViewport(ctx context.Context, height float64) (scheduler.State, error) {
	if height <= 0 {
		return scheduler.State{}, errors.NewValidationError("height", "must be positive")
	}
	s.sched.SetViewport(height)
	return s.State(ctx)
}

func (s *sessionService) Advance(ctx context.Context) (scheduler.State, error) {
	st, err := s.sched.Advance(ctx)
	if err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	return st, nil
}

func (s *sessionService) Retreat(ctx context.Context) (scheduler.State, error) {
	st, err := s.sched.Retreat(ctx)
	if err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	return st, nil
}

func (s *sessionService) Wheel(ctx context.Context, delta float64) (scheduler.State, error) {
	st, err := s.sched.Wheel(ctx, delta)
	if err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	return st, nil
}

func (s *sessionService) Key(ctx context.Context, key string) (scheduler.State, error) {
	if key == "" {
		return scheduler.State{}, errors.NewValidationError("key", "cannot be empty")
	}
	st, err := s.sched.HandleKey(ctx, key)
	if err != nil {
		return scheduler.State{}, errors.NewInternalError(err)
	}
	return st, nil
}

func (s *sessionService) Drag(ctx context.Context, phase DragPhase, y float64, at time.Time) (scheduler.State, error) {
	if at.IsZero() {
		at = time.Now()
	}
	switch phase {
	case DragPhaseStart:
		s.sched.DragStart(y, at)
		return s.State(ctx)
	case DragPhaseMove:
		st, err := s.sched.DragMove(ctx, y, at)
		if err != nil {
			return scheduler.State{}, errors.NewInternalError(err)
		}
		return st, nil
	case DragPhaseEnd:
		st, err := s.sched.DragEnd(ctx)
		if err != nil {
			return scheduler.State{}, errors.NewInternalError(err)
		}
		return st, nil
	}
	return scheduler.State{}, errors.NewValidationError("phase", "must be start, move, or end")
}

func (s *sessionService) Answer(ctx context.Context, input string) (AnswerResult, error) {
	log := logger.FromContext(ctx)

	card, ok := s.sched.CurrentCard(ctx)
	if !ok {
		return AnswerResult{}, errors.NewNotFoundError("current card", s.ledger.ActiveTag())
	}

	correct, err := s.verifier.CheckAnswer(ctx, input, card.Answer)
	if err != nil {
		return AnswerResult{}, errors.NewInternalError(err)
	}
	if correct {
		if err := s.ledger.MarkAnswered(ctx, s.ledger.ActiveTag(), card.ID); err != nil {
			return AnswerResult{}, errors.NewInternalError(err)
		}
		log.Debug("card %d answered correctly", card.ID)
	}

	st, err := s.State(ctx)
	if err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{Correct: correct, Card: card, State: st}, nil
}

func (s *sessionService) Cards(ctx context.Context) ([]models.Card, error) {
	return s.snapshot(), nil
}

func (s *sessionService) Tags(ctx context.Context) ([]string, error) {
	return models.UniqueTags(s.snapshot()), nil
}

func (s *sessionService) snapshot() []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Card, len(s.cards))
	copy(out, s.cards)
	return out
}
