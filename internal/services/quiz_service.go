package services

import (
	"context"
	"fmt"

	"github.com/kantoku/kantoku/internal/compute"
	"github.com/kantoku/kantoku/internal/errors"
	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/progress"
	"github.com/kantoku/kantoku/internal/quiz"
)

// QuizCard is one deck entry handed to the presentation layer: the card plus
// its shuffled multiple-choice options.
type QuizCard struct {
	Card    models.Card `json:"card"`
	Options []string    `json:"options"`
}

// QuizService runs the quiz mode over the pool of mastered cards. Quiz mode
// stays locked until the learner has mastered quiz.MinPoolSize cards, and
// decks come only in the fixed sizes that fit the pool.
type QuizService interface {
	DeckSizes(ctx context.Context) (sizes []int, pool int, err error)
	BuildDeck(ctx context.Context, size int) ([]QuizCard, error)
	Answer(ctx context.Context, cardID int, answer string) (bool, error)
	Finish(ctx context.Context, score, total int) (models.QuizResult, error)
	History(ctx context.Context) ([]models.QuizResult, error)
	TopStats(ctx context.Context, limit int) (best, worst []models.CardStat, err error)
}

type quizService struct {
	ledger   *progress.Ledger
	sampler  *quiz.Sampler
	stats    *quiz.Stats
	history  *quiz.History
	verifier *compute.Worker
	cards    func() []models.Card
}

// NewQuizService creates a QuizService. cards supplies the current
// repository snapshot.
func NewQuizService(
	ledger *progress.Ledger,
	sampler *quiz.Sampler,
	stats *quiz.Stats,
	history *quiz.History,
	verifier *compute.Worker,
	cards func() []models.Card,
) QuizService {
	return &quizService{
		ledger:   ledger,
		sampler:  sampler,
		stats:    stats,
		history:  history,
		verifier: verifier,
		cards:    cards,
	}
}

func (s *quizService) DeckSizes(ctx context.Context) ([]int, int, error) {
	pool := len(s.ledger.AnsweredCards(s.cards()))
	return quiz.AllowedSizes(pool), pool, nil
}

func (s *quizService) BuildDeck(ctx context.Context, size int) ([]QuizCard, error) {
	log := logger.FromContext(ctx)

	pool := s.ledger.AnsweredCards(s.cards())
	if len(pool) < quiz.MinPoolSize {
		return nil, errors.NewValidationError("deck",
			fmt.Sprintf("requires %d mastered cards, have %d", quiz.MinPoolSize, len(pool)))
	}
	if !quiz.SizeAllowed(size, len(pool)) {
		return nil, errors.NewValidationError("size",
			fmt.Sprintf("must be one of %v and fit the %d mastered cards", quiz.DeckSizes, len(pool)))
	}

	table, err := s.stats.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	deck := s.sampler.BuildDeck(pool, table, size)
	log.Debug("built quiz deck of %d from pool of %d", len(deck), len(pool))

	out := make([]QuizCard, len(deck))
	for i, card := range deck {
		out[i] = QuizCard{Card: card, Options: s.sampler.AnswerOptions(card.Answer, pool)}
	}
	return out, nil
}

func (s *quizService) Answer(ctx context.Context, cardID int, answer string) (bool, error) {
	card, ok := models.CardsByID(s.cards())[cardID]
	if !ok {
		return false, errors.NewNotFoundError("card", cardID)
	}

	correct, err := s.verifier.CheckAnswer(ctx, answer, card.Answer)
	if err != nil {
		return false, errors.NewInternalError(err)
	}
	if err := s.stats.Record(ctx, card, correct); err != nil {
		return false, errors.NewInternalError(err)
	}
	return correct, nil
}

func (s *quizService) Finish(ctx context.Context, score, total int) (models.QuizResult, error) {
	if total <= 0 {
		return models.QuizResult{}, errors.NewValidationError("total", "must be positive")
	}
	if score < 0 || score > total {
		return models.QuizResult{}, errors.NewValidationError("score", "must be between 0 and total")
	}

	result, err := s.history.Record(ctx, score, total)
	if err != nil {
		return models.QuizResult{}, errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("quiz finished: %d/%d (%d%%)", score, total, result.Percentage)
	return result, nil
}

func (s *quizService) History(ctx context.Context) ([]models.QuizResult, error) {
	entries, err := s.history.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *quizService) TopStats(ctx context.Context, limit int) ([]models.CardStat, []models.CardStat, error) {
	best, worst, err := s.stats.Top(ctx, limit)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	return best, worst, nil
}
