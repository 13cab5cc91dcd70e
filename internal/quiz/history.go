package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/store"
)

// historyLimit caps the persisted log at the most recent entries.
const historyLimit = 10

// History is the append-only log of finished quizzes.
type History struct {
	mu  sync.Mutex
	kv  store.KV
	log *logger.Logger
}

// NewHistory creates the quiz history log over the given store.
func NewHistory(kv store.KV) *History {
	return &History{kv: kv, log: logger.Default().WithPrefix("history")}
}

// Record appends a finished quiz and drops everything but the newest ten
// entries.
func (h *History) Record(ctx context.Context, score, total int) (models.QuizResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := models.QuizResult{
		Date:     time.Now().UTC(),
		Score:    score,
		Total:    total,
		DeckSize: total,
	}
	if total > 0 {
		result.Percentage = int(math.Round(float64(score) / float64(total) * 100))
	}

	entries, err := h.loadLocked(ctx)
	if err != nil {
		return models.QuizResult{}, err
	}
	entries = append(entries, result)
	if len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return models.QuizResult{}, fmt.Errorf("serializing history: %w", err)
	}
	if err := h.kv.Set(ctx, store.KeyQuizHistory, string(raw)); err != nil {
		return models.QuizResult{}, fmt.Errorf("persisting history: %w", err)
	}
	return result, nil
}

// All returns the log, oldest first.
func (h *History) All(ctx context.Context) ([]models.QuizResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadLocked(ctx)
}

func (h *History) loadLocked(ctx context.Context) ([]models.QuizResult, error) {
	raw, ok, err := h.kv.Get(ctx, store.KeyQuizHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var entries []models.QuizResult
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		h.log.Warn("discarding unreadable quiz history: %v", err)
		return nil, nil
	}
	return entries, nil
}
