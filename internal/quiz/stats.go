package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/store"
)

// DefaultTopLimit is how many rows each side of the best/worst split shows.
const DefaultTopLimit = 7

// Stats maintains the per-card accuracy table, keyed by word, persisted as
// one JSON document.
type Stats struct {
	mu  sync.Mutex
	kv  store.KV
	log *logger.Logger
}

// NewStats creates the accuracy table over the given store.
func NewStats(kv store.KV) *Stats {
	return &Stats{kv: kv, log: logger.Default().WithPrefix("stats")}
}

// Record updates the card's counters after a quiz answer and recomputes its
// accuracy percentage.
func (s *Stats) Record(ctx context.Context, card models.Card, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	stat, ok := table[card.Word]
	if !ok {
		stat = models.CardStat{Word: card.Word, Meaning: card.Meaning, Answer: card.Answer}
	}
	if correct {
		stat.CorrectCount++
	} else {
		stat.IncorrectCount++
	}
	stat.TotalAttempts++
	stat.Accuracy = float64(stat.CorrectCount) / float64(stat.TotalAttempts) * 100
	table[card.Word] = stat

	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("serializing stats: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyCardStats, string(raw)); err != nil {
		return fmt.Errorf("persisting stats: %w", err)
	}
	return nil
}

// All returns the full accuracy table.
func (s *Stats) All(ctx context.Context) (map[string]models.CardStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Top returns the attempted cards with the highest and lowest accuracy, up
// to limit rows each.
func (s *Stats) Top(ctx context.Context, limit int) (best, worst []models.CardStat, err error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	table, err := s.All(ctx)
	if err != nil {
		return nil, nil, err
	}

	attempted := make([]models.CardStat, 0, len(table))
	for _, stat := range table {
		if stat.TotalAttempts > 0 {
			attempted = append(attempted, stat)
		}
	}

	best = make([]models.CardStat, len(attempted))
	copy(best, attempted)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Accuracy > best[j].Accuracy })
	if len(best) > limit {
		best = best[:limit]
	}

	worst = attempted
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].Accuracy < worst[j].Accuracy })
	if len(worst) > limit {
		worst = worst[:limit]
	}
	return best, worst, nil
}

func (s *Stats) loadLocked(ctx context.Context) (map[string]models.CardStat, error) {
	raw, ok, err := s.kv.Get(ctx, store.KeyCardStats)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	table := make(map[string]models.CardStat)
	if !ok {
		return table, nil
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		s.log.Warn("discarding unreadable stats table: %v", err)
		return make(map[string]models.CardStat), nil
	}
	return table, nil
}
