package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/store"
)

// Version is the progress schema version written after a successful
// migration. A stored value equal to this makes migration a no-op.
const Version = "1.0.0"

// Migrator rewrites persisted progress after a dataset reload so that no
// category retains ids that no longer belong to it. Membership is checked
// against the merged dataset and, as a safety net, the pre-merge snapshot:
// an id counts as valid for a tag if either version of that card carries the
// tag.
type Migrator struct {
	kv  store.KV
	log *logger.Logger
}

// NewMigrator creates a migrator over the given store.
func NewMigrator(kv store.KV) *Migrator {
	return &Migrator{kv: kv, log: logger.Default().WithPrefix("migrate")}
}

// Run migrates persisted progress to the current schema version. Running it
// twice is harmless: the version gate short-circuits the second call.
func (m *Migrator) Run(ctx context.Context, merged, prior []models.Card) error {
	stored, ok, err := m.kv.Get(ctx, store.KeyProgressVersion)
	if err != nil {
		return fmt.Errorf("reading progress version: %w", err)
	}
	if ok && stored == Version {
		return nil
	}

	raw, ok, err := m.kv.Get(ctx, store.KeyProgress)
	if err != nil {
		return fmt.Errorf("reading progress: %w", err)
	}
	if ok {
		var data models.SerializedProgress
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			m.log.Warn("skipping migration of unreadable progress: %v", err)
		} else {
			migrated := m.migrate(data, models.CardsByID(merged), models.CardsByID(prior))
			out, err := json.Marshal(migrated)
			if err != nil {
				return fmt.Errorf("serializing migrated progress: %w", err)
			}
			if err := m.kv.Set(ctx, store.KeyProgress, string(out)); err != nil {
				return fmt.Errorf("persisting migrated progress: %w", err)
			}
		}
	}

	if err := m.kv.Set(ctx, store.KeyProgressVersion, Version); err != nil {
		return fmt.Errorf("persisting progress version: %w", err)
	}
	m.log.Info("progress migrated to version %s", Version)
	return nil
}

func (m *Migrator) migrate(data models.SerializedProgress, merged, prior map[int]models.Card) models.SerializedProgress {
	out := make(models.SerializedProgress, len(data))
	for tag, p := range data {
		valid := func(id int) bool {
			if c, ok := merged[id]; ok && c.HasTag(tag) {
				return true
			}
			if c, ok := prior[id]; ok && c.HasTag(tag) {
				return true
			}
			return false
		}

		filtered := models.SerializedTagProgress{}
		for _, id := range p.AnsweredCards {
			if valid(id) {
				filtered.AnsweredCards = append(filtered.AnsweredCards, id)
			}
		}
		for _, id := range p.SwipedCards {
			if valid(id) {
				filtered.SwipedCards = append(filtered.SwipedCards, id)
			}
		}
		for _, qc := range p.CardQueue {
			if valid(qc.ID) {
				filtered.CardQueue = append(filtered.CardQueue, qc)
			}
		}

		// Filtering a non-empty record down to nothing means the tag
		// metadata, not the learner's history, is suspect. Keep the
		// original rather than wipe real progress.
		hadData := len(p.AnsweredCards) > 0 || len(p.SwipedCards) > 0 || len(p.CardQueue) > 0
		keptData := len(filtered.AnsweredCards) > 0 || len(filtered.SwipedCards) > 0 || len(filtered.CardQueue) > 0
		if hadData && !keptData {
			m.log.Warn("migration would empty %q, keeping original record", tag)
			out[tag] = p
			continue
		}

		dropped := len(p.AnsweredCards) - len(filtered.AnsweredCards)
		if dropped > 0 {
			m.log.Debug("dropped %d answered ids from %q", dropped, tag)
		}
		out[tag] = filtered
	}
	return out
}
