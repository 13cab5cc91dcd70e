package dataset

import (
	"sort"

	"github.com/kantoku/kantoku/internal/models"
)

// Merge reconciles a freshly parsed card set against the previously stored
// one. For cards present on both sides the incoming record wins, except that
// tags become the union of both sides (a learner's categorization never
// shrinks) and sentence fields fall back to the stored value when the
// incoming one is absent. Cards only in incoming are added; cards only in
// existing are kept, so upstream dataset shrinkage never discards rows the
// learner has progress against. The result is sorted by id.
//
// The second return value reports whether the merged set differs from
// existing.
func Merge(existing, incoming []models.Card) ([]models.Card, bool) {
	existingByID := models.CardsByID(existing)
	incomingByID := models.CardsByID(incoming)

	ids := make([]int, 0, len(existingByID)+len(incomingByID))
	for id := range existingByID {
		ids = append(ids, id)
	}
	for id := range incomingByID {
		if _, ok := existingByID[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	merged := make([]models.Card, 0, len(ids))
	changed := false

	for _, id := range ids {
		old, hasOld := existingByID[id]
		in, hasNew := incomingByID[id]

		switch {
		case hasOld && hasNew:
			m := in
			m.Tags = unionTags(old.Tags, in.Tags)
			if m.SentenceExample == "" {
				m.SentenceExample = old.SentenceExample
			}
			if m.SentenceMeaning == "" {
				m.SentenceMeaning = old.SentenceMeaning
			}
			if !m.Equal(old) {
				changed = true
			}
			merged = append(merged, m)
		case hasNew:
			merged = append(merged, in)
			changed = true
		default:
			merged = append(merged, old)
		}
	}

	return merged, changed
}

// unionTags keeps the existing tag order and appends incoming tags not
// already present.
func unionTags(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, t := range existing {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range incoming {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
