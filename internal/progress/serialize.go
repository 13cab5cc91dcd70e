package progress

import (
	"sort"

	"github.com/kantoku/kantoku/internal/models"
)

// TagProgress is the in-memory progress record for one category: the set of
// correctly answered ids, the set of ids that have left the presentation
// window, and the ordered queue the learner traverses. Answered is always a
// subset of Seen.
type TagProgress struct {
	Answered map[int]struct{}
	Seen     map[int]struct{}
	Queue    []models.Card
}

// NewTagProgress returns an empty record.
func NewTagProgress() *TagProgress {
	return &TagProgress{
		Answered: make(map[int]struct{}),
		Seen:     make(map[int]struct{}),
	}
}

// Clone deep-copies the record so callers can read it without holding the
// ledger lock.
func (p *TagProgress) Clone() TagProgress {
	out := TagProgress{
		Answered: make(map[int]struct{}, len(p.Answered)),
		Seen:     make(map[int]struct{}, len(p.Seen)),
		Queue:    make([]models.Card, len(p.Queue)),
	}
	for id := range p.Answered {
		out.Answered[id] = struct{}{}
	}
	for id := range p.Seen {
		out.Seen[id] = struct{}{}
	}
	copy(out.Queue, p.Queue)
	return out
}

// Unseen returns the queue filtered down to cards not yet seen, preserving
// queue order. This is the view the scheduler navigates.
func (p *TagProgress) Unseen() []models.Card {
	var out []models.Card
	for _, c := range p.Queue {
		if _, seen := p.Seen[c.ID]; !seen {
			out = append(out, c)
		}
	}
	return out
}

// Serialize converts in-memory progress to its durable form. Sets become
// sorted id sequences; the order is irrelevant to correctness but sorting
// keeps the persisted value stable. Queue cards are denormalized so the
// queue survives dataset reloads.
func Serialize(byTag map[string]*TagProgress) models.SerializedProgress {
	out := make(models.SerializedProgress, len(byTag))
	for tag, p := range byTag {
		s := models.SerializedTagProgress{
			AnsweredCards: sortedIDs(p.Answered),
			SwipedCards:   sortedIDs(p.Seen),
			CardQueue:     make([]models.QueueCard, 0, len(p.Queue)),
		}
		for _, c := range p.Queue {
			s.CardQueue = append(s.CardQueue, models.QueueCardOf(c))
		}
		out[tag] = s
	}
	return out
}

// Deserialize rebuilds in-memory progress from its durable form. Ids that no
// longer resolve against the card repository are dropped; queue entries are
// rehydrated to full cards through the repository lookup.
func Deserialize(data models.SerializedProgress, cardsByID map[int]models.Card) map[string]*TagProgress {
	out := make(map[string]*TagProgress, len(data))
	for tag, s := range data {
		p := NewTagProgress()
		for _, id := range s.AnsweredCards {
			if _, ok := cardsByID[id]; ok {
				p.Answered[id] = struct{}{}
			}
		}
		for _, id := range s.SwipedCards {
			if _, ok := cardsByID[id]; ok {
				p.Seen[id] = struct{}{}
			}
		}
		for _, qc := range s.CardQueue {
			if card, ok := cardsByID[qc.ID]; ok {
				p.Queue = append(p.Queue, card)
			}
		}
		out[tag] = p
	}
	return out
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
