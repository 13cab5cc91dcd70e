package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/store"
)

// Shuffler produces a shuffled copy of a card slice. Satisfied by the
// compute worker.
type Shuffler interface {
	Shuffle(ctx context.Context, cards []models.Card) ([]models.Card, error)
}

// Ledger owns all per-category progress and writes every mutation through to
// the key-value store. A single mutex serializes mutations, so the
// answered-implies-seen invariant holds at every observable point: MarkAnswered
// updates both sets inside one critical section.
type Ledger struct {
	mu        sync.Mutex
	kv        store.KV
	shuffler  Shuffler
	log       *logger.Logger
	byTag     map[string]*TagProgress
	activeTag string
	sessionID string
}

// NewLedger creates an empty ledger with a fresh session token. Tokens are
// generated per process, so after a restart Init never matches the stored
// token and reshuffles every queue. Call Init before use.
func NewLedger(kv store.KV, shuffler Shuffler) *Ledger {
	return NewLedgerWithSession(kv, shuffler, uuid.NewString())
}

// NewLedgerWithSession pins the session token. Init skips the reshuffle when
// the stored token matches, which keeps queue order stable across
// re-initializations within one session.
func NewLedgerWithSession(kv store.KV, shuffler Shuffler, sessionID string) *Ledger {
	return &Ledger{
		kv:        kv,
		shuffler:  shuffler,
		log:       logger.Default().WithPrefix("progress"),
		byTag:     make(map[string]*TagProgress),
		sessionID: sessionID,
	}
}

// Init restores persisted progress against the given card repository and
// establishes the session. When the ledger's token differs from the stored
// one every queue is reshuffled, then the token is persisted. Categories in
// defaultTags with no stored record are seeded with a shuffled queue of
// their cards.
func (l *Ledger) Init(ctx context.Context, cards []models.Card, defaultTags []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cardsByID := models.CardsByID(cards)

	stored, ok, err := l.kv.Get(ctx, store.KeyProgress)
	if err != nil {
		return fmt.Errorf("loading progress: %w", err)
	}
	if ok {
		var serialized models.SerializedProgress
		if err := json.Unmarshal([]byte(stored), &serialized); err != nil {
			l.log.Warn("discarding unreadable progress: %v", err)
		} else {
			l.byTag = Deserialize(serialized, cardsByID)
		}
	}

	prevSession, _, err := l.kv.Get(ctx, store.KeySessionID)
	if err != nil {
		return fmt.Errorf("loading session id: %w", err)
	}
	if prevSession != l.sessionID {
		l.log.Info("new session %s, reshuffling %d categories", l.sessionID, len(l.byTag))
		for tag, p := range l.byTag {
			shuffled, err := l.shuffler.Shuffle(ctx, p.Queue)
			if err != nil {
				return fmt.Errorf("reshuffling %q: %w", tag, err)
			}
			p.Queue = shuffled
		}
	}
	if err := l.kv.Set(ctx, store.KeySessionID, l.sessionID); err != nil {
		return fmt.Errorf("persisting session id: %w", err)
	}

	for _, tag := range defaultTags {
		if _, exists := l.byTag[tag]; exists {
			continue
		}
		p := NewTagProgress()
		shuffled, err := l.shuffler.Shuffle(ctx, models.FilterByTag(cards, tag))
		if err != nil {
			return fmt.Errorf("seeding %q: %w", tag, err)
		}
		p.Queue = shuffled
		l.byTag[tag] = p
	}

	savedTag, ok, err := l.kv.Get(ctx, store.KeyActiveTag)
	if err != nil {
		return fmt.Errorf("loading active tag: %w", err)
	}
	if ok && savedTag != "" {
		l.activeTag = savedTag
	} else if len(defaultTags) > 0 {
		l.activeTag = defaultTags[0]
	}

	return l.persistLocked(ctx)
}

// Get returns a deep copy of the record for tag. A category with no history
// yields an empty record, never nil.
func (l *Ledger) Get(tag string) TagProgress {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.byTag[tag]
	if !ok {
		return TagProgress{
			Answered: make(map[int]struct{}),
			Seen:     make(map[int]struct{}),
		}
	}
	return p.Clone()
}

// MarkAnswered records a correct answer for id under tag. The id enters both
// the answered and seen sets in one transition, then the full ledger is
// persisted.
func (l *Ledger) MarkAnswered(ctx context.Context, tag string, id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.recordLocked(tag)
	p.Answered[id] = struct{}{}
	p.Seen[id] = struct{}{}
	return l.persistLocked(ctx)
}

// RecordSeen records that id has left the presentation window under tag.
func (l *Ledger) RecordSeen(ctx context.Context, tag string, id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.recordLocked(tag)
	p.Seen[id] = struct{}{}
	return l.persistLocked(ctx)
}

// EnsureQueue guarantees every card in cards appears in tag's queue. Cards
// already queued keep their position; missing cards are appended in the order
// given. This is how a grown dataset reaches an existing category without
// disturbing the learner's place in it.
func (l *Ledger) EnsureQueue(ctx context.Context, tag string, cards []models.Card) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.recordLocked(tag)

	queued := make(map[int]struct{}, len(p.Queue))
	for _, c := range p.Queue {
		queued[c.ID] = struct{}{}
	}
	added := 0
	for _, c := range cards {
		if _, ok := queued[c.ID]; !ok {
			p.Queue = append(p.Queue, c)
			queued[c.ID] = struct{}{}
			added++
		}
	}
	if added > 0 {
		l.log.Debug("appended %d cards to %q queue", added, tag)
	}
	return l.persistLocked(ctx)
}

// SetActiveTag switches the active category and persists the choice.
func (l *Ledger) SetActiveTag(ctx context.Context, tag string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activeTag = tag
	if err := l.kv.Set(ctx, store.KeyActiveTag, tag); err != nil {
		return fmt.Errorf("persisting active tag: %w", err)
	}
	return nil
}

// ActiveTag returns the currently selected category.
func (l *Ledger) ActiveTag() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeTag
}

// SessionID returns the token generated for this process lifetime.
func (l *Ledger) SessionID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessionID
}

// AnsweredCards returns the cards answered correctly in any category. This is
// the pool the quiz draws from.
func (l *Ledger) AnsweredCards(cards []models.Card) []models.Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	answered := make(map[int]struct{})
	for _, p := range l.byTag {
		for id := range p.Answered {
			answered[id] = struct{}{}
		}
	}
	var out []models.Card
	for _, c := range cards {
		if _, ok := answered[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Counts reports answered count and queue length for tag.
func (l *Ledger) Counts(tag string) (answered, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.byTag[tag]
	if !ok {
		return 0, 0
	}
	return len(p.Answered), len(p.Queue)
}

func (l *Ledger) recordLocked(tag string) *TagProgress {
	p, ok := l.byTag[tag]
	if !ok {
		p = NewTagProgress()
		l.byTag[tag] = p
	}
	return p
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(Serialize(l.byTag))
	if err != nil {
		return fmt.Errorf("serializing progress: %w", err)
	}
	if err := l.kv.Set(ctx, store.KeyProgress, string(data)); err != nil {
		return fmt.Errorf("persisting progress: %w", err)
	}
	if l.activeTag != "" {
		if err := l.kv.Set(ctx, store.KeyActiveTag, l.activeTag); err != nil {
			return fmt.Errorf("persisting active tag: %w", err)
		}
	}
	return nil
}
