package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/store"
)

// ErrDatasetUnavailable reports that the dataset file could not be read or
// yielded no cards. Callers still receive a usable fallback card set.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// Source supplies raw dataset bytes. The default reads a local file; the
// network retrieval strategy stays outside the engine.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the dataset from a file on disk.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.Path)
}

// LoadResult is the outcome of a dataset load or update.
type LoadResult struct {
	Cards   []models.Card // merged repository snapshot
	Prior   []models.Card // the previously stored snapshot, before merging
	Changed bool          // whether the merge altered the stored snapshot
}

// Loader produces the merged card repository: it fetches and parses the
// dataset, merges it against the stored snapshot, and persists the result.
type Loader struct {
	path   string
	source Source
	cache  *TextCache
	kv     store.KV
	log    *logger.Logger
}

// NewLoader creates a loader reading from path and persisting through kv.
func NewLoader(path string, kv store.KV) *Loader {
	return &Loader{
		path:   path,
		source: FileSource{Path: path},
		cache:  &TextCache{},
		kv:     kv,
		log:    logger.Default().WithPrefix("dataset"),
	}
}

// NewLoaderWithSource creates a loader with a custom byte source, used in
// tests and by callers that fetch the dataset themselves.
func NewLoaderWithSource(path string, source Source, kv store.KV) *Loader {
	l := NewLoader(path, kv)
	l.source = source
	return l
}

// Load fetches (or reuses cached) dataset text, merges it with the stored
// snapshot, persists the merged set, and returns it. On failure it returns
// the stored snapshot, or the built-in sample set when nothing is stored,
// together with ErrDatasetUnavailable.
func (l *Loader) Load(ctx context.Context) (LoadResult, error) {
	parsed, err := l.fetchAndParse(ctx, false)
	if err != nil {
		return l.fallback(ctx, err)
	}

	prior, _, err := l.StoredCards(ctx)
	if err != nil {
		return LoadResult{}, err
	}

	merged, changed := Merge(prior, parsed)
	if err := l.storeCards(ctx, merged); err != nil {
		return LoadResult{}, err
	}

	l.log.Info("loaded %d cards (%d parsed, changed=%v)", len(merged), len(parsed), changed)
	return LoadResult{Cards: merged, Prior: prior, Changed: changed}, nil
}

// Update forces a fresh fetch, bypassing the text cache, and merges the
// result into the stored snapshot. Used by the manual refresh operation and
// the periodic refresh job.
func (l *Loader) Update(ctx context.Context) (LoadResult, error) {
	l.cache.Invalidate()

	parsed, err := l.fetchAndParse(ctx, true)
	if err != nil {
		return LoadResult{}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	prior, _, err := l.StoredCards(ctx)
	if err != nil {
		return LoadResult{}, err
	}

	merged, changed := Merge(prior, parsed)
	if changed {
		if err := l.storeCards(ctx, merged); err != nil {
			return LoadResult{}, err
		}
		l.log.Info("dataset updated: %d cards", len(merged))
	} else {
		l.log.Info("dataset already up to date")
	}
	return LoadResult{Cards: merged, Prior: prior, Changed: changed}, nil
}

// StoredCards returns the persisted repository snapshot, if any.
func (l *Loader) StoredCards(ctx context.Context) ([]models.Card, bool, error) {
	raw, ok, err := l.kv.Get(ctx, store.KeyCards)
	if err != nil || !ok {
		return nil, false, err
	}
	var cards []models.Card
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		l.log.Warn("stored cards are corrupt, ignoring: %v", err)
		return nil, false, nil
	}
	return cards, true, nil
}

func (l *Loader) storeCards(ctx context.Context, cards []models.Card) error {
	raw, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, store.KeyCards, string(raw))
}

func (l *Loader) fetchAndParse(ctx context.Context, force bool) ([]models.Card, error) {
	var data []byte
	if text, ok := l.cache.Get(); ok && !force {
		data = []byte(text)
	} else {
		fetched, err := l.source.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(fetched))) == 0 {
			return nil, fmt.Errorf("dataset file is empty")
		}
		data = fetched
	}

	var cards []models.Card
	if strings.EqualFold(filepath.Ext(l.path), ".xlsx") {
		parsed, err := ParseXLSX(data)
		if err != nil {
			return nil, err
		}
		cards = parsed
	} else {
		cards = ParseCSV(string(data))
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("no cards parsed from dataset")
	}

	l.cache.Put(string(data))
	return cards, nil
}

func (l *Loader) fallback(ctx context.Context, cause error) (LoadResult, error) {
	l.log.Error("dataset load failed: %v", cause)

	stored, ok, err := l.StoredCards(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	if ok && len(stored) > 0 {
		l.log.Warn("falling back to %d stored cards", len(stored))
		return LoadResult{Cards: stored, Prior: stored}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, cause)
	}

	sample := SampleCards()
	l.log.Warn("falling back to built-in sample set of %d cards", len(sample))
	return LoadResult{Cards: sample, Prior: nil}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, cause)
}
