package dataset_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoku/kantoku/internal/dataset"
	"github.com/kantoku/kantoku/internal/testutil"
)

type staticSource struct {
	data []byte
	err  error
}

func (s *staticSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.data, s.err
}

func TestLoader_LoadParsesAndStores(t *testing.T) {
	kv := testutil.NewTestKV(t)
	src := &staticSource{data: []byte(csvFixture)}
	loader := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	result, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Cards, 3)
	assert.True(t, result.Changed, "first load against an empty store is a change")

	stored, ok, err := loader.StoredCards(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "load must persist the merged snapshot")
	assert.Equal(t, result.Cards, stored)
}

func TestLoader_LoadPreservesStoredCardsOnShrink(t *testing.T) {
	kv := testutil.NewTestKV(t)
	src := &staticSource{data: []byte(csvFixture)}
	loader := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Upstream now ships only one row.
	src.data = []byte("id,word,meaning,answer,tag\n1,水,water,みず,JLPT N5\n")
	result, err := loader.Update(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Cards, 3, "previously stored cards survive upstream shrinkage")
}

func TestLoader_FallbackToStoredSnapshot(t *testing.T) {
	kv := testutil.NewTestKV(t)
	src := &staticSource{data: []byte(csvFixture)}
	loader := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	src.err = fmt.Errorf("disk on fire")
	loader2 := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	result, err := loader2.Load(context.Background())
	require.ErrorIs(t, err, dataset.ErrDatasetUnavailable)
	assert.Len(t, result.Cards, 3, "stored snapshot is the fallback")
}

func TestLoader_FallbackToSampleSet(t *testing.T) {
	kv := testutil.NewTestKV(t)
	src := &staticSource{err: fmt.Errorf("no such file")}
	loader := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	result, err := loader.Load(context.Background())
	require.ErrorIs(t, err, dataset.ErrDatasetUnavailable)
	assert.Equal(t, dataset.SampleCards(), result.Cards, "sample set is the last resort")
}

func TestLoader_EmptyDatasetIsFailure(t *testing.T) {
	kv := testutil.NewTestKV(t)
	src := &staticSource{data: []byte("   \n")}
	loader := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, dataset.ErrDatasetUnavailable)
}

func TestLoader_UpdateReportsUpToDate(t *testing.T) {
	kv := testutil.NewTestKV(t)
	src := &staticSource{data: []byte(csvFixture)}
	loader := dataset.NewLoaderWithSource("dataset.csv", src, kv)

	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	result, err := loader.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Changed, "re-fetching identical data is not a change")
}
