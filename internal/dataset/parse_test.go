package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoku/kantoku/internal/dataset"
)

const csvFixture = `id,word,meaning,answer,tag,sentence_example,sentence_meaning
1,水,water,みず,JLPT N5,水を飲む。,I drink water.
2,火,fire,ひ,JLPT N5,,
3,,tree,き,JLPT N5,,
abc,金,gold,きん,JLPT N5,,
4,"月","moon, month",つき,JLPT N4,,
`

func TestParseCSV(t *testing.T) {
	cards := dataset.ParseCSV(csvFixture)

	require.Len(t, cards, 3, "rows missing a required field or with a bad id are dropped")

	assert.Equal(t, 1, cards[0].ID)
	assert.Equal(t, "水", cards[0].Word)
	assert.Equal(t, "water", cards[0].Meaning)
	assert.Equal(t, "みず", cards[0].Answer)
	assert.Equal(t, []string{"JLPT N5"}, cards[0].Tags)
	assert.Equal(t, "水を飲む。", cards[0].SentenceExample)
	assert.Equal(t, "I drink water.", cards[0].SentenceMeaning)

	assert.Equal(t, "moon, month", cards[2].Meaning, "quoted fields with commas must survive")
	assert.Equal(t, []string{"JLPT N4"}, cards[2].Tags)
}

func TestParseCSV_EmptyInput(t *testing.T) {
	assert.Empty(t, dataset.ParseCSV(""))
	assert.Empty(t, dataset.ParseCSV("id,word,meaning,answer\n"))
}
