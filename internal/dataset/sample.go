package dataset

import "github.com/kantoku/kantoku/internal/models"

// SampleCards returns the built-in starter set used when the dataset cannot
// be loaded and no snapshot has been persisted yet.
func SampleCards() []models.Card {
	n5 := []string{"JLPT N5"}
	return []models.Card{
		{ID: 1, Word: "水", Meaning: "water", Answer: "みず", Tags: n5},
		{ID: 2, Word: "火", Meaning: "fire", Answer: "ひ", Tags: n5},
		{ID: 3, Word: "木", Meaning: "tree", Answer: "き", Tags: n5},
		{ID: 4, Word: "金", Meaning: "gold, money", Answer: "きん", Tags: n5},
		{ID: 5, Word: "土", Meaning: "earth", Answer: "つち", Tags: n5},
		{ID: 6, Word: "日", Meaning: "sun, day", Answer: "ひ", Tags: n5},
		{ID: 7, Word: "月", Meaning: "moon, month", Answer: "つき", Tags: n5},
		{ID: 8, Word: "山", Meaning: "mountain", Answer: "やま", Tags: n5},
		{ID: 9, Word: "川", Meaning: "river", Answer: "かわ", Tags: n5},
		{ID: 10, Word: "雨", Meaning: "rain", Answer: "あめ", Tags: n5},
		{ID: 11, Word: "風", Meaning: "wind", Answer: "かぜ", Tags: n5},
		{ID: 12, Word: "空", Meaning: "sky", Answer: "そら", Tags: n5},
		{ID: 13, Word: "花", Meaning: "flower", Answer: "はな", Tags: n5},
		{ID: 14, Word: "雪", Meaning: "snow", Answer: "ゆき", Tags: n5},
		{ID: 15, Word: "星", Meaning: "star", Answer: "ほし", Tags: n5},
	}
}
