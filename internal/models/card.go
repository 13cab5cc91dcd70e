package models

import "sort"

// Card is a single learning item from the dataset. Cards are immutable for
// the lifetime of a session; everything else references them by ID.
type Card struct {
	ID              int      `json:"id"`
	Word            string   `json:"word"`
	Meaning         string   `json:"meaning"`
	Answer          string   `json:"answer"`
	Tags            []string `json:"tags"`
	SentenceExample string   `json:"sentence_example,omitempty"`
	SentenceMeaning string   `json:"sentence_meaning,omitempty"`
}

// HasTag reports whether the card carries the given category tag.
func (c Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Equal compares all card fields. Tag order is significant: merge keeps tag
// order stable, so two cards that differ only in tag order count as changed.
func (c Card) Equal(other Card) bool {
	if c.ID != other.ID || c.Word != other.Word || c.Meaning != other.Meaning || c.Answer != other.Answer {
		return false
	}
	if c.SentenceExample != other.SentenceExample || c.SentenceMeaning != other.SentenceMeaning {
		return false
	}
	if len(c.Tags) != len(other.Tags) {
		return false
	}
	for i := range c.Tags {
		if c.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// CardsByID builds an ID-keyed lookup for a card slice.
func CardsByID(cards []Card) map[int]Card {
	m := make(map[int]Card, len(cards))
	for _, c := range cards {
		m[c.ID] = c
	}
	return m
}

// FilterByTag returns the cards carrying the given tag, preserving order.
func FilterByTag(cards []Card, tag string) []Card {
	var out []Card
	for _, c := range cards {
		if c.HasTag(tag) {
			out = append(out, c)
		}
	}
	return out
}

// UniqueTags returns every tag present in the card set, sorted.
func UniqueTags(cards []Card) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, c := range cards {
		for _, t := range c.Tags {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
