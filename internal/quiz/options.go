package quiz

import (
	"github.com/kantoku/kantoku/internal/models"
)

// distractorCount is how many wrong choices accompany the correct answer in
// a multiple-choice round.
const distractorCount = 3

// AnswerOptions builds the shuffled multiple-choice options for a card: the
// correct answer plus three distractors drawn from the other answers in the
// pool. A pool with fewer than three distinct wrong answers pads by
// duplicating the last one, so the presentation always gets four options
// when any distractor exists at all.
func (s *Sampler) AnswerOptions(correct string, pool []models.Card) []string {
	seen := map[string]struct{}{}
	var distractors []string
	for _, c := range pool {
		if c.Answer == correct {
			continue
		}
		if _, ok := seen[c.Answer]; ok {
			continue
		}
		seen[c.Answer] = struct{}{}
		distractors = append(distractors, c.Answer)
	}
	if len(distractors) == 0 {
		return []string{correct}
	}
	for len(distractors) < distractorCount {
		distractors = append(distractors, distractors[len(distractors)-1])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	options := append([]string{correct}, distractors[:distractorCount]...)
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
