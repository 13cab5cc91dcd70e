package quiz

// DeckSizes are the deck size choices offered to the learner.
var DeckSizes = []int{5, 10, 25, 50}

// MinPoolSize is how many mastered cards quiz mode requires before any deck
// can be drawn.
const MinPoolSize = 10

// AllowedSizes returns the deck size choices that fit a pool of poolSize
// mastered cards. A pool below MinPoolSize has none.
func AllowedSizes(poolSize int) []int {
	if poolSize < MinPoolSize {
		return nil
	}
	var out []int
	for _, size := range DeckSizes {
		if size <= poolSize {
			out = append(out, size)
		}
	}
	return out
}

// SizeAllowed reports whether size is a valid deck size for the pool.
func SizeAllowed(size, poolSize int) bool {
	for _, s := range AllowedSizes(poolSize) {
		if s == size {
			return true
		}
	}
	return false
}
