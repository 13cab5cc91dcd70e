package scheduler

// Window is the materialized slice of the deck around the current card.
// Everything outside it is skipped by the presentation layer.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"` // exclusive
}

// VisibleWindow computes the virtualization window for a deck of itemCount
// cards. The window starts one card before the current index so backward
// navigation has its target materialized, clamped so the window never runs
// past either end of the deck.
func VisibleWindow(currentIndex, itemCount, visibleItems int) Window {
	if itemCount <= 0 || visibleItems <= 0 {
		return Window{}
	}
	start := currentIndex - 1
	if max := itemCount - visibleItems; start > max {
		start = max
	}
	if start < 0 {
		start = 0
	}
	end := start + visibleItems
	if end > itemCount {
		end = itemCount
	}
	return Window{Start: start, End: end}
}

// Contains reports whether index falls inside the window.
func (w Window) Contains(index int) bool {
	return index >= w.Start && index < w.End
}
