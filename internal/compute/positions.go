package compute

// CardPosition is the transform the presentation collaborator applies to one
// visible queue index.
type CardPosition struct {
	Y      float64 `json:"y"`
	ZIndex int     `json:"z_index"`
}

// CardPositions computes transforms for the current card and the one below
// it. It is a pure function: identical inputs yield identical results
// whether it runs inline or on a worker goroutine.
func CardPositions(currentIndex int, viewportHeight, dragOffset float64, dragging bool) map[int]CardPosition {
	positions := make(map[int]CardPosition, 2)

	if dragging {
		positions[currentIndex] = CardPosition{Y: -dragOffset, ZIndex: 2}
		next := viewportHeight - dragOffset
		if next < 0 {
			next = 0
		}
		positions[currentIndex+1] = CardPosition{Y: next, ZIndex: 1}
		return positions
	}

	positions[currentIndex] = CardPosition{Y: 0, ZIndex: 2}
	positions[currentIndex+1] = CardPosition{Y: viewportHeight, ZIndex: 1}
	return positions
}
