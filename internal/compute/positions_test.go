package compute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoku/kantoku/internal/compute"
)

func TestCardPositions_Idle(t *testing.T) {
	positions := compute.CardPositions(3, 900, 0, false)

	require.Len(t, positions, 2)
	assert.Equal(t, compute.CardPosition{Y: 0, ZIndex: 2}, positions[3], "current card should sit at rest")
	assert.Equal(t, compute.CardPosition{Y: 900, ZIndex: 1}, positions[4], "next card should wait below the viewport")
}

func TestCardPositions_Dragging(t *testing.T) {
	positions := compute.CardPositions(0, 900, 200, true)

	assert.Equal(t, compute.CardPosition{Y: -200, ZIndex: 2}, positions[0], "current card should track the drag")
	assert.Equal(t, compute.CardPosition{Y: 700, ZIndex: 1}, positions[1], "next card should follow in from below")
}

func TestCardPositions_DragBeyondViewportClampsNextCard(t *testing.T) {
	positions := compute.CardPositions(0, 900, 1200, true)

	assert.Equal(t, float64(0), positions[1].Y, "next card should not overshoot past the top")
}

func TestCardPositions_Deterministic(t *testing.T) {
	a := compute.CardPositions(5, 812, 130.5, true)
	b := compute.CardPositions(5, 812, 130.5, true)

	assert.Equal(t, a, b, "identical inputs must yield identical transforms")
}
