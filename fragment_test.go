package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStroke(points ...StrokePoint) Stroke {
	return Stroke{Points: points, Color: "#E10600", StrokeWidth: 2}
}

func TestNewFragment_FrameFromElapsed(t *testing.T) {
	strokes := []Stroke{testStroke(StrokePoint{X: 1, Y: 2})}

	f := NewFragment(12345*time.Millisecond, "ada", strokes, 80, 40)
	assert.Equal(t, 124, f.FrameNumber)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "ada", f.Author)
	assert.Equal(t, time.UTC, f.Timestamp.Location())
	assert.NoError(t, f.Validate())

	wrapped := NewFragment(12345*time.Millisecond+LoopDuration, "ada", strokes, 80, 40)
	assert.Equal(t, f.FrameNumber, wrapped.FrameNumber)
	assert.NotEqual(t, f.ID, wrapped.ID)
}

func TestNewFragment_MatchesClockFrame(t *testing.T) {
	var shown FrameRender
	clock := NewLoopClock(func(fr FrameRender) { shown = fr }, nil)
	clock.Tick(at(0))
	for d := 16 * time.Millisecond; d < 7*time.Second; d += 16 * time.Millisecond {
		clock.Tick(at(d))
	}
	clock.Freeze(shown.Elapsed)

	pinned, _ := clock.FrozenAt()
	f := NewFragment(pinned, "ada", []Stroke{testStroke(StrokePoint{})}, 10, 10)
	assert.Equal(t, shown.Index, f.FrameNumber)
}

func TestDrawingFragment_Validate(t *testing.T) {
	valid := DrawingFragment{FrameNumber: 1, Width: 10, Height: 10, Strokes: []Stroke{testStroke(StrokePoint{})}}
	require.NoError(t, valid.Validate())

	outOfRange := valid
	outOfRange.FrameNumber = 0
	assert.ErrorIs(t, outOfRange.Validate(), ErrFrameOutOfRange)
	outOfRange.FrameNumber = LoopFrames + 1
	assert.ErrorIs(t, outOfRange.Validate(), ErrFrameOutOfRange)

	noSurface := valid
	noSurface.Height = 0
	assert.ErrorIs(t, noSurface.Validate(), ErrEmptySurface)

	noInk := valid
	noInk.Strokes = []Stroke{testStroke()}
	assert.ErrorIs(t, noInk.Validate(), ErrNoStrokes)
}

func TestGroupByFrame(t *testing.T) {
	fragments := []DrawingFragment{
		{ID: "a", FrameNumber: 5},
		{ID: "b", FrameNumber: 2},
		{ID: "c", FrameNumber: 5},
	}
	byFrame := GroupByFrame(fragments)

	require.Len(t, byFrame, 2)
	assert.Equal(t, []string{"a", "c"}, fragmentIDs(byFrame[5]))
	assert.Equal(t, []string{"b"}, fragmentIDs(byFrame[2]))
	assert.Empty(t, byFrame[7])
	assert.Equal(t, []int{2, 5}, SortedFrames(byFrame))
}

func TestGroupByFrame_Empty(t *testing.T) {
	assert.Empty(t, GroupByFrame(nil))
	assert.Empty(t, SortedFrames(GroupByFrame(nil)))
}

func fragmentIDs(fragments []DrawingFragment) []string {
	ids := make([]string, len(fragments))
	for i, f := range fragments {
		ids[i] = f.ID
	}
	return ids
}
