package main

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *TerminalRenderer {
	return NewTerminalRenderer(NewShimmerGenerator(NoiseSeed))
}

func TestSurfaceSize(t *testing.T) {
	w, h := SurfaceSize(80, 20)
	assert.Equal(t, 80.0, w)
	assert.Equal(t, 40.0, h)
}

func TestRender_BlankScene(t *testing.T) {
	out := newTestRenderer().Render(Scene{}, 10, 3)
	blank := strings.Repeat(" ", 10)
	assert.Equal(t, blank+"\n"+blank+"\n"+blank, out)
}

func TestRender_NoArea(t *testing.T) {
	assert.Equal(t, "", newTestRenderer().Render(Scene{}, 0, 5))
	assert.Equal(t, "", newTestRenderer().Render(Scene{}, 5, 0))
}

func TestRender_LineKeepsGridShape(t *testing.T) {
	const cols, rows = 60, 12
	w, h := SurfaceSize(cols, rows)
	points := newTestSampler().GeneratePoints(3*time.Second, w, h)
	out := newTestRenderer().Render(Scene{Curve: BuildCurve(points), Elapsed: 3 * time.Second}, cols, rows)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, rows)
	for _, l := range lines {
		assert.Equal(t, cols, lipgloss.Width(l))
	}
	assert.True(t, strings.ContainsAny(out, "▀▄"))
}

func TestRender_PendingInkAndEraser(t *testing.T) {
	tr := newTestRenderer()
	dot := Stroke{Points: []StrokePoint{{X: 2, Y: 2}}, Color: "#FF0000", StrokeWidth: 1}

	lines := strings.Split(tr.Render(Scene{Pending: []Stroke{dot}}, 10, 3), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat(" ", 10), lines[0])
	assert.Contains(t, lines[1], "▀")
	assert.Equal(t, strings.Repeat(" ", 10), lines[2])

	eraser := dot
	eraser.IsEraser = true
	out := tr.Render(Scene{Pending: []Stroke{dot, eraser}}, 10, 3)
	assert.NotContains(t, out, "▀")
}

func TestRender_FragmentScaledToSurface(t *testing.T) {
	f := DrawingFragment{
		FrameNumber: 1,
		Width:       20,
		Height:      12,
		Strokes:     []Stroke{{Points: []StrokePoint{{X: 4, Y: 5}}, Color: "#00E5FF", StrokeWidth: 1}},
	}
	lines := strings.Split(newTestRenderer().Render(Scene{Fragments: []DrawingFragment{f}}, 10, 3), "\n")
	require.Len(t, lines, 3)
	// (4, 5) scaled by one half lands on pixel (2, 3): the bottom half of row 1.
	assert.Contains(t, lines[1], "▄")
}

func TestRender_Cursor(t *testing.T) {
	out := newTestRenderer().Render(Scene{Cursor: &StrokePoint{X: 0, Y: 0}}, 4, 2)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "▀")
	assert.Equal(t, "    ", lines[1])
}

func TestCellStyle(t *testing.T) {
	fg, bg, glyph := cellStyle("#111111", "#222222")
	assert.Equal(t, lipgloss.Color("#111111"), fg)
	assert.Equal(t, lipgloss.Color("#222222"), bg)
	assert.Equal(t, '▀', glyph)

	fg, bg, glyph = cellStyle("#111111", "")
	assert.Equal(t, lipgloss.Color("#111111"), fg)
	assert.Equal(t, lipgloss.Color(""), bg)
	assert.Equal(t, '▀', glyph)

	fg, bg, glyph = cellStyle("", "#222222")
	assert.Equal(t, lipgloss.Color("#222222"), fg)
	assert.Equal(t, lipgloss.Color(""), bg)
	assert.Equal(t, '▄', glyph)

	_, _, glyph = cellStyle("", "")
	assert.Equal(t, ' ', glyph)
}

func TestWalkSegment(t *testing.T) {
	var visited [][2]int
	walkSegment(Point{X: 0, Y: 0}, Point{X: 3, Y: 0}, func(x, y int) {
		visited = append(visited, [2]int{x, y})
	})
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, visited)

	visited = nil
	walkSegment(Point{X: 5, Y: 5}, Point{X: 5, Y: 5}, func(x, y int) {
		visited = append(visited, [2]int{x, y})
	})
	assert.Equal(t, [][2]int{{5, 5}}, visited)
}

func TestShimmerGlow_Range(t *testing.T) {
	sg := NewShimmerGenerator(NoiseSeed)
	for u := 0.0; u <= 1; u += 0.05 {
		for d := time.Duration(0); d < LoopDuration; d += 7 * time.Second {
			g := sg.Glow(u, d)
			assert.GreaterOrEqual(t, g, 0.55)
			assert.LessOrEqual(t, g, 1.0)
			assert.Equal(t, g, sg.Glow(u, d+LoopDuration))
		}
	}
}
