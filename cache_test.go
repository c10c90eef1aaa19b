package main

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestPerformanceCache_RasterIsCleared(t *testing.T) {
	pc := NewPerformanceCache()
	r := pc.GetRaster(4, 3)
	r.color[2][3] = "#FFFFFF"
	r.intensity[2][3] = 1
	pc.ReturnRaster(r)

	r = pc.GetRaster(4, 3)
	assert.Equal(t, 4, r.w)
	assert.Equal(t, 3, r.h)
	assert.Equal(t, lipgloss.Color(""), r.color[2][3])
	assert.Zero(t, r.intensity[2][3])
	assert.True(t, r.inBounds(3, 2))
	assert.False(t, r.inBounds(4, 2))
	assert.False(t, r.inBounds(0, -1))
}

func TestPerformanceCache_StyleMemoized(t *testing.T) {
	pc := NewPerformanceCache()
	pc.GetStyleFGBG("#FF0000", "")
	pc.GetStyleFGBG("#FF0000", "")
	pc.GetStyleFGBG("#FF0000", "#000000")
	assert.Len(t, pc.styleCache, 2)
}

func TestApplyGradient(t *testing.T) {
	pc := NewPerformanceCache()
	r, g, b, ok := parseHex(string(pc.ApplyGradient("#336699", 1)))
	assert.True(t, ok)
	assert.GreaterOrEqual(t, r, uint8(254))
	assert.GreaterOrEqual(t, g, uint8(254))
	assert.GreaterOrEqual(t, b, uint8(254))

	assert.Equal(t, lipgloss.Color("#0A1420"), pc.ApplyGradient("#3264A0", 0))
	assert.Equal(t, lipgloss.Color("red"), pc.ApplyGradient("red", 0.5))
}

func TestBlendColors(t *testing.T) {
	pc := NewPerformanceCache()
	assert.Equal(t, lipgloss.Color("#000000"), pc.BlendColors("#000000", "#FFFFFF", 0))
	assert.Equal(t, lipgloss.Color("#7F7F7F"), pc.BlendColors("#000000", "#FFFFFF", 0.5))
	assert.Equal(t, lipgloss.Color("#FFFFFF"), pc.BlendColors("bad", "#FFFFFF", 0.5))
	assert.Equal(t, lipgloss.Color("#000000"), pc.BlendColors("#000000", "bad", 0.5))
}

func TestParseHex(t *testing.T) {
	r, g, b, ok := parseHex("#0aFf10")
	assert.True(t, ok)
	assert.Equal(t, []uint8{10, 255, 16}, []uint8{r, g, b})

	_, _, _, ok = parseHex("0AFF10")
	assert.False(t, ok)
}

func TestSineTable(t *testing.T) {
	st := NewSineTable()
	for a := -10.0; a < 10; a += 0.01 {
		assert.InDelta(t, math.Sin(a), st.Sin(a), 1e-6)
	}
}
