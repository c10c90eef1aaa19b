package main

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const sineTableSize = 8192

// SineTable is a linearly interpolated sine lookup used by the audio
// callback, where calling math.Sin per sample is wasted work.
type SineTable struct {
	table []float64
	size  int
}

func NewSineTable() *SineTable {
	table := make([]float64, sineTableSize)
	for i := 0; i < sineTableSize; i++ {
		angle := float64(i) / float64(sineTableSize) * 2 * math.Pi
		table[i] = math.Sin(angle)
	}
	return &SineTable{table: table, size: sineTableSize}
}

func (st *SineTable) Sin(angle float64) float64 {
	normalized := math.Mod(angle, 2*math.Pi)
	if normalized < 0 {
		normalized += 2 * math.Pi
	}
	tablePos := (normalized / (2 * math.Pi)) * float64(st.size)
	index := int(tablePos)
	fraction := tablePos - float64(index)
	val1 := st.table[index%st.size]
	val2 := st.table[(index+1)%st.size]
	return val1 + fraction*(val2-val1)
}

// raster is a pixel layer of the terminal surface.
type raster struct {
	color     [][]lipgloss.Color
	intensity [][]float64
	w, h      int
}

func (r *raster) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.w && y < r.h
}

// PerformanceCache pools per-frame buffers and memoizes lipgloss styles so a
// redraw at display rate does not allocate a fresh grid every time.
type PerformanceCache struct {
	rasterPool  sync.Pool
	styleCache  map[string]lipgloss.Style
	styleMu     sync.RWMutex
	builderPool sync.Pool
}

func NewPerformanceCache() *PerformanceCache {
	return &PerformanceCache{
		styleCache: make(map[string]lipgloss.Style, 512),
		rasterPool: sync.Pool{
			New: func() interface{} {
				return &raster{}
			},
		},
		builderPool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			},
		},
	}
}

// GetRaster returns a cleared w x h layer.
func (pc *PerformanceCache) GetRaster(w, h int) *raster {
	r := pc.rasterPool.Get().(*raster)
	if len(r.color) < h {
		r.color = make([][]lipgloss.Color, h)
		r.intensity = make([][]float64, h)
	}
	for y := 0; y < h; y++ {
		if len(r.color[y]) < w {
			r.color[y] = make([]lipgloss.Color, w)
			r.intensity[y] = make([]float64, w)
		}
		for x := 0; x < w; x++ {
			r.color[y][x] = lipgloss.Color("")
			r.intensity[y][x] = 0
		}
	}
	r.w, r.h = w, h
	return r
}

func (pc *PerformanceCache) ReturnRaster(r *raster) {
	pc.rasterPool.Put(r)
}

func (pc *PerformanceCache) GetStyleFGBG(fg, bg lipgloss.Color) lipgloss.Style {
	key := string(fg) + "," + string(bg)
	pc.styleMu.RLock()
	style, ok := pc.styleCache[key]
	pc.styleMu.RUnlock()
	if ok {
		return style
	}

	pc.styleMu.Lock()
	defer pc.styleMu.Unlock()
	if style, ok = pc.styleCache[key]; ok {
		return style
	}
	style = lipgloss.NewStyle().Foreground(fg)
	if bg != "" {
		style = style.Background(bg)
	}
	pc.styleCache[key] = style
	return style
}

func (pc *PerformanceCache) GetBuilder() *strings.Builder {
	sb := pc.builderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

func (pc *PerformanceCache) ReturnBuilder(sb *strings.Builder) {
	pc.builderPool.Put(sb)
}

// ApplyGradient scales baseColor by intensity and pushes the brightest
// values towards white.
func (pc *PerformanceCache) ApplyGradient(baseColor lipgloss.Color, intensity float64) lipgloss.Color {
	r, g, b, ok := parseHex(string(baseColor))
	if !ok {
		return baseColor
	}

	brightnessFactor := 0.2 + math.Pow(intensity, 0.7)*0.8

	heatFactor := 0.0
	if intensity > 0.9 {
		heatFactor = (intensity - 0.9) / 0.1
	}

	rf := float64(r) * brightnessFactor
	gf := float64(g) * brightnessFactor
	bf := float64(b) * brightnessFactor

	rf = rf*(1-heatFactor) + 255*heatFactor
	gf = gf*(1-heatFactor) + 255*heatFactor
	bf = bf*(1-heatFactor) + 255*heatFactor

	return uint8ToHex(clampByte(rf), clampByte(gf), clampByte(bf))
}

func (pc *PerformanceCache) BlendColors(c1, c2 lipgloss.Color, ratio float64) lipgloss.Color {
	r1, g1, b1, ok1 := parseHex(string(c1))
	r2, g2, b2, ok2 := parseHex(string(c2))

	if !ok1 {
		return c2
	}
	if !ok2 {
		return c1
	}

	r := uint8(float64(r1)*(1-ratio) + float64(r2)*ratio)
	g := uint8(float64(g1)*(1-ratio) + float64(g2)*ratio)
	b := uint8(float64(b1)*(1-ratio) + float64(b2)*ratio)

	return uint8ToHex(r, g, b)
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func uint8ToHex(r, g, b uint8) lipgloss.Color {
	const hex = "0123456789ABCDEF"
	var res [7]byte
	res[0] = '#'
	res[1] = hex[r>>4]
	res[2] = hex[r&0x0F]
	res[3] = hex[g>>4]
	res[4] = hex[g&0x0F]
	res[5] = hex[b>>4]
	res[6] = hex[b&0x0F]
	return lipgloss.Color(string(res[:]))
}

func parseHex(hex string) (uint8, uint8, uint8, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}

	r := hexToUint8(hex[1], hex[2])
	g := hexToUint8(hex[3], hex[4])
	b := hexToUint8(hex[5], hex[6])

	return r, g, b, true
}

func hexToUint8(h, l byte) uint8 {
	return (unhex(h) << 4) | unhex(l)
}

func unhex(b byte) uint8 {
	switch {
	case '0' <= b && b <= '9':
		return b - '0'
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
