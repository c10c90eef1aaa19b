package main

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// inkPalette is the set of pen colors offered in the player.
var inkPalette = [9]string{
	"#E10600", // Red
	"#FF7A00", // Orange
	"#FFD400", // Yellow
	"#3DFF4E", // Green
	"#00E5FF", // Cyan
	"#2F5BFF", // Blue
	"#6A00FF", // Purple
	"#FF00C8", // Magenta
	"#FFFFFF", // White
}

const (
	lineColor   = lipgloss.Color("#C8C8D8")
	cursorColor = lipgloss.Color("#FFFFFF")

	curveSteps       = 24
	visibleThreshold = 0.05
)

// Scene is everything painted for one frame on the terminal surface.
// Pending strokes and the cursor are in surface pixels.
type Scene struct {
	Curve     Curve
	Fragments []DrawingFragment
	Pending   []Stroke
	Cursor    *StrokePoint
	Elapsed   time.Duration
}

// TerminalRenderer rasterizes a Scene into half-block characters, two
// vertical pixels per cell.
type TerminalRenderer struct {
	shimmer *ShimmerGenerator
	cache   *PerformanceCache
}

func NewTerminalRenderer(shimmer *ShimmerGenerator) *TerminalRenderer {
	return &TerminalRenderer{
		shimmer: shimmer,
		cache:   NewPerformanceCache(),
	}
}

// SurfaceSize is the pixel size of a cols x rows cell area.
func SurfaceSize(cols, rows int) (float64, float64) {
	return float64(cols), float64(rows * 2)
}

// Render paints scene into cols x rows cells.
func (tr *TerminalRenderer) Render(scene Scene, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	pw, ph := cols, rows*2

	line := tr.cache.GetRaster(pw, ph)
	defer tr.cache.ReturnRaster(line)
	ink := tr.cache.GetRaster(pw, ph)
	defer tr.cache.ReturnRaster(ink)

	pts := scene.Curve.Flatten(curveSteps)
	for i := 1; i < len(pts); i++ {
		walkSegment(pts[i-1], pts[i], func(x, y int) {
			glow := tr.shimmer.Glow(float64(x)/float64(pw), scene.Elapsed)
			tr.plot(line, x, y, lineColor, glow)
		})
	}

	for _, f := range scene.Fragments {
		if f.Width <= 0 || f.Height <= 0 {
			continue
		}
		sx := float64(pw) / f.Width
		sy := float64(ph) / f.Height
		for _, s := range f.Strokes {
			tr.drawStroke(ink, s, sx, sy)
		}
	}
	for _, s := range scene.Pending {
		tr.drawStroke(ink, s, 1, 1)
	}

	if c := scene.Cursor; c != nil {
		x, y := int(math.Round(c.X)), int(math.Round(c.Y))
		if ink.inBounds(x, y) {
			ink.color[y][x] = cursorColor
			ink.intensity[y][x] = 1
		}
	}

	return tr.gridToStringHalfBlock(line, ink, cols, rows)
}

func (tr *TerminalRenderer) drawStroke(ink *raster, s Stroke, sx, sy float64) {
	if len(s.Points) == 0 {
		return
	}
	radius := int(s.StrokeWidth * math.Min(sx, sy) / 4)
	if radius > 2 {
		radius = 2
	}
	color := lipgloss.Color(s.Color)

	paint := func(x, y int) {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				px, py := x+dx, y+dy
				if !ink.inBounds(px, py) {
					continue
				}
				if s.IsEraser {
					ink.intensity[py][px] = 0
					ink.color[py][px] = lipgloss.Color("")
					continue
				}
				ink.color[py][px] = color
				ink.intensity[py][px] = 1
			}
		}
	}

	prev := Point{X: s.Points[0].X * sx, Y: s.Points[0].Y * sy}
	walkSegment(prev, prev, paint)
	for _, p := range s.Points[1:] {
		next := Point{X: p.X * sx, Y: p.Y * sy}
		walkSegment(prev, next, paint)
		prev = next
	}
}

// plot keeps the brighter of the existing and new value, blending colors
// where the line crosses itself.
func (tr *TerminalRenderer) plot(r *raster, x, y int, color lipgloss.Color, intensity float64) {
	if !r.inBounds(x, y) {
		return
	}
	shaded := tr.cache.ApplyGradient(color, intensity)
	current := r.intensity[y][x]
	if current > visibleThreshold {
		ratio := intensity / (intensity + current)
		r.color[y][x] = tr.cache.BlendColors(r.color[y][x], shaded, ratio)
		r.intensity[y][x] = math.Max(current, intensity)
		return
	}
	r.color[y][x] = shaded
	r.intensity[y][x] = intensity
}

// walkSegment visits the pixels between a and b at half pixel steps.
func walkSegment(a, b Point, visit func(x, y int)) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))*2)) + 1
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i < steps; i++ {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		x := int(math.Round(a.X + dx*t))
		y := int(math.Round(a.Y + dy*t))
		if x == lastX && y == lastY {
			continue
		}
		visit(x, y)
		lastX, lastY = x, y
	}
}

// pixel resolves the visible color at (x, y); ink sits above the line.
func pixel(line, ink *raster, x, y int) lipgloss.Color {
	if y >= ink.h {
		return ""
	}
	if ink.intensity[y][x] > visibleThreshold {
		return ink.color[y][x]
	}
	if line.intensity[y][x] > visibleThreshold {
		return line.color[y][x]
	}
	return ""
}

func (tr *TerminalRenderer) gridToStringHalfBlock(line, ink *raster, cols, rows int) string {
	sb := tr.cache.GetBuilder()
	defer tr.cache.ReturnBuilder(sb)

	for row := 0; row < rows; row++ {
		top, bottom := row*2, row*2+1
		x := 0
		for x < cols {
			fg, bg, glyph := cellStyle(pixel(line, ink, x, top), pixel(line, ink, x, bottom))
			if glyph == ' ' {
				sb.WriteByte(' ')
				x++
				continue
			}

			// Group horizontal runs with the same glyph and colors.
			start := x
			x++
			for x < cols {
				nfg, nbg, nglyph := cellStyle(pixel(line, ink, x, top), pixel(line, ink, x, bottom))
				if nglyph != glyph || nfg != fg || nbg != bg {
					break
				}
				x++
			}

			style := tr.cache.GetStyleFGBG(fg, bg)
			sb.WriteString(style.Render(strings.Repeat(string(glyph), x-start)))
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// cellStyle picks the half block glyph for a cell from its two pixels.
func cellStyle(top, bottom lipgloss.Color) (fg, bg lipgloss.Color, glyph rune) {
	switch {
	case top != "" && bottom != "":
		return top, bottom, '▀'
	case top != "":
		return top, "", '▀'
	case bottom != "":
		return bottom, "", '▄'
	}
	return "", "", ' '
}
